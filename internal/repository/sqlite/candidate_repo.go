package sqlite

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// CandidateRepo реализует repository.CandidateRepository
type CandidateRepo struct {
	db *gorm.DB
}

// NewCandidateRepo создает новый репозиторий анкет кандидатов
func NewCandidateRepo(db *gorm.DB) *CandidateRepo {
	return &CandidateRepo{db: db}
}

// Save сохраняет анкету кандидата со стенограммой скрининга
func (r *CandidateRepo) Save(profile *entity.CandidateProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to save candidate profile: %w", err)
	}
	return nil
}

// GetAll возвращает все анкеты. Используется для экспорта.
func (r *CandidateRepo) GetAll() ([]entity.CandidateProfile, error) {
	var profiles []entity.CandidateProfile
	if err := r.db.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to get candidate profiles: %w", err)
	}
	return profiles, nil
}

// Count возвращает число сохранённых анкет
func (r *CandidateRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&entity.CandidateProfile{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count candidate profiles: %w", err)
	}
	return count, nil
}

// DeleteAll удаляет все анкеты и возвращает число удалённых строк
func (r *CandidateRepo) DeleteAll() (int64, error) {
	res := r.db.Where("1 = 1").Delete(&entity.CandidateProfile{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete candidate profiles: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// AnonymizeOlderThan очищает имя, почту и стенограмму у анкет старше cutoff.
// Предикат исключает уже анонимизированные строки (сравнение по содержимому),
// поэтому повторный запуск возвращает 0.
func (r *CandidateRepo) AnonymizeOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Model(&entity.CandidateProfile{}).
		Where("created_at < ? AND full_name <> ?", cutoff, entity.AnonymizedName).
		Updates(map[string]interface{}{
			"full_name":      entity.AnonymizedName,
			"email":          entity.AnonymizedEmail,
			"interview_data": entity.AnonymizedDetailMarker,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to anonymize candidate profiles: %w", res.Error)
	}
	return res.RowsAffected, nil
}
