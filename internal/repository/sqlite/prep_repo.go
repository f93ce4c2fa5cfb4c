package sqlite

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// PrepRepo реализует repository.PrepRepository
type PrepRepo struct {
	db *gorm.DB
}

// NewPrepRepo создает новый репозиторий истории тренировочных интервью
func NewPrepRepo(db *gorm.DB) *PrepRepo {
	return &PrepRepo{db: db}
}

// Save сохраняет одну тренировочную попытку
func (r *PrepRepo) Save(attempt *entity.PrepAttempt) error {
	if err := r.db.Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to save prep attempt: %w", err)
	}
	return nil
}

// GetRecent возвращает последние limit попыток, новые первыми
func (r *PrepRepo) GetRecent(limit int) ([]entity.PrepAttempt, error) {
	var attempts []entity.PrepAttempt
	err := r.db.Order("created_at DESC").Limit(limit).Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get prep history: %w", err)
	}
	return attempts, nil
}

// GetAll возвращает всю историю. Используется для экспорта.
func (r *PrepRepo) GetAll() ([]entity.PrepAttempt, error) {
	var attempts []entity.PrepAttempt
	if err := r.db.Order("created_at DESC").Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all prep attempts: %w", err)
	}
	return attempts, nil
}

// Count возвращает число сохранённых попыток
func (r *PrepRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&entity.PrepAttempt{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count prep attempts: %w", err)
	}
	return count, nil
}

// DeleteAll удаляет всю историю и возвращает число удалённых строк
func (r *PrepRepo) DeleteAll() (int64, error) {
	res := r.db.Where("1 = 1").Delete(&entity.PrepAttempt{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete prep attempts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
