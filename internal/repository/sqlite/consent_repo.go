package sqlite

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/career-suite/internal/domain/entity"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// ConsentRepo реализует repository.ConsentRepository
type ConsentRepo struct {
	db *gorm.DB
}

// NewConsentRepo создает новый репозиторий журнала согласий
func NewConsentRepo(db *gorm.DB) *ConsentRepo {
	return &ConsentRepo{db: db}
}

// AppendWithSync вставляет запись о согласии и вызывает sync внутри одной
// транзакции. Ошибка sync откатывает вставку целиком: после сбоя посреди
// операции журнал и зеркальный файл остаются согласованными.
func (r *ConsentRepo) AppendWithSync(record *entity.ConsentRecord, sync func() error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("%w: failed to append consent record: %v", apperrors.ErrPersistence, err)
		}
		if sync != nil {
			if err := sync(); err != nil {
				return fmt.Errorf("%w: failed to sync consent mirror: %v", apperrors.ErrPersistence, err)
			}
		}
		return nil
	})
}

// GetByType возвращает все записи для одного типа согласия, старые первыми
func (r *ConsentRepo) GetByType(consentType string) ([]entity.ConsentRecord, error) {
	var records []entity.ConsentRecord
	err := r.db.Where("consent_type = ?", consentType).
		Order("consent_date ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get consent records: %w", err)
	}
	return records, nil
}

// GetAll возвращает весь журнал согласий, старые первыми
func (r *ConsentRepo) GetAll() ([]entity.ConsentRecord, error) {
	var records []entity.ConsentRecord
	if err := r.db.Order("consent_date ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get all consent records: %w", err)
	}
	return records, nil
}

// Count возвращает число записей журнала согласий
func (r *ConsentRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&entity.ConsentRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count consent records: %w", err)
	}
	return count, nil
}
