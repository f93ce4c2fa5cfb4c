package sqlite

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// AccessLogRepo реализует repository.AccessLogRepository
type AccessLogRepo struct {
	db *gorm.DB
}

// NewAccessLogRepo создает новый репозиторий журнала доступа к данным
func NewAccessLogRepo(db *gorm.DB) *AccessLogRepo {
	return &AccessLogRepo{db: db}
}

// Append добавляет запись аудита
func (r *AccessLogRepo) Append(entry *entity.AccessLogEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append access log entry: %w", err)
	}
	return nil
}

// GetRecent возвращает последние limit записей аудита, новые первыми
func (r *AccessLogRepo) GetRecent(limit int) ([]entity.AccessLogEntry, error) {
	var entries []entity.AccessLogEntry
	err := r.db.Order("access_date DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get access log: %w", err)
	}
	return entries, nil
}

// Count возвращает число записей аудита
func (r *AccessLogRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&entity.AccessLogEntry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count access log entries: %w", err)
	}
	return count, nil
}
