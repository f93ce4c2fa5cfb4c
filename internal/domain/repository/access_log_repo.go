package repository

import "github.com/yourusername/career-suite/internal/domain/entity"

// AccessLogRepository определяет методы для работы с журналом доступа к данным.
// Журнал append-only: интерфейс намеренно не содержит методов изменения
// и удаления записей.
type AccessLogRepository interface {
	Append(entry *entity.AccessLogEntry) error
	GetRecent(limit int) ([]entity.AccessLogEntry, error)
	Count() (int64, error)
}
