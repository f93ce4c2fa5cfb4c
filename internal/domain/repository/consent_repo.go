package repository

import "github.com/yourusername/career-suite/internal/domain/entity"

// ConsentRepository определяет методы для работы с журналом согласий
type ConsentRepository interface {
	// AppendWithSync вставляет запись и вызывает sync внутри одной транзакции.
	// Ошибка sync откатывает вставку: журнал и зеркальный файл статусов
	// не могут разойтись после сбоя посреди операции.
	AppendWithSync(record *entity.ConsentRecord, sync func() error) error
	GetByType(consentType string) ([]entity.ConsentRecord, error)
	GetAll() ([]entity.ConsentRecord, error)
	Count() (int64, error)
}
