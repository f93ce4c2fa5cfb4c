package entity

import "time"

// Известные типы согласий. Набор открытый: хранилище принимает любые строковые
// теги, константы покрывают типы, которые запрашивает само приложение.
const (
	ConsentDataCollection = "data_collection"
	ConsentAnalytics      = "analytics"
	ConsentAIProcessing   = "ai_processing"
)

// ConsentRecord - одно событие изменения согласия. Журнал append-only:
// каждое изменение вставляет новую строку, текущий статус типа - последняя
// строка для этого типа. Быстрый доступ к текущему статусу даёт зеркальный
// файл (см. repository/consentfile).
type ConsentRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ConsentType  string    `gorm:"size:50;not null;index" json:"consent_type"`
	ConsentGiven bool      `gorm:"not null;default:false" json:"consent_given"`
	CreatedAt    time.Time `gorm:"column:consent_date" json:"consent_date"`
}

// TableName определяет имя таблицы для GORM
func (ConsentRecord) TableName() string {
	return "user_consent"
}

// ConsentStatus - текущий статус одного типа согласия в зеркальном файле
type ConsentStatus struct {
	Given      bool      `json:"given"`
	RecordedAt time.Time `json:"date"`
}
