package entity

import "time"

// Типы операций, попадающих в журнал доступа к данным
const (
	AccessTypeExport    = "export"
	AccessTypeDelete    = "delete"
	AccessTypeAnonymize = "anonymize"
)

// Целевые таблицы для журнала доступа
const (
	TargetAllTables = "all_tables"
	TargetQuiz      = "quiz_results"
	TargetCandidate = "candidates"
	TargetMultiple  = "multiple"
)

// AccessLogEntry - запись аудита одной операции экспорта/удаления/анонимизации.
// Журнал append-only: записи не изменяются и не удаляются ничем, кроме полного
// стирания хранилища.
type AccessLogEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AccessType  string    `gorm:"size:20;not null" json:"access_type"`
	Target      string    `gorm:"column:table_name;size:50" json:"table_name"`
	RecordCount int       `gorm:"column:record_count;not null;default:0" json:"record_count"`
	Purpose     string    `gorm:"size:255" json:"purpose"`
	CreatedAt   time.Time `gorm:"column:access_date" json:"access_date"`
}

// TableName определяет имя таблицы для GORM
func (AccessLogEntry) TableName() string {
	return "data_access_log"
}
