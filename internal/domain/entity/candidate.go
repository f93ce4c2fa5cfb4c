package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Значения идентифицирующих полей кандидата после анонимизации
const (
	AnonymizedName  = "ANONYMIZED"
	AnonymizedEmail = "anonymized@example.com"
)

// TranscriptMessage - одно сообщение диалога скрининга с ролевой меткой
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript - пользовательский тип для хранения стенограммы интервью в JSON-колонке
type Transcript []TranscriptMessage

// Scan реализует интерфейс sql.Scanner для Transcript
func (t *Transcript) Scan(value interface{}) error {
	if value == nil {
		*t = Transcript{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal transcript: expected []byte or string")
	}

	if len(bytes) == 0 || bytes[0] == '{' {
		*t = Transcript{}
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// Value реализует интерфейс driver.Valuer для Transcript
func (t Transcript) Value() (driver.Value, error) {
	if len(t) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// CandidateProfile хранит анкету кандидата и стенограмму скрининга.
// Создаётся один раз, когда сессия скрининга достигает терминального состояния.
// Изменяется только анонимизацией (очистка имени/почты/стенограммы) или удалением.
type CandidateProfile struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	FullName   string     `gorm:"size:100" json:"full_name"`
	Email      string     `gorm:"size:100" json:"email"`
	Position   string     `gorm:"size:100" json:"position"`
	TechStack  string     `gorm:"size:255" json:"tech_stack"`
	Transcript Transcript `gorm:"column:interview_data;type:text" json:"interview_data"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (CandidateProfile) TableName() string {
	return "candidates"
}
