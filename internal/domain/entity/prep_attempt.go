package entity

import "time"

// PrepAttempt хранит одну попытку тренировочного интервью:
// открытый вопрос, ответ пользователя и оценку с обратной связью.
type PrepAttempt struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Topic      string    `gorm:"size:100;not null" json:"topic"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	UserAnswer string    `gorm:"column:user_answer;type:text" json:"user_answer"`
	AIFeedback string    `gorm:"column:ai_feedback;type:text" json:"ai_feedback"`
	Score      int       `gorm:"not null;default:0" json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (PrepAttempt) TableName() string {
	return "prep_history"
}
