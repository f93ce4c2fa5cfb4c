package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AnonymizedDetailMarker - значение quiz_detail после анонимизации.
// Сравнение по содержимому делает повторную анонимизацию no-op.
const AnonymizedDetailMarker = `{"anonymized": true}`

// QuestionReview - запись об одном вопросе завершённой попытки:
// текст, варианты, выбранный и правильный ответы, объяснение.
type QuestionReview struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	UserAnswer    string            `json:"user_answer"`
	CorrectAnswer string            `json:"correct_answer"`
	IsCorrect     bool              `json:"is_correct"`
	Explanation   string            `json:"explanation"`
}

// QuizDetail - пользовательский тип для хранения повопросной детализации в JSON-колонке
type QuizDetail []QuestionReview

// Scan реализует интерфейс sql.Scanner для QuizDetail
// Используется GORM для чтения JSON данных из базы
func (d *QuizDetail) Scan(value interface{}) error {
	if value == nil {
		*d = QuizDetail{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal quiz detail: expected []byte or string")
	}

	if len(bytes) == 0 {
		*d = QuizDetail{}
		return nil
	}

	// Анонимизированные строки хранят объект-маркер вместо массива
	if bytes[0] == '{' {
		*d = QuizDetail{}
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// Value реализует интерфейс driver.Valuer для QuizDetail
func (d QuizDetail) Value() (driver.Value, error) {
	if len(d) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// QuizResult представляет итоговый результат одной завершённой попытки MCQ-квиза.
// Запись неизменяема после создания; исключения - массовая анонимизация
// (очищает quiz_detail) и удаление.
type QuizResult struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Language        string     `gorm:"size:50;not null;index" json:"language"`
	Difficulty      string     `gorm:"size:20;not null;index" json:"difficulty"`
	TotalQuestions  int        `gorm:"not null" json:"total_questions"`
	CorrectAnswers  int        `gorm:"not null;default:0" json:"correct_answers"`
	ScorePercentage float64    `gorm:"not null;default:0" json:"score_percentage"`
	TimeTakenSec    int        `gorm:"column:time_taken;not null;default:0" json:"time_taken"`
	QuizDetail      QuizDetail `gorm:"column:quiz_data;type:text" json:"quiz_detail"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizResult) TableName() string {
	return "quiz_results"
}

// ComputeScorePercentage вычисляет процент правильных ответов.
// score_percentage всегда производное значение, никогда не задаётся напрямую.
func ComputeScorePercentage(correct, total int) float64 {
	return float64(correct) / float64(total) * 100
}
