package repository

import (
	"time"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// OverallStats - сводная статистика по всем результатам квизов.
// Пустое хранилище даёт нулевую сводку, это определённый контракт, не ошибка.
type OverallStats struct {
	TotalQuizzes   int64   `json:"total_quizzes"`
	AvgScore       float64 `json:"avg_score"`
	BestScore      float64 `json:"best_score"`
	TotalCorrect   int64   `json:"total_correct"`
	TotalQuestions int64   `json:"total_questions"`
	Accuracy       float64 `json:"accuracy"`
}

// GroupStats - статистика по одной группе (язык или сложность)
type GroupStats struct {
	Group         string  `json:"group"`
	TotalAttempts int64   `json:"total_attempts"`
	AvgScore      float64 `json:"avg_score"`
}

// ResultRepository определяет методы для работы с результатами квизов
type ResultRepository interface {
	Save(result *entity.QuizResult) error
	GetByID(id uint) (*entity.QuizResult, error)
	GetRecent(limit int) ([]entity.QuizResult, error)
	GetAll() ([]entity.QuizResult, error)
	Count() (int64, error)
	OverallStats() (*OverallStats, error)
	StatsByLanguage() ([]GroupStats, error)
	StatsByDifficulty() ([]GroupStats, error)
	DeleteAll() (int64, error)
	AnonymizeOlderThan(cutoff time.Time) (int64, error)
}
