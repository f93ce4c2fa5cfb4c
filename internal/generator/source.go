package generator

import (
	"context"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// AnswerReview - результат разбора ответа кандидата на тренировочный вопрос
type AnswerReview struct {
	// Score: оценка от 0 до 100
	Score int `json:"score"`

	// Feedback: конструктивная критика ответа
	Feedback string `json:"feedback"`

	// SampleAnswer: пример эталонного ответа
	SampleAnswer string `json:"sample_answer"`
}

// QuestionSource - источник сгенерированного контента для викторин,
// скрининга и тренировки. Реализация может ходить во внешний API;
// вызывающий код обрабатывает ошибки переходом на встроенный банк.
type QuestionSource interface {
	// GenerateQuizQuestions генерирует count вопросов с вариантами A-D
	// для языка и уровня сложности
	GenerateQuizQuestions(ctx context.Context, language, difficulty string, count int) ([]entity.Question, error)

	// GenerateTechQuestions генерирует три технических вопроса для
	// скринингового интервью по указанному стеку
	GenerateTechQuestions(ctx context.Context, techStack string) ([]string, error)

	// GeneratePrepQuestion генерирует один открытый тренировочный вопрос
	GeneratePrepQuestion(ctx context.Context, topic, difficulty string) (string, error)

	// AnalyzeAnswer оценивает ответ кандидата на тренировочный вопрос
	AnalyzeAnswer(ctx context.Context, question, answer string) (AnswerReview, error)
}
