package dto

import (
	"time"

	"github.com/yourusername/career-suite/internal/domain/entity"
	"github.com/yourusername/career-suite/internal/service"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// Правильный ответ и пояснение не выдаются до завершения попытки.
type QuestionResponse struct {
	Index   int               `json:"index"`
	Total   int               `json:"total"`
	Text    string            `json:"text"`
	Options map[string]string `json:"options"`
}

// AttemptResponse представляет попытку викторины в формате для ответа клиенту
type AttemptResponse struct {
	ID             string            `json:"id"`
	Language       string            `json:"language"`
	Difficulty     string            `json:"difficulty"`
	State          string            `json:"state"`
	Degraded       bool              `json:"degraded"`
	AnsweredCount  int               `json:"answered_count"`
	TotalQuestions int               `json:"total_questions"`
	Question       *QuestionResponse `json:"question,omitempty"`
}

// ResultResponse представляет сохраненный результат викторины
type ResultResponse struct {
	ID              uint      `json:"id"`
	Language        string    `json:"language"`
	Difficulty      string    `json:"difficulty"`
	TotalQuestions  int       `json:"total_questions"`
	CorrectAnswers  int       `json:"correct_answers"`
	ScorePercentage float64   `json:"score_percentage"`
	TimeTakenSec    int       `json:"time_taken_sec"`
	CreatedAt       time.Time `json:"created_at"`
}

// ReviewItemResponse представляет разбор одного вопроса
type ReviewItemResponse struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	UserAnswer    string            `json:"user_answer"`
	CorrectAnswer string            `json:"correct_answer"`
	IsCorrect     bool              `json:"is_correct"`
	Explanation   string            `json:"explanation"`
}

// NewQuestionResponse строит DTO текущего вопроса попытки
func NewQuestionResponse(attempt *service.QuizAttempt) *QuestionResponse {
	idx := attempt.CurrentIndex()
	if idx >= len(attempt.Questions) {
		return nil
	}
	q := attempt.Questions[idx]
	return &QuestionResponse{
		Index:   idx + 1,
		Total:   len(attempt.Questions),
		Text:    q.Text,
		Options: q.Options,
	}
}

// NewAttemptResponse строит DTO попытки с текущим вопросом (если есть)
func NewAttemptResponse(attempt *service.QuizAttempt) AttemptResponse {
	resp := AttemptResponse{
		ID:             attempt.ID,
		Language:       attempt.Language,
		Difficulty:     attempt.Difficulty,
		State:          string(attempt.State),
		Degraded:       attempt.Degraded,
		AnsweredCount:  len(attempt.Answers),
		TotalQuestions: len(attempt.Questions),
	}
	if attempt.State == service.StateAsking {
		resp.Question = NewQuestionResponse(attempt)
	}
	return resp
}

// NewResultResponse строит DTO сохраненного результата
func NewResultResponse(result *entity.QuizResult) ResultResponse {
	return ResultResponse{
		ID:              result.ID,
		Language:        result.Language,
		Difficulty:      result.Difficulty,
		TotalQuestions:  result.TotalQuestions,
		CorrectAnswers:  result.CorrectAnswers,
		ScorePercentage: result.ScorePercentage,
		TimeTakenSec:    result.TimeTakenSec,
		CreatedAt:       result.CreatedAt,
	}
}

// NewResultResponses строит список DTO результатов
func NewResultResponses(results []entity.QuizResult) []ResultResponse {
	out := make([]ResultResponse, 0, len(results))
	for i := range results {
		out = append(out, NewResultResponse(&results[i]))
	}
	return out
}

// NewReviewResponse строит список DTO разбора ответов
func NewReviewResponse(detail []entity.QuestionReview) []ReviewItemResponse {
	out := make([]ReviewItemResponse, 0, len(detail))
	for _, r := range detail {
		out = append(out, ReviewItemResponse{
			Question:      r.Question,
			Options:       r.Options,
			UserAnswer:    r.UserAnswer,
			CorrectAnswer: r.CorrectAnswer,
			IsCorrect:     r.IsCorrect,
			Explanation:   r.Explanation,
		})
	}
	return out
}
