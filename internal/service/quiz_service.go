package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/career-suite/internal/domain/entity"
	"github.com/yourusername/career-suite/internal/domain/repository"
	"github.com/yourusername/career-suite/internal/generator"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// AttemptState - этап жизненного цикла попытки викторины
type AttemptState string

const (
	// StateAsking - вопросы выданы, идет сбор ответов
	StateAsking AttemptState = "asking"
	// StateScoring - все ответы собраны, результат еще не подсчитан
	StateScoring AttemptState = "scoring"
	// StateReviewing - результат сохранен, доступен разбор ответов
	StateReviewing AttemptState = "reviewing"
	// StateDone - попытка завершена и выгружена из реестра
	StateDone AttemptState = "done"
)

// QuestionsPerQuiz - число вопросов в одной викторине
const QuestionsPerQuiz = 10

// SupportedLanguages - языки, по которым проводится викторина
var SupportedLanguages = []string{"C", "C++", "Java", "JavaScript", "HTML", "CSS"}

// SupportedDifficulties - уровни сложности викторины
var SupportedDifficulties = []string{"Easy", "Medium", "Hard"}

// QuizAttempt - состояние одной незавершенной попытки. Живет только в
// памяти: в базу попадает исключительно итоговый результат, брошенная
// попытка не оставляет следов.
type QuizAttempt struct {
	ID         string
	Language   string
	Difficulty string
	Questions  []entity.Question
	Answers    []string
	State      AttemptState

	// Degraded: вопросы взяты из встроенного банка, а не сгенерированы
	Degraded bool

	StartedAt time.Time
	Result    *entity.QuizResult
}

// CurrentIndex возвращает номер следующего неотвеченного вопроса
func (a *QuizAttempt) CurrentIndex() int {
	return len(a.Answers)
}

// QuizService управляет жизненным циклом викторин и историей результатов
type QuizService struct {
	resultRepo repository.ResultRepository
	source     generator.QuestionSource

	mu       sync.Mutex
	attempts map[string]*QuizAttempt
}

// NewQuizService создает новый сервис викторин
func NewQuizService(resultRepo repository.ResultRepository, source generator.QuestionSource) *QuizService {
	return &QuizService{
		resultRepo: resultRepo,
		source:     source,
		attempts:   make(map[string]*QuizAttempt),
	}
}

// isSupported проверяет вхождение значения в список допустимых
func isSupported(value string, supported []string) bool {
	for _, s := range supported {
		if s == value {
			return true
		}
	}
	return false
}

// StartAttempt запускает новую попытку: генерирует вопросы и переводит
// попытку в состояние сбора ответов. При отказе генератора викторина
// проводится на встроенном банке вопросов, а не завершается ошибкой.
func (s *QuizService) StartAttempt(ctx context.Context, language, difficulty string) (*QuizAttempt, error) {
	if !isSupported(language, SupportedLanguages) {
		return nil, fmt.Errorf("%w: unsupported language %q", apperrors.ErrValidation, language)
	}
	if !isSupported(difficulty, SupportedDifficulties) {
		return nil, fmt.Errorf("%w: unsupported difficulty %q", apperrors.ErrValidation, difficulty)
	}

	attempt := &QuizAttempt{
		ID:         uuid.New().String(),
		Language:   language,
		Difficulty: difficulty,
		State:      StateAsking,
		StartedAt:  time.Now(),
	}

	questions, err := s.source.GenerateQuizQuestions(ctx, language, difficulty, QuestionsPerQuiz)
	if err != nil {
		log.Printf("[QuizService] Генерация вопросов не удалась (%s/%s), используется резервный банк: %v",
			language, difficulty, err)
		questions = generator.FallbackQuizQuestions(language, QuestionsPerQuiz)
		attempt.Degraded = true
	}
	attempt.Questions = questions
	attempt.Answers = make([]string, 0, len(questions))

	s.mu.Lock()
	s.attempts[attempt.ID] = attempt
	s.mu.Unlock()

	log.Printf("[QuizService] Начата попытка %s: %s/%s, %d вопросов (degraded=%t)",
		attempt.ID, language, difficulty, len(questions), attempt.Degraded)
	return attempt, nil
}

// GetAttempt возвращает активную попытку по идентификатору
func (s *QuizService) GetAttempt(attemptID string) (*QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil, fmt.Errorf("%w: attempt %s", apperrors.ErrNotFound, attemptID)
	}
	return attempt, nil
}

// SubmitAnswer записывает ответ на текущий вопрос и продвигает попытку.
// Когда отвечен последний вопрос, попытка переходит в состояние подсчета.
// Возвращает true, если вопросов больше не осталось.
func (s *QuizService) SubmitAnswer(attemptID, letter string) (bool, error) {
	if !entity.IsValidOptionLetter(letter) {
		return false, fmt.Errorf("%w: invalid option letter %q", apperrors.ErrValidation, letter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return false, fmt.Errorf("%w: attempt %s", apperrors.ErrNotFound, attemptID)
	}
	if attempt.State != StateAsking {
		return false, fmt.Errorf("%w: attempt %s is not accepting answers (state=%s)",
			apperrors.ErrConflict, attemptID, attempt.State)
	}

	attempt.Answers = append(attempt.Answers, letter)
	if len(attempt.Answers) == len(attempt.Questions) {
		attempt.State = StateScoring
		return true, nil
	}
	return false, nil
}

// FinishAttempt подсчитывает результат полностью отвеченной попытки и
// сохраняет его в историю. Процент всегда вычисляется из числа правильных
// ответов, а не принимается извне.
func (s *QuizService) FinishAttempt(attemptID string) (*entity.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil, fmt.Errorf("%w: attempt %s", apperrors.ErrNotFound, attemptID)
	}
	if attempt.State != StateScoring {
		return nil, fmt.Errorf("%w: attempt %s is not ready for scoring (state=%s)",
			apperrors.ErrConflict, attemptID, attempt.State)
	}

	correct := 0
	detail := make(entity.QuizDetail, 0, len(attempt.Questions))
	for i, q := range attempt.Questions {
		given := attempt.Answers[i]
		isCorrect := q.IsCorrect(given)
		if isCorrect {
			correct++
		}
		detail = append(detail, entity.QuestionReview{
			Question:      q.Text,
			Options:       q.Options,
			UserAnswer:    given,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	total := len(attempt.Questions)
	result := &entity.QuizResult{
		Language:        attempt.Language,
		Difficulty:      attempt.Difficulty,
		TotalQuestions:  total,
		CorrectAnswers:  correct,
		ScorePercentage: entity.ComputeScorePercentage(correct, total),
		TimeTakenSec:    int(time.Since(attempt.StartedAt).Seconds()),
		QuizDetail:      detail,
		CreatedAt:       time.Now(),
	}

	if err := s.resultRepo.Save(result); err != nil {
		return nil, fmt.Errorf("failed to save quiz result: %w", err)
	}

	attempt.State = StateReviewing
	attempt.Result = result

	log.Printf("[QuizService] Попытка %s завершена: %d/%d (%.1f%%)",
		attemptID, correct, total, result.ScorePercentage)
	return result, nil
}

// Review возвращает поэлементный разбор завершенной попытки
func (s *QuizService) Review(attemptID string) ([]entity.QuestionReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil, fmt.Errorf("%w: attempt %s", apperrors.ErrNotFound, attemptID)
	}
	if attempt.State != StateReviewing {
		return nil, fmt.Errorf("%w: attempt %s has no review yet (state=%s)",
			apperrors.ErrConflict, attemptID, attempt.State)
	}
	return attempt.Result.QuizDetail, nil
}

// CloseAttempt выгружает попытку из реестра. Для попытки в состоянии
// разбора это штатное завершение; для любой другой - отказ от нее,
// при котором в базу ничего не пишется.
func (s *QuizService) CloseAttempt(attemptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return fmt.Errorf("%w: attempt %s", apperrors.ErrNotFound, attemptID)
	}
	attempt.State = StateDone
	delete(s.attempts, attemptID)
	return nil
}

// History возвращает последние результаты, новые первыми
func (s *QuizService) History(limit int) ([]entity.QuizResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.resultRepo.GetRecent(limit)
}

// HistoryDetail возвращает один сохраненный результат с разбором ответов
func (s *QuizService) HistoryDetail(id uint) (*entity.QuizResult, error) {
	return s.resultRepo.GetByID(id)
}

// OverallStats возвращает сводную статистику по всем результатам
func (s *QuizService) OverallStats() (*repository.OverallStats, error) {
	return s.resultRepo.OverallStats()
}

// StatsByLanguage возвращает статистику в разрезе языков
func (s *QuizService) StatsByLanguage() ([]repository.GroupStats, error) {
	return s.resultRepo.StatsByLanguage()
}

// StatsByDifficulty возвращает статистику в разрезе уровней сложности
func (s *QuizService) StatsByDifficulty() ([]repository.GroupStats, error) {
	return s.resultRepo.StatsByDifficulty()
}
