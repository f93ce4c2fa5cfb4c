package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/career-suite/internal/domain/entity"
	"github.com/yourusername/career-suite/internal/domain/repository"
	"github.com/yourusername/career-suite/internal/generator"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// PracticeResult - итог одной тренировочной попытки: оценка разбора
// и идентификатор сохраненной записи истории
type PracticeResult struct {
	Review    generator.AnswerReview
	AttemptID uint

	// Degraded: разбор ответа получен из резервного заполнителя
	Degraded bool
}

// PrepService проводит тренировочные интервью: выдает открытый вопрос
// по теме, оценивает ответ и копит историю попыток
type PrepService struct {
	prepRepo repository.PrepRepository
	source   generator.QuestionSource
}

// NewPrepService создает новый сервис тренировки
func NewPrepService(prepRepo repository.PrepRepository, source generator.QuestionSource) *PrepService {
	return &PrepService{
		prepRepo: prepRepo,
		source:   source,
	}
}

// NextQuestion возвращает один тренировочный вопрос по теме. При отказе
// генератора выдается резервная формулировка, а не ошибка.
func (s *PrepService) NextQuestion(ctx context.Context, topic, difficulty string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("%w: topic is required", apperrors.ErrValidation)
	}
	if !isSupported(difficulty, SupportedDifficulties) {
		return "", fmt.Errorf("%w: unsupported difficulty %q", apperrors.ErrValidation, difficulty)
	}

	question, err := s.source.GeneratePrepQuestion(ctx, topic, difficulty)
	if err != nil {
		log.Printf("[PrepService] Генерация вопроса по теме %q не удалась, используется резервный: %v", topic, err)
		return generator.FallbackPrepQuestion(topic), nil
	}
	return question, nil
}

// SubmitAnswer оценивает ответ кандидата и сохраняет попытку в историю.
// Сбой разбора не теряет попытку: записывается нейтральная оценка.
func (s *PrepService) SubmitAnswer(ctx context.Context, topic, question, answer string) (*PracticeResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w: answer is required", apperrors.ErrValidation)
	}

	result := &PracticeResult{}

	review, err := s.source.AnalyzeAnswer(ctx, question, answer)
	if err != nil {
		log.Printf("[PrepService] Разбор ответа не удался, записывается нейтральная оценка: %v", err)
		review = generator.FallbackAnswerReview()
		result.Degraded = true
	}
	result.Review = review

	attempt := &entity.PrepAttempt{
		Topic:      topic,
		Question:   question,
		UserAnswer: answer,
		AIFeedback: review.Feedback,
		Score:      review.Score,
		CreatedAt:  time.Now(),
	}
	if err := s.prepRepo.Save(attempt); err != nil {
		return nil, fmt.Errorf("failed to save practice attempt: %w", err)
	}
	result.AttemptID = attempt.ID

	log.Printf("[PrepService] Попытка по теме %q сохранена: score=%d", topic, review.Score)
	return result, nil
}

// History возвращает последние попытки, новые первыми
func (s *PrepService) History(limit int) ([]entity.PrepAttempt, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.prepRepo.GetRecent(limit)
}
