package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/career-suite/internal/domain/entity"
	"github.com/yourusername/career-suite/internal/domain/repository"
	"github.com/yourusername/career-suite/internal/generator"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// ScreeningState - этап скринингового интервью
type ScreeningState string

const (
	// ScreeningCollecting - сбор анкетных данных кандидата
	ScreeningCollecting ScreeningState = "collecting"
	// ScreeningTechRound - технический раунд по стеку кандидата
	ScreeningTechRound ScreeningState = "tech_round"
	// ScreeningDone - интервью завершено, профиль сохранен
	ScreeningDone ScreeningState = "done"
)

// Роли сообщений в стенограмме
const (
	RoleAI   = "ai"
	RoleUser = "user"
)

const screeningGreeting = "Hello! I am TalentScout. Let's start. What is your Full Name?"

// collectStep - один шаг сбора анкеты: поле и вопрос, задаваемый следом
type collectStep struct {
	field        string
	nextQuestion string
}

var collectFlow = []collectStep{
	{"full_name", "Thank you. What is your Email Address?"},
	{"email", "Great. What Position are you applying for?"},
	{"position", "Understood. Please list your Tech Stack (languages, frameworks)."},
	{"tech_stack", ""},
}

// ScreeningSession - состояние одного скринингового интервью. Живет в
// памяти; профиль кандидата попадает в базу только при достижении
// терминального состояния.
type ScreeningSession struct {
	ID         string
	State      ScreeningState
	Transcript entity.Transcript

	fieldIndex    int
	fields        map[string]string
	techQuestions []string
	techIndex     int

	// Degraded: технические вопросы взяты из резервного набора
	Degraded bool

	StartedAt time.Time
}

// ScreeningService проводит скрининговые интервью и сохраняет профили
// кандидатов со стенограммой
type ScreeningService struct {
	candidateRepo repository.CandidateRepository
	source        generator.QuestionSource

	mu       sync.Mutex
	sessions map[string]*ScreeningSession
}

// NewScreeningService создает новый сервис скрининга
func NewScreeningService(candidateRepo repository.CandidateRepository, source generator.QuestionSource) *ScreeningService {
	return &ScreeningService{
		candidateRepo: candidateRepo,
		source:        source,
		sessions:      make(map[string]*ScreeningSession),
	}
}

// StartSession начинает новое интервью и возвращает сессию с приветствием
func (s *ScreeningService) StartSession() *ScreeningSession {
	session := &ScreeningSession{
		ID:        uuid.New().String(),
		State:     ScreeningCollecting,
		fields:    make(map[string]string),
		StartedAt: time.Now(),
	}
	session.Transcript = append(session.Transcript, entity.TranscriptMessage{
		Role:    RoleAI,
		Content: screeningGreeting,
	})

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Printf("[ScreeningService] Начато интервью %s", session.ID)
	return session
}

// GetSession возвращает активную сессию по идентификатору
func (s *ScreeningService) GetSession(sessionID string) (*ScreeningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: screening session %s", apperrors.ErrNotFound, sessionID)
	}
	return session, nil
}

// SubmitMessage обрабатывает ответ кандидата и возвращает реплики
// интервьюера. Второй результат true, когда интервью завершено и
// профиль сохранен.
func (s *ScreeningService) SubmitMessage(ctx context.Context, sessionID, text string) ([]string, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false, fmt.Errorf("%w: empty message", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, false, fmt.Errorf("%w: screening session %s", apperrors.ErrNotFound, sessionID)
	}
	if session.State == ScreeningDone {
		return nil, false, fmt.Errorf("%w: screening session %s is finished", apperrors.ErrConflict, sessionID)
	}

	session.Transcript = append(session.Transcript, entity.TranscriptMessage{
		Role:    RoleUser,
		Content: text,
	})

	switch session.State {
	case ScreeningCollecting:
		return s.handleCollecting(ctx, session, text)
	case ScreeningTechRound:
		return s.handleTechRound(session)
	default:
		return nil, false, fmt.Errorf("%w: unexpected screening state %s", apperrors.ErrConflict, session.State)
	}
}

// handleCollecting сохраняет очередное анкетное поле; после последнего
// запускает технический раунд
func (s *ScreeningService) handleCollecting(ctx context.Context, session *ScreeningSession, text string) ([]string, bool, error) {
	step := collectFlow[session.fieldIndex]
	session.fields[step.field] = text
	session.fieldIndex++

	if session.fieldIndex < len(collectFlow) {
		replies := []string{step.nextQuestion}
		session.appendAIReplies(replies)
		return replies, false, nil
	}

	// Анкета собрана, генерируем технические вопросы по стеку
	stack := session.fields["tech_stack"]
	questions, err := s.source.GenerateTechQuestions(ctx, stack)
	if err != nil {
		log.Printf("[ScreeningService] Генерация вопросов для стека %q не удалась, используется резервный набор: %v", stack, err)
		questions = generator.FallbackTechQuestions()
		session.Degraded = true
	}
	session.techQuestions = questions
	session.techIndex = 0
	session.State = ScreeningTechRound

	replies := []string{
		fmt.Sprintf("I have generated %d technical questions based on %s.", len(questions), stack),
		fmt.Sprintf("Q1: %s", questions[0]),
	}
	session.appendAIReplies(replies)
	return replies, false, nil
}

// handleTechRound продвигает технический раунд; после последнего ответа
// сохраняет профиль кандидата со стенограммой
func (s *ScreeningService) handleTechRound(session *ScreeningSession) ([]string, bool, error) {
	session.techIndex++

	if session.techIndex < len(session.techQuestions) {
		replies := []string{
			fmt.Sprintf("Q%d: %s", session.techIndex+1, session.techQuestions[session.techIndex]),
		}
		session.appendAIReplies(replies)
		return replies, false, nil
	}

	replies := []string{"Thank you! That concludes the screening. Your profile has been saved."}
	session.appendAIReplies(replies)

	profile := &entity.CandidateProfile{
		FullName:   session.fields["full_name"],
		Email:      session.fields["email"],
		Position:   session.fields["position"],
		TechStack:  session.fields["tech_stack"],
		Transcript: session.Transcript,
		CreatedAt:  time.Now(),
	}
	if err := s.candidateRepo.Save(profile); err != nil {
		return nil, false, fmt.Errorf("failed to save candidate profile: %w", err)
	}

	session.State = ScreeningDone
	delete(s.sessions, session.ID)

	log.Printf("[ScreeningService] Интервью %s завершено, профиль кандидата %d сохранен", session.ID, profile.ID)
	return replies, true, nil
}

// CloseSession выгружает незавершенную сессию без сохранения профиля
func (s *ScreeningService) CloseSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: screening session %s", apperrors.ErrNotFound, sessionID)
	}
	delete(s.sessions, sessionID)
	return nil
}

// Candidates возвращает все сохраненные профили кандидатов
func (s *ScreeningService) Candidates() ([]entity.CandidateProfile, error) {
	return s.candidateRepo.GetAll()
}

func (sess *ScreeningSession) appendAIReplies(replies []string) {
	for _, r := range replies {
		sess.Transcript = append(sess.Transcript, entity.TranscriptMessage{
			Role:    RoleAI,
			Content: r,
		})
	}
}
