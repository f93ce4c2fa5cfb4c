package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/career-suite/internal/domain/entity"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// runFullScreening проводит интервью до терминального состояния
func runFullScreening(t *testing.T, svc *ScreeningService, techAnswers int) (string, []string) {
	t.Helper()

	session := svc.StartSession()
	ctx := context.Background()

	answers := []string{"Ivan Petrov", "ivan@example.com", "Backend Developer", "Go, PostgreSQL"}
	var lastReplies []string
	for _, a := range answers {
		replies, done, err := svc.SubmitMessage(ctx, session.ID, a)
		require.NoError(t, err)
		assert.False(t, done)
		lastReplies = replies
	}

	for i := 0; i < techAnswers; i++ {
		replies, done, err := svc.SubmitMessage(ctx, session.ID, "My answer.")
		require.NoError(t, err)
		lastReplies = replies
		if i == techAnswers-1 {
			assert.True(t, done, "после последнего ответа интервью должно завершиться")
		} else {
			assert.False(t, done)
		}
	}
	return session.ID, lastReplies
}

func TestScreeningService_StartSession_Greets(t *testing.T) {
	svc := NewScreeningService(new(MockCandidateRepo), new(MockQuestionSource))

	session := svc.StartSession()

	assert.Equal(t, ScreeningCollecting, session.State)
	require.Len(t, session.Transcript, 1)
	assert.Equal(t, RoleAI, session.Transcript[0].Role)
	assert.Contains(t, session.Transcript[0].Content, "Full Name")
}

func TestScreeningService_CollectFlow_AsksInOrder(t *testing.T) {
	svc := NewScreeningService(new(MockCandidateRepo), new(MockQuestionSource))
	session := svc.StartSession()
	ctx := context.Background()

	replies, _, err := svc.SubmitMessage(ctx, session.ID, "Ivan Petrov")
	require.NoError(t, err)
	assert.Contains(t, replies[0], "Email")

	replies, _, err = svc.SubmitMessage(ctx, session.ID, "ivan@example.com")
	require.NoError(t, err)
	assert.Contains(t, replies[0], "Position")

	replies, _, err = svc.SubmitMessage(ctx, session.ID, "Backend Developer")
	require.NoError(t, err)
	assert.Contains(t, replies[0], "Tech Stack")
}

func TestScreeningService_TechRound_StartsAfterStack(t *testing.T) {
	// Arrange
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateTechQuestions", mock.Anything, "Go, PostgreSQL").
		Return([]string{"Explain goroutines.", "What is MVCC?", "Describe indexes."}, nil)

	svc := NewScreeningService(new(MockCandidateRepo), mockSource)
	session := svc.StartSession()
	ctx := context.Background()

	for _, a := range []string{"Ivan Petrov", "ivan@example.com", "Backend Developer"} {
		_, _, err := svc.SubmitMessage(ctx, session.ID, a)
		require.NoError(t, err)
	}

	// Act: последнее анкетное поле запускает технический раунд
	replies, done, err := svc.SubmitMessage(ctx, session.ID, "Go, PostgreSQL")

	// Assert
	require.NoError(t, err)
	assert.False(t, done)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0], "3 technical questions")
	assert.Contains(t, replies[1], "Q1: Explain goroutines.")
	assert.Equal(t, ScreeningTechRound, session.State)
}

func TestScreeningService_FullFlow_PersistsProfileWithTranscript(t *testing.T) {
	// Arrange
	mockRepo := new(MockCandidateRepo)
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateTechQuestions", mock.Anything, "Go, PostgreSQL").
		Return([]string{"Q-one", "Q-two", "Q-three"}, nil)

	var saved *entity.CandidateProfile
	mockRepo.On("Save", mock.AnythingOfType("*entity.CandidateProfile")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*entity.CandidateProfile) }).
		Return(nil)

	svc := NewScreeningService(mockRepo, mockSource)

	// Act
	sessionID, lastReplies := runFullScreening(t, svc, 3)

	// Assert: профиль сохранен с полной стенограммой
	require.NotNil(t, saved, "профиль должен быть сохранен в терминальном состоянии")
	assert.Equal(t, "Ivan Petrov", saved.FullName)
	assert.Equal(t, "ivan@example.com", saved.Email)
	assert.Equal(t, "Backend Developer", saved.Position)
	assert.Equal(t, "Go, PostgreSQL", saved.TechStack)
	assert.Contains(t, lastReplies[0], "concludes the screening")

	// Стенограмма содержит приветствие, все ответы и все вопросы
	assert.GreaterOrEqual(t, len(saved.Transcript), 12)
	assert.Equal(t, RoleAI, saved.Transcript[0].Role)
	assert.Equal(t, RoleAI, saved.Transcript[len(saved.Transcript)-1].Role)

	// Завершенная сессия выгружается из реестра
	_, err := svc.GetSession(sessionID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestScreeningService_GenerationFailureFallsBack(t *testing.T) {
	// Arrange: генератор недоступен, используется резервный набор
	mockRepo := new(MockCandidateRepo)
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateTechQuestions", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrGeneration)
	mockRepo.On("Save", mock.Anything).Return(nil)

	svc := NewScreeningService(mockRepo, mockSource)
	session := svc.StartSession()
	ctx := context.Background()

	for _, a := range []string{"Ivan", "ivan@example.com", "Dev", "COBOL"} {
		_, _, err := svc.SubmitMessage(ctx, session.ID, a)
		require.NoError(t, err, "отказ генератора не должен срывать интервью")
	}

	assert.True(t, session.Degraded)
	assert.Equal(t, ScreeningTechRound, session.State)
	assert.Len(t, session.techQuestions, 3)
}

func TestScreeningService_SubmitMessage_EmptyInput(t *testing.T) {
	svc := NewScreeningService(new(MockCandidateRepo), new(MockQuestionSource))
	session := svc.StartSession()

	_, _, err := svc.SubmitMessage(context.Background(), session.ID, "   ")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Len(t, session.Transcript, 1, "пустой ввод не должен попадать в стенограмму")
}

func TestScreeningService_SubmitMessage_UnknownSession(t *testing.T) {
	svc := NewScreeningService(new(MockCandidateRepo), new(MockQuestionSource))

	_, _, err := svc.SubmitMessage(context.Background(), "missing", "hello")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestScreeningService_CloseSession_AbandonedPersistsNothing(t *testing.T) {
	mockRepo := new(MockCandidateRepo)
	svc := NewScreeningService(mockRepo, new(MockQuestionSource))
	session := svc.StartSession()

	_, _, err := svc.SubmitMessage(context.Background(), session.ID, "Ivan Petrov")
	require.NoError(t, err)

	require.NoError(t, svc.CloseSession(session.ID))

	_, err = svc.GetSession(session.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything)
}
