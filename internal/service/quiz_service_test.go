package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/career-suite/internal/domain/entity"
	"github.com/yourusername/career-suite/internal/domain/repository"
	"github.com/yourusername/career-suite/internal/generator"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// ============================================================================
// Моки для QuizService
// ============================================================================

// MockResultRepo реализует repository.ResultRepository
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) Save(result *entity.QuizResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepo) GetByID(id uint) (*entity.QuizResult, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizResult), args.Error(1)
}

func (m *MockResultRepo) GetRecent(limit int) ([]entity.QuizResult, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.QuizResult), args.Error(1)
}

func (m *MockResultRepo) GetAll() ([]entity.QuizResult, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.QuizResult), args.Error(1)
}

func (m *MockResultRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResultRepo) OverallStats() (*repository.OverallStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OverallStats), args.Error(1)
}

func (m *MockResultRepo) StatsByLanguage() ([]repository.GroupStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.GroupStats), args.Error(1)
}

func (m *MockResultRepo) StatsByDifficulty() ([]repository.GroupStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.GroupStats), args.Error(1)
}

func (m *MockResultRepo) DeleteAll() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResultRepo) AnonymizeOlderThan(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuestionSource реализует generator.QuestionSource
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) GenerateQuizQuestions(ctx context.Context, language, difficulty string, count int) ([]entity.Question, error) {
	args := m.Called(ctx, language, difficulty, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionSource) GenerateTechQuestions(ctx context.Context, techStack string) ([]string, error) {
	args := m.Called(ctx, techStack)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuestionSource) GeneratePrepQuestion(ctx context.Context, topic, difficulty string) (string, error) {
	args := m.Called(ctx, topic, difficulty)
	return args.String(0), args.Error(1)
}

func (m *MockQuestionSource) AnalyzeAnswer(ctx context.Context, question, answer string) (generator.AnswerReview, error) {
	args := m.Called(ctx, question, answer)
	return args.Get(0).(generator.AnswerReview), args.Error(1)
}

// makeTestQuestions генерирует count корректных вопросов с правильным ответом A
func makeTestQuestions(count int) []entity.Question {
	questions := make([]entity.Question, count)
	for i := range questions {
		questions[i] = entity.Question{
			Text: "What is 2 + 2?",
			Options: map[string]string{
				"A": "4", "B": "3", "C": "5", "D": "22",
			},
			CorrectAnswer: "A",
			Explanation:   "Basic arithmetic.",
		}
	}
	return questions
}

// ============================================================================
// Тесты для QuizService
// ============================================================================

func TestQuizService_StartAttempt_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockResultRepo)
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateQuizQuestions", mock.Anything, "Java", "Easy", QuestionsPerQuiz).
		Return(makeTestQuestions(QuestionsPerQuiz), nil)

	svc := NewQuizService(mockRepo, mockSource)

	// Act
	attempt, err := svc.StartAttempt(context.Background(), "Java", "Easy")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, StateAsking, attempt.State)
	assert.Len(t, attempt.Questions, QuestionsPerQuiz)
	assert.False(t, attempt.Degraded)
	mockSource.AssertExpectations(t)
}

func TestQuizService_StartAttempt_InvalidLanguage(t *testing.T) {
	svc := NewQuizService(new(MockResultRepo), new(MockQuestionSource))

	_, err := svc.StartAttempt(context.Background(), "Rust", "Easy")

	assert.ErrorIs(t, err, apperrors.ErrValidation, "неподдерживаемый язык должен отклоняться")
}

func TestQuizService_StartAttempt_InvalidDifficulty(t *testing.T) {
	svc := NewQuizService(new(MockResultRepo), new(MockQuestionSource))

	_, err := svc.StartAttempt(context.Background(), "Java", "Impossible")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestQuizService_StartAttempt_GenerationFailureFallsBack(t *testing.T) {
	// Arrange: генератор недоступен
	mockRepo := new(MockResultRepo)
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateQuizQuestions", mock.Anything, "CSS", "Hard", QuestionsPerQuiz).
		Return(nil, apperrors.ErrGeneration)

	svc := NewQuizService(mockRepo, mockSource)

	// Act
	attempt, err := svc.StartAttempt(context.Background(), "CSS", "Hard")

	// Assert: викторина идет на резервном банке, а не падает
	require.NoError(t, err, "отказ генератора не должен срывать викторину")
	assert.True(t, attempt.Degraded)
	assert.Len(t, attempt.Questions, QuestionsPerQuiz)
	for _, q := range attempt.Questions {
		assert.True(t, q.IsWellFormed())
	}
}

func TestQuizService_SubmitAnswer_AdvancesAndTransitions(t *testing.T) {
	// Arrange
	mockRepo := new(MockResultRepo)
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateQuizQuestions", mock.Anything, "C", "Easy", QuestionsPerQuiz).
		Return(makeTestQuestions(QuestionsPerQuiz), nil)

	svc := NewQuizService(mockRepo, mockSource)
	attempt, err := svc.StartAttempt(context.Background(), "C", "Easy")
	require.NoError(t, err)

	// Act: отвечаем на все вопросы кроме последнего
	for i := 0; i < QuestionsPerQuiz-1; i++ {
		finished, err := svc.SubmitAnswer(attempt.ID, "A")
		require.NoError(t, err)
		assert.False(t, finished, "до последнего ответа попытка не завершена")
	}

	finished, err := svc.SubmitAnswer(attempt.ID, "B")

	// Assert
	require.NoError(t, err)
	assert.True(t, finished, "последний ответ должен завершить сбор")
	assert.Equal(t, StateScoring, attempt.State)
}

func TestQuizService_SubmitAnswer_InvalidLetter(t *testing.T) {
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateQuizQuestions", mock.Anything, "C", "Easy", QuestionsPerQuiz).
		Return(makeTestQuestions(QuestionsPerQuiz), nil)

	svc := NewQuizService(new(MockResultRepo), mockSource)
	attempt, err := svc.StartAttempt(context.Background(), "C", "Easy")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(attempt.ID, "E")

	assert.ErrorIs(t, err, apperrors.ErrValidation, "ответ вне диапазона A-D должен отклоняться")
	assert.Empty(t, attempt.Answers, "неверный ответ не должен записываться")
}

func TestQuizService_SubmitAnswer_UnknownAttempt(t *testing.T) {
	svc := NewQuizService(new(MockResultRepo), new(MockQuestionSource))

	_, err := svc.SubmitAnswer("missing-id", "A")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQuizService_FinishAttempt_ComputesScoreAndPersists(t *testing.T) {
	// Arrange
	mockRepo := new(MockResultRepo)
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateQuizQuestions", mock.Anything, "Java", "Medium", QuestionsPerQuiz).
		Return(makeTestQuestions(QuestionsPerQuiz), nil)

	var saved *entity.QuizResult
	mockRepo.On("Save", mock.AnythingOfType("*entity.QuizResult")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*entity.QuizResult) }).
		Return(nil)

	svc := NewQuizService(mockRepo, mockSource)
	attempt, err := svc.StartAttempt(context.Background(), "Java", "Medium")
	require.NoError(t, err)

	// 7 правильных ответов, 3 неправильных
	for i := 0; i < 7; i++ {
		_, err := svc.SubmitAnswer(attempt.ID, "A")
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := svc.SubmitAnswer(attempt.ID, "B")
		require.NoError(t, err)
	}

	// Act
	result, err := svc.FinishAttempt(attempt.ID)

	// Assert: процент вычислен из ответов, а не задан извне
	require.NoError(t, err)
	require.NotNil(t, saved, "результат должен быть сохранен в репозитории")
	assert.Equal(t, 7, result.CorrectAnswers)
	assert.Equal(t, QuestionsPerQuiz, result.TotalQuestions)
	assert.InDelta(t, 70.0, result.ScorePercentage, 0.0001)
	assert.Equal(t, "Java", result.Language)
	assert.Len(t, result.QuizDetail, QuestionsPerQuiz)
	assert.True(t, result.QuizDetail[0].IsCorrect)
	assert.False(t, result.QuizDetail[9].IsCorrect)
	assert.Equal(t, StateReviewing, attempt.State)
	mockRepo.AssertExpectations(t)
}

func TestQuizService_FinishAttempt_BeforeAllAnswered(t *testing.T) {
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateQuizQuestions", mock.Anything, "C", "Easy", QuestionsPerQuiz).
		Return(makeTestQuestions(QuestionsPerQuiz), nil)

	svc := NewQuizService(new(MockResultRepo), mockSource)
	attempt, err := svc.StartAttempt(context.Background(), "C", "Easy")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(attempt.ID, "A")
	require.NoError(t, err)

	_, err = svc.FinishAttempt(attempt.ID)

	assert.ErrorIs(t, err, apperrors.ErrConflict, "подсчет до сбора всех ответов должен отклоняться")
}

func TestQuizService_CloseAttempt_AbandonedPersistsNothing(t *testing.T) {
	// Arrange: репозиторий без ожиданий - любой вызов Save провалит тест
	mockRepo := new(MockResultRepo)
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateQuizQuestions", mock.Anything, "C", "Easy", QuestionsPerQuiz).
		Return(makeTestQuestions(QuestionsPerQuiz), nil)

	svc := NewQuizService(mockRepo, mockSource)
	attempt, err := svc.StartAttempt(context.Background(), "C", "Easy")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(attempt.ID, "A")
	require.NoError(t, err)

	// Act: бросаем попытку на полпути
	require.NoError(t, svc.CloseAttempt(attempt.ID))

	// Assert
	_, err = svc.GetAttempt(attempt.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "закрытая попытка должна исчезнуть из реестра")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestQuizService_Review_OnlyAfterScoring(t *testing.T) {
	mockRepo := new(MockResultRepo)
	mockSource := new(MockQuestionSource)
	mockSource.On("GenerateQuizQuestions", mock.Anything, "C", "Easy", QuestionsPerQuiz).
		Return(makeTestQuestions(QuestionsPerQuiz), nil)
	mockRepo.On("Save", mock.Anything).Return(nil)

	svc := NewQuizService(mockRepo, mockSource)
	attempt, err := svc.StartAttempt(context.Background(), "C", "Easy")
	require.NoError(t, err)

	// До подсчета разбор недоступен
	_, err = svc.Review(attempt.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	for i := 0; i < QuestionsPerQuiz; i++ {
		_, err := svc.SubmitAnswer(attempt.ID, "A")
		require.NoError(t, err)
	}
	_, err = svc.FinishAttempt(attempt.ID)
	require.NoError(t, err)

	review, err := svc.Review(attempt.ID)
	require.NoError(t, err)
	assert.Len(t, review, QuestionsPerQuiz)
}

func TestQuizService_History_DefaultLimit(t *testing.T) {
	mockRepo := new(MockResultRepo)
	mockRepo.On("GetRecent", 20).Return([]entity.QuizResult{}, nil)

	svc := NewQuizService(mockRepo, new(MockQuestionSource))

	_, err := svc.History(0)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestQuizService_OverallStats(t *testing.T) {
	mockRepo := new(MockResultRepo)
	expected := &repository.OverallStats{
		TotalQuizzes:   4,
		AvgScore:       62.5,
		BestScore:      90,
		TotalCorrect:   25,
		TotalQuestions: 40,
		Accuracy:       62.5,
	}
	mockRepo.On("OverallStats").Return(expected, nil)

	svc := NewQuizService(mockRepo, new(MockQuestionSource))

	stats, err := svc.OverallStats()

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
}
