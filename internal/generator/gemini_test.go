package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// newStubClient поднимает тестовый сервер, отдающий reply как текст
// единственного кандидата, и возвращает клиент, направленный на него
func newStubClient(t *testing.T, reply string) (*GeminiClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	client := NewGeminiClient("test-key", "gemini-2.0-flash", 5*time.Second)
	client.baseURL = server.URL
	return client, server
}

func validQuestionsJSON(count int) string {
	questions := make([]map[string]any, count)
	for i := range questions {
		questions[i] = map[string]any{
			"question": "What does the := operator do?",
			"options": map[string]string{
				"A": "Declares and assigns", "B": "Compares", "C": "Dereferences", "D": "Nothing",
			},
			"correct_answer": "A",
			"explanation":    "Short variable declaration declares and initializes.",
		}
	}
	raw, _ := json.Marshal(questions)
	return string(raw)
}

func TestGeminiClient_GenerateQuizQuestions_Success(t *testing.T) {
	client, _ := newStubClient(t, validQuestionsJSON(10))

	questions, err := client.GenerateQuizQuestions(context.Background(), "Go", "Easy", 10)

	require.NoError(t, err)
	require.Len(t, questions, 10)
	assert.Equal(t, "A", questions[0].CorrectAnswer)
	assert.True(t, questions[0].IsWellFormed())
}

func TestGeminiClient_GenerateQuizQuestions_StripsMarkdownFences(t *testing.T) {
	client, _ := newStubClient(t, "```json\n"+validQuestionsJSON(2)+"\n```")

	questions, err := client.GenerateQuizQuestions(context.Background(), "Go", "Easy", 2)

	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestGeminiClient_GenerateQuizQuestions_WrongCount(t *testing.T) {
	client, _ := newStubClient(t, validQuestionsJSON(7))

	_, err := client.GenerateQuizQuestions(context.Background(), "Go", "Easy", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGeneration, "неполный набор должен быть ошибкой генерации")
}

func TestGeminiClient_GenerateQuizQuestions_MalformedQuestion(t *testing.T) {
	// Ровно count вопросов, но у одного нет правильного ответа
	raw := `[{"question":"Q?","options":{"A":"1","B":"2","C":"3","D":"4"},"correct_answer":"E","explanation":"x"}]`
	client, _ := newStubClient(t, raw)

	_, err := client.GenerateQuizQuestions(context.Background(), "Go", "Easy", 1)

	assert.ErrorIs(t, err, apperrors.ErrGeneration)
}

func TestGeminiClient_GenerateQuizQuestions_MissingAPIKey(t *testing.T) {
	client := NewGeminiClient("", "", 0)

	_, err := client.GenerateQuizQuestions(context.Background(), "Go", "Easy", 10)

	assert.ErrorIs(t, err, apperrors.ErrGeneration)
}

func TestGeminiClient_GenerateTechQuestions_Success(t *testing.T) {
	client, _ := newStubClient(t, `["What is a goroutine?","Explain channels.","Describe the GC."]`)

	questions, err := client.GenerateTechQuestions(context.Background(), "Go, Kubernetes")

	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestGeminiClient_GenerateTechQuestions_EmptyList(t *testing.T) {
	client, _ := newStubClient(t, `[]`)

	_, err := client.GenerateTechQuestions(context.Background(), "Go")

	assert.ErrorIs(t, err, apperrors.ErrGeneration)
}

func TestGeminiClient_GeneratePrepQuestion_TrimsWhitespace(t *testing.T) {
	client, _ := newStubClient(t, "  What is a mutex?  \n")

	question, err := client.GeneratePrepQuestion(context.Background(), "Concurrency", "Medium")

	require.NoError(t, err)
	assert.Equal(t, "What is a mutex?", question)
}

func TestGeminiClient_AnalyzeAnswer_ClampsScore(t *testing.T) {
	client, _ := newStubClient(t, `{"score":150,"feedback":"Good","sample_answer":"..."}`)

	review, err := client.AnalyzeAnswer(context.Background(), "Q?", "A.")

	require.NoError(t, err)
	assert.Equal(t, 100, review.Score, "оценка должна быть ограничена диапазоном 0-100")
}

func TestGeminiClient_APIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	t.Cleanup(server.Close)

	client := NewGeminiClient("test-key", "", time.Second)
	client.baseURL = server.URL

	_, err := client.GeneratePrepQuestion(context.Background(), "Go", "Easy")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGeneration)
	assert.Contains(t, err.Error(), "429")
}
