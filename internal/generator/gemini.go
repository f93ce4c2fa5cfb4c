package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yourusername/career-suite/internal/domain/entity"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient реализует QuestionSource поверх Gemini API
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *geminiAPIError `json:"error,omitempty"`
}

type geminiAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiClient создает клиент Gemini API. Пустой model заменяется
// значением по умолчанию.
func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiEndpoint,
		client:  &http.Client{Timeout: timeout},
	}
}

// GenerateQuizQuestions генерирует count вопросов с вариантами A-D.
// Ответ модели валидируется целиком: неполный или искаженный набор
// считается ошибкой генерации, а не частичным успехом.
func (c *GeminiClient) GenerateQuizQuestions(ctx context.Context, language, difficulty string, count int) ([]entity.Question, error) {
	prompt := fmt.Sprintf(`You are an expert programming instructor creating MCQ questions.

Generate exactly %d multiple-choice questions for %s programming at %s difficulty level.

Requirements:
- Questions should test practical knowledge and understanding
- Each question must have exactly 4 options (A, B, C, D)
- Only ONE option should be correct
- Include a brief explanation for the correct answer
- For %s difficulty:
  * Easy: Basic syntax, fundamental concepts
  * Medium: Practical applications, common patterns
  * Hard: Advanced concepts, edge cases, optimization

Return a JSON array with this exact structure:
[
  {
    "question": "Question text here?",
    "options": {
      "A": "First option",
      "B": "Second option",
      "C": "Third option",
      "D": "Fourth option"
    },
    "correct_answer": "A",
    "explanation": "Brief explanation why this is correct"
  }
]

Generate %d questions now for %s at %s level.`,
		count, language, difficulty, difficulty, count, language, difficulty)

	raw, err := c.generateContent(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	var questions []entity.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("%w: failed to parse generated questions: %v", apperrors.ErrGeneration, err)
	}
	if len(questions) != count {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", apperrors.ErrGeneration, count, len(questions))
	}
	for i, q := range questions {
		if !q.IsWellFormed() {
			return nil, fmt.Errorf("%w: question %d is malformed", apperrors.ErrGeneration, i+1)
		}
	}
	return questions, nil
}

// GenerateTechQuestions генерирует три вопроса для скринингового интервью
func (c *GeminiClient) GenerateTechQuestions(ctx context.Context, techStack string) ([]string, error) {
	prompt := fmt.Sprintf(
		"You are a Senior Technical Recruiter. "+
			"Generate 3 challenging technical interview questions for a candidate specializing in: %s. "+
			`Return ONLY a JSON list of strings. Example: ["Question 1", "Question 2"]`,
		techStack,
	)

	raw, err := c.generateContent(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("%w: failed to parse tech questions: %v", apperrors.ErrGeneration, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty tech question list", apperrors.ErrGeneration)
	}
	for i, q := range questions {
		if strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("%w: tech question %d is empty", apperrors.ErrGeneration, i+1)
		}
	}
	return questions, nil
}

// GeneratePrepQuestion генерирует один открытый тренировочный вопрос
func (c *GeminiClient) GeneratePrepQuestion(ctx context.Context, topic, difficulty string) (string, error) {
	prompt := fmt.Sprintf(
		"Generate exactly one %s-level interview question about '%s'. "+
			"Do not provide the answer, just the question text.",
		difficulty, topic,
	)

	raw, err := c.generateContent(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	question := strings.TrimSpace(raw)
	if question == "" {
		return "", fmt.Errorf("%w: empty prep question", apperrors.ErrGeneration)
	}
	return question, nil
}

// AnalyzeAnswer оценивает ответ кандидата на тренировочный вопрос
func (c *GeminiClient) AnalyzeAnswer(ctx context.Context, question, answer string) (AnswerReview, error) {
	prompt := fmt.Sprintf(
		"You are an Expert Interview Coach. Evaluate the following answer.\n\n"+
			"Question: %s\n"+
			"Candidate Answer: %s\n\n"+
			"Return a JSON object with exactly these keys:\n"+
			"- score (integer 0-100)\n"+
			"- feedback (string, constructive critique)\n"+
			"- sample_answer (string, a perfect example response)\n",
		question, answer,
	)

	raw, err := c.generateContent(ctx, prompt, true)
	if err != nil {
		return AnswerReview{}, err
	}

	var review AnswerReview
	if err := json.Unmarshal([]byte(raw), &review); err != nil {
		return AnswerReview{}, fmt.Errorf("%w: failed to parse answer review: %v", apperrors.ErrGeneration, err)
	}
	if review.Score < 0 {
		review.Score = 0
	}
	if review.Score > 100 {
		review.Score = 100
	}
	return review, nil
}

// generateContent выполняет один запрос к Gemini API и возвращает текст
// первого кандидата, очищенный от markdown-ограждений
func (c *GeminiClient) generateContent(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key is not configured", apperrors.ErrGeneration)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if jsonMode {
		reqBody.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: "application/json"}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", apperrors.ErrGeneration, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: error reading response: %v", apperrors.ErrGeneration, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: Gemini API status %d: %s", apperrors.ErrGeneration, resp.StatusCode, string(body))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("%w: error unmarshaling response: %v", apperrors.ErrGeneration, err)
	}
	if geminiResp.Error != nil {
		return "", fmt.Errorf("%w: Gemini API error: %s", apperrors.ErrGeneration, geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", apperrors.ErrGeneration)
	}

	return cleanJSONResponse(geminiResp.Candidates[0].Content.Parts[0].Text), nil
}

// cleanJSONResponse удаляет markdown форматирование из ответа
func cleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	return strings.TrimSpace(response)
}
