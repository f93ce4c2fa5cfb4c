package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/career-suite/internal/handler/dto"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
	"github.com/yourusername/career-suite/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с викторинами
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// GetOptions возвращает поддерживаемые языки и уровни сложности
// GET /api/quiz/options
func (h *QuizHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages":    service.SupportedLanguages,
		"difficulties": service.SupportedDifficulties,
		"questions":    service.QuestionsPerQuiz,
	})
}

// StartAttemptRequest представляет запрос на запуск викторины
type StartAttemptRequest struct {
	Language   string `json:"language" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
}

// StartAttempt запускает новую попытку викторины
// POST /api/quiz/attempts
func (h *QuizHandler) StartAttempt(c *gin.Context) {
	var req StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.quizService.StartAttempt(c.Request.Context(), req.Language, req.Difficulty)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAttemptResponse(attempt))
}

// GetAttempt возвращает состояние попытки с текущим вопросом
// GET /api/quiz/attempts/:id
func (h *QuizHandler) GetAttempt(c *gin.Context) {
	attempt, err := h.quizService.GetAttempt(c.Param("id"))
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt))
}

// SubmitAnswerRequest представляет ответ на текущий вопрос
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// SubmitAnswer записывает ответ на текущий вопрос попытки
// POST /api/quiz/attempts/:id/answers
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attemptID := c.Param("id")
	finished, err := h.quizService.SubmitAnswer(attemptID, req.Answer)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	attempt, err := h.quizService.GetAttempt(attemptID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	resp := dto.NewAttemptResponse(attempt)
	c.JSON(http.StatusOK, gin.H{
		"finished": finished,
		"attempt":  resp,
	})
}

// FinishAttempt подсчитывает и сохраняет результат попытки
// POST /api/quiz/attempts/:id/finish
func (h *QuizHandler) FinishAttempt(c *gin.Context) {
	result, err := h.quizService.FinishAttempt(c.Param("id"))
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResultResponse(result))
}

// GetReview возвращает поэлементный разбор завершенной попытки
// GET /api/quiz/attempts/:id/review
func (h *QuizHandler) GetReview(c *gin.Context) {
	review, err := h.quizService.Review(c.Param("id"))
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewResponse(review))
}

// CloseAttempt завершает или бросает попытку
// DELETE /api/quiz/attempts/:id
func (h *QuizHandler) CloseAttempt(c *gin.Context) {
	if err := h.quizService.CloseAttempt(c.Param("id")); err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetHistory возвращает последние результаты викторин
// GET /api/quiz/history
func (h *QuizHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := h.quizService.History(limit)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResultResponses(results))
}

// GetHistoryDetail возвращает один результат с разбором ответов
// GET /api/quiz/history/:id
func (h *QuizHandler) GetHistoryDetail(c *gin.Context) {
	resultID := c.MustGet("resultID").(uint) // Получаем из контекста

	result, err := h.quizService.HistoryDetail(resultID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": dto.NewResultResponse(result),
		"review": dto.NewReviewResponse(result.QuizDetail),
	})
}

// GetStats возвращает сводную статистику по всем викторинам
// GET /api/quiz/stats
func (h *QuizHandler) GetStats(c *gin.Context) {
	stats, err := h.quizService.OverallStats()
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetStatsByLanguage возвращает статистику в разрезе языков
// GET /api/quiz/stats/languages
func (h *QuizHandler) GetStatsByLanguage(c *gin.Context) {
	stats, err := h.quizService.StatsByLanguage()
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetStatsByDifficulty возвращает статистику в разрезе сложности
// GET /api/quiz/stats/difficulties
func (h *QuizHandler) GetStatsByDifficulty(c *gin.Context) {
	stats, err := h.quizService.StatsByDifficulty()
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// handleQuizError преобразует ошибки сервисов в HTTP-статусы
func (h *QuizHandler) handleQuizError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuizHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
