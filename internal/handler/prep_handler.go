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

// PrepHandler обрабатывает запросы тренировочных интервью
type PrepHandler struct {
	prepService *service.PrepService
}

// NewPrepHandler создает новый обработчик тренировки
func NewPrepHandler(prepService *service.PrepService) *PrepHandler {
	return &PrepHandler{prepService: prepService}
}

// PrepQuestionRequest представляет запрос тренировочного вопроса
type PrepQuestionRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
}

// GetQuestion выдает один тренировочный вопрос по теме
// POST /api/prep/questions
func (h *PrepHandler) GetQuestion(c *gin.Context) {
	var req PrepQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.prepService.NextQuestion(c.Request.Context(), req.Topic, req.Difficulty)
	if err != nil {
		h.handlePrepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": question})
}

// PrepAnswerRequest представляет ответ кандидата на тренировочный вопрос
type PrepAnswerRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// SubmitAnswer оценивает ответ и сохраняет попытку в историю
// POST /api/prep/answers
func (h *PrepHandler) SubmitAnswer(c *gin.Context) {
	var req PrepAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.prepService.SubmitAnswer(c.Request.Context(), req.Topic, req.Question, req.Answer)
	if err != nil {
		h.handlePrepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempt_id":    result.AttemptID,
		"score":         result.Review.Score,
		"feedback":      result.Review.Feedback,
		"sample_answer": result.Review.SampleAnswer,
		"degraded":      result.Degraded,
	})
}

// GetHistory возвращает последние тренировочные попытки
// GET /api/prep/history
func (h *PrepHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	attempts, err := h.prepService.History(limit)
	if err != nil {
		h.handlePrepError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPrepAttemptResponses(attempts))
}

// handlePrepError преобразует ошибки сервисов в HTTP-статусы
func (h *PrepHandler) handlePrepError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in PrepHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
