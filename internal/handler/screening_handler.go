package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/career-suite/internal/handler/dto"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
	"github.com/yourusername/career-suite/internal/service"
)

// ScreeningHandler обрабатывает запросы скрининговых интервью
type ScreeningHandler struct {
	screeningService *service.ScreeningService
}

// NewScreeningHandler создает новый обработчик скрининга
func NewScreeningHandler(screeningService *service.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{screeningService: screeningService}
}

// StartSession начинает новое интервью
// POST /api/screening/sessions
func (h *ScreeningHandler) StartSession(c *gin.Context) {
	session := h.screeningService.StartSession()

	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"state":      string(session.State),
		"messages":   session.Transcript,
	})
}

// ScreeningMessageRequest представляет ответ кандидата
type ScreeningMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SubmitMessage передает ответ кандидата и возвращает реплики интервьюера
// POST /api/screening/sessions/:id/messages
func (h *ScreeningHandler) SubmitMessage(c *gin.Context) {
	var req ScreeningMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	replies, done, err := h.screeningService.SubmitMessage(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		h.handleScreeningError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"replies": replies,
		"done":    done,
	})
}

// CloseSession бросает незавершенное интервью без сохранения профиля
// DELETE /api/screening/sessions/:id
func (h *ScreeningHandler) CloseSession(c *gin.Context) {
	if err := h.screeningService.CloseSession(c.Param("id")); err != nil {
		h.handleScreeningError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCandidates возвращает все сохраненные профили кандидатов
// GET /api/screening/candidates
func (h *ScreeningHandler) GetCandidates(c *gin.Context) {
	candidates, err := h.screeningService.Candidates()
	if err != nil {
		h.handleScreeningError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCandidateResponses(candidates))
}

// handleScreeningError преобразует ошибки сервисов в HTTP-статусы
func (h *ScreeningHandler) handleScreeningError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ScreeningHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
