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

// PrivacyHandler обрабатывает запросы управления пользовательскими данными
type PrivacyHandler struct {
	privacyService *service.PrivacyService
}

// NewPrivacyHandler создает новый обработчик управления данными
func NewPrivacyHandler(privacyService *service.PrivacyService) *PrivacyHandler {
	return &PrivacyHandler{privacyService: privacyService}
}

// RecordConsentRequest представляет запрос на выдачу или отзыв согласия
type RecordConsentRequest struct {
	ConsentType string `json:"consent_type" binding:"required"`
	Given       *bool  `json:"given" binding:"required"`
}

// RecordConsent записывает выдачу или отзыв согласия
// POST /api/privacy/consents
func (h *PrivacyHandler) RecordConsent(c *gin.Context) {
	var req RecordConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.privacyService.RecordConsent(req.ConsentType, *req.Given); err != nil {
		h.handlePrivacyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"consent_type": req.ConsentType,
		"given":        *req.Given,
	})
}

// GetConsents возвращает текущие статусы всех согласий
// GET /api/privacy/consents
func (h *PrivacyHandler) GetConsents(c *gin.Context) {
	statuses, err := h.privacyService.AllConsents()
	if err != nil {
		h.handlePrivacyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewConsentStatusResponses(statuses))
}

// ExportRequest представляет запрос на экспорт данных
type ExportRequest struct {
	Format string `json:"format" binding:"required"`
}

// ExportData выгружает все данные в файл и возвращает путь к нему
// POST /api/privacy/export
func (h *PrivacyHandler) ExportData(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path, err := h.privacyService.ExportAllData(req.Format)
	if err != nil {
		h.handlePrivacyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": path})
}

// Области удаления данных
const (
	deleteScopeAll        = "all"
	deleteScopeQuiz       = "quiz"
	deleteScopeCandidates = "candidates"
)

// DeleteRequest представляет запрос на удаление данных.
// Без confirm=true удаление не выполняется.
type DeleteRequest struct {
	Scope   string `json:"scope" binding:"required"`
	Confirm bool   `json:"confirm"`
}

// DeleteData удаляет данные в указанной области
// POST /api/privacy/delete
func (h *PrivacyHandler) DeleteData(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deleted bool
	var err error
	switch req.Scope {
	case deleteScopeAll:
		deleted, err = h.privacyService.DeleteAllData(req.Confirm)
	case deleteScopeQuiz:
		deleted, err = h.privacyService.DeleteQuizData(req.Confirm)
	case deleteScopeCandidates:
		deleted, err = h.privacyService.DeleteCandidateData(req.Confirm)
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown delete scope: " + req.Scope})
		return
	}
	if err != nil {
		h.handlePrivacyError(c, err)
		return
	}

	if !deleted {
		c.JSON(http.StatusOK, gin.H{
			"deleted": false,
			"message": "Deletion not confirmed. Set confirm=true to delete data.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AnonymizeRequest представляет запрос на анонимизацию старых записей.
// Указатель отличает days_old=0 (срез по текущему моменту) от
// отсутствующего поля.
type AnonymizeRequest struct {
	DaysOld *int `json:"days_old" binding:"required"`
}

// AnonymizeData анонимизирует записи старше указанного возраста
// POST /api/privacy/anonymize
func (h *PrivacyHandler) AnonymizeData(c *gin.Context) {
	var req AnonymizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.privacyService.AnonymizeOldData(*req.DaysOld)
	if err != nil {
		h.handlePrivacyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"anonymized": count})
}

// GetSummary возвращает сводку хранимых данных
// GET /api/privacy/summary
func (h *PrivacyHandler) GetSummary(c *gin.Context) {
	summary, err := h.privacyService.DataSummary()
	if err != nil {
		h.handlePrivacyError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAccessLog возвращает последние записи журнала доступа
// GET /api/privacy/access-log
func (h *PrivacyHandler) GetAccessLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.privacyService.AccessLog(limit)
	if err != nil {
		h.handlePrivacyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccessLogResponses(entries))
}

// handlePrivacyError преобразует ошибки сервисов в HTTP-статусы
func (h *PrivacyHandler) handlePrivacyError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrExport) {
		log.Printf("ERROR: Export failed in PrivacyHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
	} else {
		log.Printf("ERROR: Internal server error in PrivacyHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
