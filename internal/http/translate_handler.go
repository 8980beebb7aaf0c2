package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fastFriends/gestura/internal/domain"
	"github.com/fastFriends/gestura/internal/service"
)

// TranslateHandler mantiene dependencias para endpoints de traducción.
type TranslateHandler struct {
	logger       *zap.Logger
	translateSvc *service.TranslateService
}

// NewTranslateHandler crea una instancia de TranslateHandler.
func NewTranslateHandler(logger *zap.Logger, translateSvc *service.TranslateService) *TranslateHandler {
	return &TranslateHandler{
		logger:       logger,
		translateSvc: translateSvc,
	}
}

// Translate maneja POST /api/translate.
func (h *TranslateHandler) Translate(c *gin.Context) {
	var req domain.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid translate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request"})
		return
	}
	if req.SourceLanguage == "" {
		req.SourceLanguage = "en"
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = "es"
	}

	resp, err := h.translateSvc.Translate(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("translate failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not translate"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Status maneja GET /api/translate/status.
func (h *TranslateHandler) Status(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":              "operational",
		"message":             "Translation service is running (placeholder mode)",
		"supported_languages": service.SupportedLanguages,
		"user":                user.Username,
	})
}
