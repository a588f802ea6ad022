package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trilha-futuro/internal/service"
)

type FeedbackHandler struct {
	logger       *zap.Logger
	feedbackServ *service.FeedbackService
}

func NewFeedbackHandler(logger *zap.Logger, feedbackServ *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{logger: logger, feedbackServ: feedbackServ}
}

// Submit maneja POST /feedback.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	fb, err := h.feedbackServ.Submit(c.Request.Context(), authUserID(c), req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrFeedbackEmpty) || errors.Is(err, service.ErrFeedbackTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("feedback submit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save feedback"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}
