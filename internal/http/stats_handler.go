package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trilha-futuro/internal/service"
)

// StatsHandler sirve el landing, el panel del usuario y la API de graficos.
type StatsHandler struct {
	logger    *zap.Logger
	statsServ *service.StatsService
	userServ  *service.UserService
}

func NewStatsHandler(logger *zap.Logger, statsServ *service.StatsService, userServ *service.UserService) *StatsHandler {
	return &StatsHandler{logger: logger, statsServ: statsServ, userServ: userServ}
}

// Home maneja GET /.
func (h *StatsHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, h.statsServ.Overview(c.Request.Context()))
}

// Dashboard maneja GET /dashboard.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	user, err := h.userServ.GetByID(c.Request.Context(), authUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("dashboard user lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard"})
		return
	}

	dash, err := h.statsServ.Dashboard(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("dashboard failed", zap.Error(err), zap.String("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard"})
		return
	}
	c.JSON(http.StatusOK, dash)
}

// UserStats maneja GET /api/stats.
func (h *StatsHandler) UserStats(c *gin.Context) {
	stats, err := h.statsServ.UserStats(c.Request.Context(), authUserID(c))
	if err != nil {
		h.logger.Error("user stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ProfileDistribution maneja GET /api/chart/profile-distribution.
func (h *StatsHandler) ProfileDistribution(c *gin.Context) {
	chart, err := h.statsServ.ProfileDistribution(c.Request.Context())
	if err != nil {
		h.logger.Error("profile distribution failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load chart"})
		return
	}
	c.JSON(http.StatusOK, chart)
}
