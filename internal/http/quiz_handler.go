package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trilha-futuro/internal/domain"
	"trilha-futuro/internal/service"
)

// QuizHandler expone el test vocacional, los resultados y las trilhas.
type QuizHandler struct {
	logger   *zap.Logger
	quizServ *service.QuizService
}

func NewQuizHandler(logger *zap.Logger, quizServ *service.QuizService) *QuizHandler {
	return &QuizHandler{logger: logger, quizServ: quizServ}
}

// Questions maneja GET /quiz.
func (h *QuizHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"questions":   h.quizServ.Questions(),
		"min_answers": service.MinQuizAnswers,
	})
}

// Submit maneja POST /quiz. El body es {"answers": {"q1": "criativo", ...}}.
func (h *QuizHandler) Submit(c *gin.Context) {
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid quiz request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	outcome, err := h.quizServ.Submit(c.Request.Context(), authUserID(c), req.Answers)
	if err != nil {
		if errors.Is(err, service.ErrQuizTooFewAnswers) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("quiz submit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save quiz result"})
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

// Result maneja GET /results/:profile. Perfiles desconocidos caen en humanas.
func (h *QuizHandler) Result(c *gin.Context) {
	rec := service.RecommendationOrDefault(domain.ProfileKey(c.Param("profile")))
	c.JSON(http.StatusOK, gin.H{"recommendation": rec})
}

// Trail maneja GET /trails/:id.
func (h *QuizHandler) Trail(c *gin.Context) {
	trail, profile, ok := service.FindTrail(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "trail not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trail": trail, "profile": profile})
}
