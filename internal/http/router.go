package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trilha-futuro/internal/monitoring"
	"trilha-futuro/internal/service"
)

// RouterDeps agrupa handlers y middlewares compartidos.
type RouterDeps struct {
	Logger   *zap.Logger
	JWT      *service.JWTService
	Metrics  *monitoring.Metrics
	User     *UserHandler
	Quiz     *QuizHandler
	Chat     *ChatHandler
	Feedback *FeedbackHandler
	Stats    *StatsHandler
	Health   *HealthHandler

	AuthLimiter        service.RateLimiter
	ChatLimiter        service.RateLimiter
	GlobalRatePerHour  int
	GlobalRatePerDay   int
	CORSAllowedOrigins []string
	// TrustedProxies son los CIDR/IP cuyos X-Forwarded-For se aceptan. Vacio
	// significa que la IP del cliente es siempre la del socket.
	TrustedProxies []string
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	// Operacion: fuera del limite global.
	r.GET("/metrics", deps.Metrics.Handler())
	r.GET("/healthz", deps.Health.Healthz)

	api := r.Group("")
	api.Use(
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		deps.Metrics.Middleware(),
		corsMiddleware(deps.CORSAllowedOrigins),
		secureHeadersMiddleware(),
		ipRateLimitMiddleware(
			ipRule{max: deps.GlobalRatePerHour, window: time.Hour},
			ipRule{max: deps.GlobalRatePerDay, window: 24 * time.Hour},
		),
		jsonContentTypeMiddleware(),
	)

	requireAuth := JWTAuthMiddleware(deps.JWT)

	api.GET("/", deps.Stats.Home)

	auth := api.Group("/auth")
	auth.POST("/register", scopedRateLimitMiddleware("register", deps.AuthLimiter), deps.User.Register)
	auth.POST("/login", scopedRateLimitMiddleware("login", deps.AuthLimiter), deps.User.Login)
	auth.POST("/refresh", deps.User.RefreshToken)
	auth.POST("/logout", deps.User.Logout)

	api.GET("/dashboard", requireAuth, deps.Stats.Dashboard)
	api.GET("/quiz", requireAuth, deps.Quiz.Questions)
	api.POST("/quiz", requireAuth, deps.Quiz.Submit)
	api.GET("/results/:profile", deps.Quiz.Result)
	api.GET("/trails/:id", deps.Quiz.Trail)
	api.POST("/chat", OptionalJWTAuthMiddleware(deps.JWT), scopedRateLimitMiddleware("chat", deps.ChatLimiter), deps.Chat.Ask)
	api.POST("/feedback", requireAuth, deps.Feedback.Submit)

	stats := api.Group("/api", requireAuth)
	stats.GET("/stats", deps.Stats.UserStats)
	stats.GET("/chart/profile-distribution", deps.Stats.ProfileDistribution)

	return r
}
