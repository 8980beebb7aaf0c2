package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fastFriends/gestura/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	frontendURL string,
	authH *AuthHandler,
	translateH *TranslateHandler,
	jwtSvc *service.JWTService,
	userSvc *service.UserService,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y CORS para el frontend.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Gestura API",
			"version": "1.0.0",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	requireAuth := JWTAuthMiddleware(jwtSvc, userSvc)

	auth := r.Group("/api/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", requireAuth, authH.Logout)
	auth.GET("/me", requireAuth, authH.Me)

	api := r.Group("/api", requireAuth)
	api.POST("/translate", translateH.Translate)
	api.GET("/translate/status", translateH.Status)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
