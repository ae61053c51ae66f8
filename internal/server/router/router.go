package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/revente/internal/auth"
	"github.com/mamadbah2/revente/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Articles *handlers.ArticleHandler
	Accounts *handlers.AccountHandler
	Stats    *handlers.StatsHandler
}

// New wires the Gin engine with required routes and middlewares.
// Everything but /healthz sits behind the allow-list.
func New(h Handlers, allow *auth.AllowList, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/", allow.Middleware(logger.Named("auth")))
	api.POST("/articles", h.Articles.Create)
	api.GET("/articles", h.Articles.List)
	api.GET("/articles/:id", h.Articles.Get)
	api.POST("/articles/:id/simulate", h.Articles.Simulate)
	api.POST("/articles/:id/sale", h.Articles.Sell)
	api.GET("/accounts", h.Accounts.List)
	api.GET("/stats", h.Stats.Get)
	api.GET("/stats/history", h.Stats.History)

	logger.Info("router initialized")
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if identity := c.GetString(auth.IdentityKey); identity != "" {
			fields = append(fields, zap.String("user", identity))
		}
		logger.Info("request completed", fields...)
	}
}
