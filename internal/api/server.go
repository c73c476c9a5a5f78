package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"sjsage522/productscraper/logger"
)

// NewRouter builds the gin engine with every route registered
func NewRouter(h *Handler, token string) *gin.Engine {
	log := logger.ForAPI()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", h.Health)
	r.POST("/scrape", BearerAuth(token, log), h.Scrape)

	return r
}

// requestLogger logs one line per request
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}
