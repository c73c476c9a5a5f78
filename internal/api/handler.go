package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"sjsage522/productscraper/internal/models"
	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
)

// Runner runs one scrape
type Runner interface {
	Run(ctx context.Context, totalPages int) (models.ScrapeResult, error)
}

// Handler serves the scrape endpoints
type Handler struct {
	runner Runner
	app    string
	log    *logger.Logger
}

// NewHandler creates a handler that delegates scrapes to runner
func NewHandler(runner Runner, app string) *Handler {
	return &Handler{runner: runner, app: app, log: logger.ForAPI()}
}

// Scrape handles POST /scrape
func (h *Handler) Scrape(c *gin.Context) {
	var req models.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid payload: " + err.Error()})
		return
	}
	if req.TotalPages < 1 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "total_pages must be a positive integer"})
		return
	}

	h.log.Info().Int("total_pages", req.TotalPages).Msg("Scrape requested")

	// A started scrape runs to completion even if the client goes away
	result, err := h.runner.Run(context.WithoutCancel(c.Request.Context()), req.TotalPages)
	if err != nil {
		if scerrors.IsType(err, scerrors.ErrorTypeValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Scrape failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "app": h.app})
}
