package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/watchlens/scraper/internal/domain"
	"github.com/watchlens/scraper/internal/usecase"
)

// maxLotsPerRequest caps how many lots one HTTP request may ask for
const maxLotsPerRequest = 200

// ScrapeRunner runs one collection and valuation pass
type ScrapeRunner interface {
	Run(ctx context.Context, query domain.Query) (*usecase.Result, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	runner  ScrapeRunner
	version string
}

// NewHandler creates a new HTTP handler. runner may be nil, in which case
// scrape requests answer 503.
func NewHandler(runner ScrapeRunner, version string) *Handler {
	return &Handler{runner: runner, version: version}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "watchlens",
		"version": h.version,
	})
}

// CreateScrape runs one pass with the posted query and returns the rows
func (h *Handler) CreateScrape(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scraper not configured"})
		return
	}

	var query domain.Query
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}
	if query.MaxLots < 0 || query.MaxLots > maxLotsPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{"error": "maxLots must be between 0 (use default) and 200"})
		return
	}

	result, err := h.runner.Run(c.Request.Context(), query)
	if err != nil && result == nil {
		status := statusForError(err)
		log.Printf("[HTTP] Scrape failed (%d): %v", status, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("[HTTP] Scrape finished with warnings: %v", err)
	}

	c.JSON(http.StatusOK, result)
}

// statusForError maps pipeline errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoLots):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBuildIDNotFound),
		errors.Is(err, domain.ErrMarketplaceFailure),
		errors.Is(err, domain.ErrUnexpectedShape):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
