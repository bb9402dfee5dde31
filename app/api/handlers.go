package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/lysyi3m/headline-comb/app/query"
)

const (
	errNotFound    = "Not Found"
	errInternal    = "Internal Server Error"
	errFetchFailed = "Failed to fetch news"
	healthOK       = "ok"
	healthDegraded = "unavailable"
)

type Handler struct {
	query  QueryService
	ingest IngestRunner
	now    func() time.Time
}

// NewHandler wires the handlers. runner may be nil for the read-only server.
func NewHandler(queryService QueryService, runner IngestRunner, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		query:  queryService,
		ingest: runner,
		now:    now,
	}
}

func (h *Handler) GetNews(c *gin.Context) {
	params := query.Params{
		Source: c.Query("source"),
		Limit:  query.ParseLimit(c.Query("limit")),
	}

	page, err := h.query.Query(c.Request.Context(), params)
	if err != nil {
		slog.Error("Query failed", "source", params.Source, "limit", params.Limit, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errInternal, Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := HealthResponse{
		Status:    healthOK,
		Timestamp: news.FormatTimestamp(h.now()),
	}

	count, err := h.query.Count(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "count_articles", "error", err)
		health.Status = healthDegraded
		health.Details = err.Error()
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health.Articles = count

	c.JSON(http.StatusOK, health)
}

func (h *Handler) PostIngest(c *gin.Context) {
	if h.ingest == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: errNotFound})
		return
	}

	result, err := h.ingest.RunAll(c.Request.Context())
	if err != nil {
		slog.Error("Ingest request failed", "stored", result.Stored, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errFetchFailed, Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: result.Message()})
}

func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: errNotFound})
}

func recoverPanic(c *gin.Context, recovered any) {
	slog.Error("Recovered from panic", "method", c.Request.Method, "path", c.Request.URL.Path, "panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   errInternal,
		Details: fmt.Sprint(recovered),
	})
}
