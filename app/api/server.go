package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/headline-comb/app/metrics"
)

const (
	queryMethods  = "GET, OPTIONS"
	ingestMethods = "GET, POST, OPTIONS"
)

// NewQueryServer serves the read-only news API.
func NewQueryServer(handler *Handler, m *metrics.Metrics) *gin.Engine {
	r := newEngine(queryMethods, handler)

	r.GET("/news", handler.GetNews)
	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}

// NewIngestServer exposes the ingest trigger next to health and metrics.
func NewIngestServer(handler *Handler, m *metrics.Metrics) *gin.Engine {
	r := newEngine(ingestMethods, handler)

	r.POST("/ingest", handler.PostIngest)
	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}

func newEngine(methods string, handler *Handler) *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.CustomRecovery(recoverPanic))
	r.Use(corsMiddleware(methods))

	r.NoRoute(handler.NotFound)

	return r
}

// corsMiddleware answers preflight requests itself with an empty 200.
func corsMiddleware(methods string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Content-Type", "application/json")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
