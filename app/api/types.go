package api

import (
	"context"

	"github.com/lysyi3m/headline-comb/app/ingest"
	"github.com/lysyi3m/headline-comb/app/query"
)

type QueryService interface {
	Query(ctx context.Context, params query.Params) (query.Page, error)
	Count(ctx context.Context) (int, error)
}

type IngestRunner interface {
	RunAll(ctx context.Context) (ingest.Result, error)
}

var (
	_ QueryService = (*query.Service)(nil)
	_ IngestRunner = (*ingest.Runner)(nil)
)

type HealthResponse struct {
	Status    string `json:"status"`
	Articles  int    `json:"articles"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
