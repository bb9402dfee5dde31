package tasks

import (
	"context"

	"github.com/lysyi3m/headline-comb/app/ingest"
)

// TaskSchedulerInterface is what the entry point needs to drive background ingestion.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Ingester runs one ingest for a single source.
type Ingester interface {
	SourceName() string
	Run(ctx context.Context) (ingest.Result, error)
}

var _ Ingester = (*ingest.Ingestor)(nil)
