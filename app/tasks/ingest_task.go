package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/headline-comb/app/ingest"
)

type IngestTask struct {
	Task
	ingester Ingester
	Result   ingest.Result
}

func NewIngestTask(ingester Ingester) *IngestTask {
	return &IngestTask{
		Task:     NewTask(TaskTypeIngest, ingester.SourceName()),
		ingester: ingester,
	}
}

func (t *IngestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.ingester.Run(ctx)
	t.Result = result
	if err != nil {
		return fmt.Errorf("failed to ingest source %s: %w", t.SourceName, err)
	}

	slog.Debug("Task completed",
		"type", string(t.Type),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"run_id", result.RunID,
		"new", result.Stored)

	return nil
}
