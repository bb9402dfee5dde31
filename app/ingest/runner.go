package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/headline-comb/app/database"
	"github.com/lysyi3m/headline-comb/app/metrics"
	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/lysyi3m/headline-comb/app/source"
)

// Runner runs one ingest per enabled source definition.
type Runner struct {
	ingestors []*Ingestor
}

type RunnerOptions struct {
	Configs       []*source.Config
	Client        source.ClientOptions
	Store         database.ArticleStore
	Key           news.KeyFunc
	Extractor     Extractor
	InsertWorkers int
	Metrics       *metrics.Metrics
	Now           func() time.Time
}

func NewRunner(opts RunnerOptions) (*Runner, error) {
	ingestors := make([]*Ingestor, 0, len(opts.Configs))
	for _, cfg := range opts.Configs {
		if !cfg.Settings.Enabled {
			continue
		}

		src, err := source.New(cfg, opts.Client)
		if err != nil {
			return nil, fmt.Errorf("failed to create source %s: %w", cfg.Name, err)
		}

		ingestors = append(ingestors, New(Options{
			Source:         src,
			Store:          opts.Store,
			Key:            opts.Key,
			Extractor:      opts.Extractor,
			ExtractContent: cfg.Settings.ExtractContent,
			Filters:        cfg.Filters,
			InsertWorkers:  opts.InsertWorkers,
			Interval:       cfg.Settings.RefreshDuration(),
			Metrics:        opts.Metrics,
			Now:            opts.Now,
		}))
	}

	return NewRunnerFromIngestors(ingestors...), nil
}

func NewRunnerFromIngestors(ingestors ...*Ingestor) *Runner {
	return &Runner{ingestors: ingestors}
}

func (r *Runner) Ingestors() []*Ingestor {
	return r.ingestors
}

// RunAll runs every source in order and sums their counters. A failing
// source does not stop the others; the joined error is returned at the end.
func (r *Runner) RunAll(ctx context.Context) (Result, error) {
	total := Result{RunID: uuid.NewString()}
	if len(r.ingestors) == 0 {
		return total, fmt.Errorf("no enabled sources configured")
	}

	var errs []error
	for _, ing := range r.ingestors {
		result, err := ing.Run(ctx)
		total.Merge(result)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(r.ingestors) == 1 {
		total.Source = r.ingestors[0].SourceName()
	}

	return total, errors.Join(errs...)
}
