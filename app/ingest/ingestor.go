package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/headline-comb/app/database"
	"github.com/lysyi3m/headline-comb/app/metrics"
	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/lysyi3m/headline-comb/app/source"
)

const DefaultInsertWorkers = 4

// Extractor fetches a page and returns its readable text.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

type Options struct {
	Source         source.Source
	Store          database.ArticleStore
	Key            news.KeyFunc
	Extractor      Extractor
	ExtractContent bool
	Filters        []source.Filter
	InsertWorkers  int
	Interval       time.Duration
	Metrics        *metrics.Metrics
	Now            func() time.Time
}

type Ingestor struct {
	source         source.Source
	store          database.ArticleStore
	normalizer     *news.Normalizer
	filterer       *source.Filterer
	extractor      Extractor
	extractContent bool
	insertWorkers  int
	interval       time.Duration
	metrics        *metrics.Metrics
	now            func() time.Time
}

func New(opts Options) *Ingestor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.InsertWorkers <= 0 {
		opts.InsertWorkers = DefaultInsertWorkers
	}

	return &Ingestor{
		source:         opts.Source,
		store:          opts.Store,
		normalizer:     news.NewNormalizer(opts.Key, opts.Now),
		filterer:       source.NewFilterer(opts.Filters),
		extractor:      opts.Extractor,
		extractContent: opts.ExtractContent && opts.Extractor != nil,
		insertWorkers:  opts.InsertWorkers,
		interval:       opts.Interval,
		metrics:        opts.Metrics,
		now:            opts.Now,
	}
}

func (i *Ingestor) SourceName() string {
	return i.source.Name()
}

// Interval is the refresh interval of the source definition.
func (i *Ingestor) Interval() time.Duration {
	return i.interval
}

// Run fetches one batch from the source and stores every new article.
// A source failure aborts the run before anything is written. Per-article
// store failures are logged and counted, and the batch continues.
func (i *Ingestor) Run(ctx context.Context) (Result, error) {
	started := i.now()
	result := Result{
		RunID:  uuid.NewString(),
		Source: i.source.Name(),
		Skips:  make(map[news.SkipReason]int),
	}

	raw, err := i.source.Fetch(ctx)
	if err != nil {
		result.Duration = i.now().Sub(started)
		i.metrics.IncIngestRun(result.Source, metrics.StatusError)
		slog.Error("Ingest failed", "run_id", result.RunID, "source", result.Source, "error", err)
		return result, err
	}
	result.Fetched = len(raw)

	batch := make([]news.Article, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		article, reason := i.normalizer.Run(r)
		if reason != news.SkipNone {
			result.Discarded++
			result.Skips[reason]++
			slog.Debug("Article discarded", "source", result.Source, "reason", string(reason), "title", r.Title)
			continue
		}

		if filtered, why := i.filterer.Run(article); filtered {
			result.Discarded++
			result.Skips[news.SkipFiltered]++
			slog.Debug("Article filtered", "source", result.Source, "reason", why, "title", r.Title)
			continue
		}

		if _, ok := seen[article.ID]; ok {
			result.Duplicates++
			continue
		}
		seen[article.ID] = struct{}{}
		batch = append(batch, article)
	}

	stored, duplicates, failed := i.insert(ctx, batch)
	result.Stored = stored
	result.Duplicates += duplicates
	result.Failed = failed
	result.Duration = i.now().Sub(started)

	i.metrics.AddIngestArticles(result.Source, metrics.OutcomeStored, result.Stored)
	i.metrics.AddIngestArticles(result.Source, metrics.OutcomeDuplicate, result.Duplicates)
	i.metrics.AddIngestArticles(result.Source, metrics.OutcomeDiscarded, result.Discarded)
	i.metrics.AddIngestArticles(result.Source, metrics.OutcomeFailed, result.Failed)
	i.metrics.IncIngestRun(result.Source, metrics.StatusSuccess)

	slog.Info("Ingest completed",
		"run_id", result.RunID,
		"source", result.Source,
		"duration", result.Duration,
		"fetched", result.Fetched,
		"discarded", result.Discarded,
		"duplicates", result.Duplicates,
		"failed", result.Failed,
		"new", result.Stored)

	return result, nil
}

func (i *Ingestor) insert(ctx context.Context, batch []news.Article) (stored, duplicates, failed int) {
	if len(batch) == 0 {
		return 0, 0, 0
	}

	workers := min(i.insertWorkers, len(batch))
	queue := make(chan news.Article)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for article := range queue {
				if i.needsContent(article) && i.alreadyStored(ctx, article) {
					mu.Lock()
					duplicates++
					mu.Unlock()
					continue
				}

				err := i.store.Insert(ctx, i.enrich(ctx, article))

				mu.Lock()
				switch {
				case err == nil:
					stored++
				case errors.Is(err, database.ErrDuplicate):
					duplicates++
				default:
					failed++
					slog.Error("Failed to store article", "source", article.Source, "id", article.ID, "error", err)
				}
				mu.Unlock()
			}
		}()
	}

	for _, article := range batch {
		queue <- article
	}
	close(queue)
	wg.Wait()

	return stored, duplicates, failed
}

func (i *Ingestor) needsContent(article news.Article) bool {
	return i.extractContent && article.Content == "" && article.URL != ""
}

// alreadyStored lets known ids skip the page fetch. A failed lookup falls
// through to the conditional insert.
func (i *Ingestor) alreadyStored(ctx context.Context, article news.Article) bool {
	exists, err := i.store.Exists(ctx, article.ID)
	if err != nil {
		slog.Warn("Failed to check existing article", "id", article.ID, "error", err)
		return false
	}
	return exists
}

// enrich fills an empty content field from the article page when enabled.
func (i *Ingestor) enrich(ctx context.Context, article news.Article) news.Article {
	if !i.needsContent(article) {
		return article
	}

	content, err := i.extractor.Extract(ctx, article.URL)
	if err != nil {
		slog.Warn("Failed to extract content", "url", article.URL, "error", err)
		return article
	}

	article.Content = content
	return article
}
