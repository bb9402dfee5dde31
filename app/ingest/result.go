package ingest

import (
	"fmt"
	"time"

	"github.com/lysyi3m/headline-comb/app/news"
)

// Result holds the counters of one ingest run.
type Result struct {
	RunID      string                  `json:"runId"`
	Source     string                  `json:"source"`
	Fetched    int                     `json:"fetched"`
	Discarded  int                     `json:"discarded"`
	Duplicates int                     `json:"duplicates"`
	Stored     int                     `json:"stored"`
	Failed     int                     `json:"failed"`
	Skips      map[news.SkipReason]int `json:"skips,omitempty"`
	Duration   time.Duration           `json:"duration"`
}

func (r Result) Message() string {
	return fmt.Sprintf("Successfully processed %d articles", r.Stored)
}

// Merge adds the counters of other into r. Identity fields are left alone.
func (r *Result) Merge(other Result) {
	r.Fetched += other.Fetched
	r.Discarded += other.Discarded
	r.Duplicates += other.Duplicates
	r.Stored += other.Stored
	r.Failed += other.Failed
	r.Duration += other.Duration

	for reason, n := range other.Skips {
		if r.Skips == nil {
			r.Skips = make(map[news.SkipReason]int)
		}
		r.Skips[reason] += n
	}
}
