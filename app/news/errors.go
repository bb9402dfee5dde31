package news

import (
	"cmp"
	"fmt"
)

// SourceError reports an upstream that was unreachable, returned a malformed
// payload or a non-ok status. It is fatal to the ingest run.
type SourceError struct {
	Source  string
	Status  string
	Code    string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("source %s: news API error: %s - %s", e.Source, e.Status, cmp.Or(e.Message, "Unknown error"))
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// QueryError reports a failed store read while serving a query.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
