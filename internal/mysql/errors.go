package mysql

import "fmt"

// CollectionError reports a failed metadata query. It is fatal to the run:
// there is no estimate without table statistics.
type CollectionError struct {
	Schema string
	Op     string
	Err    error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collecting statistics for schema %q (%s): %v", e.Schema, e.Op, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// SamplingUnavailable reports that the live-activity instrumentation could
// not be used. It is a soft failure: the engine proceeds on the static
// heuristic path and records a note.
type SamplingUnavailable struct {
	Reason string
	Err    error
}

func (e *SamplingUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workload sampling unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("workload sampling unavailable: %s", e.Reason)
}

func (e *SamplingUnavailable) Unwrap() error { return e.Err }
