package store

import (
	"context"
	"time"
)

// QueryOpts configures journal queries with filtering and pagination.
type QueryOpts struct {
	Limit        int       // max results (0 = unlimited)
	Endpoint     string    // exact endpoint match, "" = any
	SubmissionID string    // exact submission match, "" = any
	From         time.Time // timestamp >= From
}

// CallRecord is one backend call as seen on the wire.
type CallRecord struct {
	ID           int
	Timestamp    time.Time
	SubmissionID string
	Endpoint     string
	Method       string
	StatusCode   int // 0 when no response was received
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// CallRepo provides append and query access to the call journal.
type CallRepo interface {
	// Append records a call. Timestamp defaults to now when zero.
	Append(ctx context.Context, rec CallRecord) error

	// Query returns calls newest first.
	Query(ctx context.Context, opts QueryOpts) ([]CallRecord, error)

	// Get returns the call with the given id, or nil if none exists.
	Get(ctx context.Context, id int) (*CallRecord, error)
}
