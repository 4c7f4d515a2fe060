// Package storage defines the storage interface for the access log.
package storage

import (
	"context"
	"time"

	"github.com/wcrbrm/serve-delayed/pkg/types"
)

// Recorder receives one record per served request.
type Recorder interface {
	RecordRequest(ctx context.Context, rec *types.RequestRecord) error
}

// Storage defines the interface for persisting request records.
type Storage interface {
	Recorder

	// Initialize the storage (run migrations, etc.)
	Init(ctx context.Context) error

	// Close the storage connection
	Close() error

	// ListRequests returns the newest records first, at most limit of them
	// (all when limit <= 0).
	ListRequests(ctx context.Context, limit int) ([]*types.RequestRecord, error)

	// PruneRequests deletes records created before the cutoff and returns
	// how many were removed.
	PruneRequests(ctx context.Context, before time.Time) (int64, error)
}
