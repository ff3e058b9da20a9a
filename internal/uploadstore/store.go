// Package uploadstore keeps track of which local file backs each uploaded document,
// so the file can be removed once the backend deletes the document.
package uploadstore

import (
	"context"
	"fmt"

	"github.com/futig/rag-relay/internal/entity"
)

// ErrNotFound is returned by Get when no file is recorded for the document.
var ErrNotFound = fmt.Errorf("upload %w", entity.ErrNotFound)

// Store maps document IDs to local file paths. Implementations are safe for concurrent use.
type Store interface {
	Put(ctx context.Context, documentID, path string) error
	Get(ctx context.Context, documentID string) (string, error)
	// Remove is a no-op for unknown document IDs.
	Remove(ctx context.Context, documentID string) error
	Ping(ctx context.Context) error
	Close() error
}
