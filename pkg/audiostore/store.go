package audiostore

import (
	"context"

	"github.com/google/uuid"
)

// Store is the durable audio collaborator. Bytes stored for a session are
// retrievable by the returned URI until DeleteAll runs for that session.
type Store interface {
	// Store persists raw audio and returns an opaque URI for later retrieval.
	Store(ctx context.Context, sessionID uuid.UUID, data []byte, format string, metadata map[string]string) (string, error)

	// Retrieve returns the exact bytes previously stored under uri.
	Retrieve(ctx context.Context, uri string) ([]byte, error)

	// List returns the URIs of every object stored for a session, oldest first.
	List(ctx context.Context, sessionID uuid.UUID) ([]string, error)

	// DeleteAll removes every object belonging to a session.
	DeleteAll(ctx context.Context, sessionID uuid.UUID) error
}
