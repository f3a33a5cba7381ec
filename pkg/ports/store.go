package ports

import (
	"context"
)

// SnapshotStore defines the interface for persisting cart snapshots.
// A snapshot is the serialized cart (a JSON array of line items); stores keep
// the bytes verbatim and never interpret them.
type SnapshotStore interface {
	// Save persists the snapshot for a given session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, snapshot []byte) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) ([]byte, error)

	// Delete removes the snapshot for a given session ID.
	// Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
