package media

import "context"

// RecordStore persists MediaAsset metadata through the database collaborator.
// Persistence is append-only from this subsystem's perspective.
type RecordStore interface {
	// FindByHash is the single indexed-equality lookup that drives
	// deduplication. A miss returns (nil, nil).
	FindByHash(ctx context.Context, collection, hash string) (*MediaAsset, error)
	// Persist inserts one new record and returns its generated identifier.
	Persist(ctx context.Context, collection string, asset *MediaAsset) (string, error)
	// Exists reports whether a record with the given hash is already stored.
	Exists(ctx context.Context, collection, hash string) (bool, error)
}
