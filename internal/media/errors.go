package media

import "errors"

var (
	// ErrAdapterNotInitialized is returned when the database collaborator
	// was never wired up. Surfaced before any disk write happens.
	ErrAdapterNotInitialized = errors.New("database adapter not initialized")

	// ErrUnsupportedKind is returned for an ingestion kind with no handler.
	ErrUnsupportedKind = errors.New("unsupported media kind")
)
