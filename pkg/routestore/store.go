package routestore

import "context"

// DefaultKey is the key under which the last route is stored.
const DefaultKey = "route"

// Store persists the last resolved route URL.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the URL stored under key.
	// Returns ("", false, nil) if nothing is stored.
	Load(ctx context.Context, key string) (string, bool, error)

	// Save stores url under key, replacing any previous value.
	Save(ctx context.Context, key string, url string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "route store is closed"
}
