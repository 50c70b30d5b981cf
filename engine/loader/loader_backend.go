package loader

import (
	"context"
	"io"
)

// loaderBackend defines the generic interface for reading raw image bytes by key.
// Concrete implementations (fileLoaderBackend, memoryLoaderBackend) handle where bytes live.
type loaderBackend interface {
	// Open returns a reader over the encoded image stored under key.
	//
	// Parameters:
	//   - ctx: context bounding the open
	//   - key: the asset key
	//
	// Returns:
	//   - io.ReadCloser: the encoded image bytes, closed by the caller
	//   - error: ErrNotFound if the key does not exist
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
