package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// memoryLoaderBackend serves images from an in-memory map. It is used for
// embedded assets and tests.
type memoryLoaderBackend struct {
	assets map[string][]byte
}

var _ loaderBackend = &memoryLoaderBackend{}

func newMemoryLoaderBackend(assets map[string][]byte) loaderBackend {
	return &memoryLoaderBackend{assets: assets}
}

func (b *memoryLoaderBackend) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := b.assets[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
