package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// fileLoaderBackend reads images from a root directory.
type fileLoaderBackend struct {
	root string
}

var _ loaderBackend = &fileLoaderBackend{}

// newFileLoaderBackend creates a backend resolving keys relative to root.
// An empty root resolves keys relative to the working directory.
func newFileLoaderBackend(root string) loaderBackend {
	return &fileLoaderBackend{root: root}
}

func (b *fileLoaderBackend) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path := filepath.Join(b.root, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
