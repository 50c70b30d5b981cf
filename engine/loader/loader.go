package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoaderBackendType identifies where image bytes are read from.
type LoaderBackendType int

const (
	// BackendTypeFile reads images from a directory on disk.
	BackendTypeFile LoaderBackendType = iota
	// BackendTypeMemory serves images from byte slices registered with WithAsset.
	BackendTypeMemory
)

var (
	// ErrNotFound is returned when the backend has no asset for a key.
	ErrNotFound = errors.New("loader: asset not found")
	// ErrUnsupportedFormat is returned for keys whose extension is not a known image format.
	ErrUnsupportedFormat = errors.New("loader: unsupported image format")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	textures map[string]*Texture
	failures map[string]error

	group singleflight.Group

	backend loaderBackend
	root    string
	assets  map[string][]byte
}

// Loader is the image cache. It decodes images by key, memoizes every outcome
// (success or failure) and collapses concurrent requests for the same key into
// one fetch.
type Loader interface {
	// Load returns the decoded texture for key, fetching and decoding it on first use.
	// Repeated calls for the same key return the memoized result without refetching.
	// A failed load is memoized as well, so a broken asset is only attempted once.
	// Cancelling ctx abandons only this caller's wait: a fetch shared with
	// concurrent callers still completes and is memoized.
	//
	// Parameters:
	//   - ctx: context bounding this caller's wait
	//   - key: opaque asset key, relative to the backend root
	//
	// Returns:
	//   - *Texture: the decoded texture
	//   - error: ErrNotFound, ErrUnsupportedFormat, a decode error, or ctx.Err()
	Load(ctx context.Context, key string) (*Texture, error)

	// Get retrieves a cached texture by key. Returns nil if it is not loaded.
	//
	// Parameters:
	//   - key: the cache key to look up
	//
	// Returns:
	//   - *Texture: the cached texture or nil
	Get(key string) *Texture

	// Failed reports whether key is memoized as a failed load.
	//
	// Parameters:
	//   - key: the cache key to look up
	//
	// Returns:
	//   - bool: true if a previous load of key failed
	Failed(key string) bool

	// Textures returns a copy of the texture cache.
	//
	// Returns:
	//   - map[string]*Texture: all cached textures keyed by asset key
	Textures() map[string]*Texture

	// Len returns the number of successfully cached textures.
	Len() int
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given backend type and options applied.
//
// Parameters:
//   - backendType: where image bytes come from (BackendTypeFile or BackendTypeMemory)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new, empty image cache
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:       sync.RWMutex{},
		textures: make(map[string]*Texture),
		failures: make(map[string]error),
		assets:   make(map[string][]byte),
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeFile:
		l.backend = newFileLoaderBackend(l.root)
	case BackendTypeMemory:
		l.backend = newMemoryLoaderBackend(l.assets)
	default:
		panic(fmt.Sprintf("loader: unknown backend type %d", backendType))
	}

	return l
}

func (l *loader) Load(ctx context.Context, key string) (*Texture, error) {
	if tex, found, err := l.lookup(key); found {
		return tex, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The shared fetch outlives any one caller's context; each caller waits on its own.
	ch := l.group.DoChan(key, func() (any, error) {
		// Another caller may have finished between lookup and DoChan.
		if tex, found, err := l.lookup(key); found {
			return tex, err
		}

		tex, err := l.fetch(context.WithoutCancel(ctx), key)

		l.mu.Lock()
		if err != nil {
			l.failures[key] = err
		} else {
			l.textures[key] = tex
		}
		l.mu.Unlock()

		return tex, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Texture), nil
	}
}

func (l *loader) Get(key string) *Texture {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.textures[key]
}

func (l *loader) Failed(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.failures[key]
	return ok
}

func (l *loader) Textures() map[string]*Texture {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Texture, len(l.textures))
	for k, v := range l.textures {
		result[k] = v
	}
	return result
}

func (l *loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.textures)
}

// lookup returns the memoized outcome for key, if any.
func (l *loader) lookup(key string) (*Texture, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if tex, ok := l.textures[key]; ok {
		return tex, true, nil
	}
	if err, ok := l.failures[key]; ok {
		return nil, true, err
	}
	return nil, false, nil
}

// fetch opens key on the backend and decodes it.
func (l *loader) fetch(ctx context.Context, key string) (*Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := formatOf(key)
	if err != nil {
		return nil, err
	}

	rc, err := l.backend.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	staging, err := decodeImage(format, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return &Texture{Key: key, TextureStagingData: staging}, nil
}
