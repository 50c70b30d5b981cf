package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRoot sets the directory the file backend resolves keys against.
//
// Parameters:
//   - dir: the image directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root option to a loader
func WithRoot(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.root = dir
	}
}

// WithAsset registers encoded image bytes under key for the memory backend.
//
// Parameters:
//   - key: the asset key, its extension selects the decoder
//   - data: the encoded image
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(key string, data []byte) LoaderBuilderOption {
	return func(l *loader) {
		l.assets[key] = data
	}
}

// WithTexture is an option builder that pre-populates the cache with a decoded texture.
//
// Parameters:
//   - tex: the texture to cache under tex.Key
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture option to a loader
func WithTexture(tex *Texture) LoaderBuilderOption {
	return func(l *loader) {
		l.textures[tex.Key] = tex
	}
}
