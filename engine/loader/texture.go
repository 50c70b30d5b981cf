package loader

import "github.com/Aman-3O/Esha-Suprise/common"

// DefaultAspect is the width/height ratio used when a texture's size is unknown (100x100).
const DefaultAspect = 1.0

// Texture is a decoded image held by the cache.
type Texture struct {
	// Key is the asset key the texture was loaded under.
	Key string

	common.TextureStagingData
}

// Aspect returns the width/height ratio of the image, or DefaultAspect when the
// texture is nil or has no height.
func (t *Texture) Aspect() float64 {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return DefaultAspect
	}
	return float64(t.Width) / float64(t.Height)
}
