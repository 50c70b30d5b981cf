// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"image"
	"image/draw"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload or rasterization.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// NewTextureStagingData converts a decoded image into tightly packed RGBA staging data.
// Reference: https://pkg.go.dev/image/draw
//
// Parameters:
//   - img: any decoded image
//
// Returns:
//   - TextureStagingData: RGBA pixels with the image's dimensions
func NewTextureStagingData(img image.Image) TextureStagingData {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// MeanColor returns the alpha-weighted average color of the staged pixels.
// Fully transparent or empty textures report white.
//
// Returns:
//   - r, g, b: average channel values in [0, 255]
func (t TextureStagingData) MeanColor() (r, g, b uint8) {
	var sr, sg, sb, sa uint64
	for i := 0; i+3 < len(t.Pixels); i += 4 {
		a := uint64(t.Pixels[i+3])
		sr += uint64(t.Pixels[i]) * a
		sg += uint64(t.Pixels[i+1]) * a
		sb += uint64(t.Pixels[i+2]) * a
		sa += a
	}
	if sa == 0 {
		return 255, 255, 255
	}
	return uint8(sr / sa), uint8(sg / sa), uint8(sb / sa)
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}
