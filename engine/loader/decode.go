package loader

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/Aman-3O/Esha-Suprise/common"

	"golang.org/x/image/webp"
)

// imageFormat is the encoding of an asset, derived from its extension.
type imageFormat int

const (
	formatPNG imageFormat = iota
	formatJPEG
	formatWebP
)

// supportedExtensions maps lower-case file extensions to their image format.
var supportedExtensions = map[string]imageFormat{
	".png":  formatPNG,
	".jpg":  formatJPEG,
	".jpeg": formatJPEG,
	".webp": formatWebP,
}

// formatOf resolves the image format of key from its extension.
func formatOf(key string) (imageFormat, error) {
	ext := strings.ToLower(filepath.Ext(key))
	format, ok := supportedExtensions[ext]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// decodeImage decodes r according to format into RGBA staging data.
func decodeImage(format imageFormat, r io.Reader) (common.TextureStagingData, error) {
	var img image.Image
	var err error

	switch format {
	case formatPNG:
		img, err = png.Decode(r)
	case formatJPEG:
		img, err = jpeg.Decode(r)
	case formatWebP:
		img, err = webp.Decode(r)
	}
	if err != nil {
		return common.TextureStagingData{}, err
	}

	return common.NewTextureStagingData(img), nil
}
