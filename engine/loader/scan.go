package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir lists the image files directly inside dir, sorted by name.
// Only .png, .jpg, .jpeg and .webp files (any case) are returned, as keys
// relative to dir suitable for a file backend rooted at dir.
//
// Parameters:
//   - dir: the directory to scan
//
// Returns:
//   - []string: the image keys
//   - error: error if the directory cannot be read
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			keys = append(keys, e.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}
