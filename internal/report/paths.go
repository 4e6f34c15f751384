package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HeatmapFormats lists the image extensions SaveHeatmap can write.
var HeatmapFormats = []string{".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff"}

// ValidateOutputPath checks that an artifact can be written to path before
// any work is done: the extension is one of allowed, the parent directory
// exists, and path is not itself a directory.
func ValidateOutputPath(path string, allowed []string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("output path is empty")
	}
	cleanPath := filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(cleanPath))
	ok := false
	for _, a := range allowed {
		if ext == a {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("output %s must have one of the extensions %v", path, allowed)
	}

	dir := filepath.Dir(cleanPath)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", dir)
	}

	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return fmt.Errorf("output %s is a directory", path)
	}
	return nil
}
