package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		allowed []string
		wantErr bool
	}{
		{"png", filepath.Join(dir, "grid.png"), HeatmapFormats, false},
		{"upper case svg", filepath.Join(dir, "grid.SVG"), HeatmapFormats, false},
		{"html chart", filepath.Join(dir, "chart.html"), []string{".html"}, false},
		{"wrong extension", filepath.Join(dir, "grid.txt"), HeatmapFormats, true},
		{"no extension", filepath.Join(dir, "grid"), HeatmapFormats, true},
		{"missing directory", filepath.Join(dir, "nope", "grid.png"), HeatmapFormats, true},
		{"directory target", filepath.Join(dir, "sub.png"), HeatmapFormats, true},
		{"empty", "  ", HeatmapFormats, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path, tt.allowed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
