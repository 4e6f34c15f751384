package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/amr-stencil/internal/amr"
	"github.com/banshee-data/amr-stencil/internal/db"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_Validates(t *testing.T) {
	out, err := execute(t, "run", "5", "10", "4", "0", "2", "1", "1", "--radius", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Background grid size = 10\n")
	assert.Contains(t, out, "Untiled\n")
	assert.Contains(t, out, "Solution validates\n")
	assert.Contains(t, out, "Rate (MFlops/s): ")
	assert.Contains(t, out, "Timed iterations: 5")
}

func TestRun_TiledCompactWorkers(t *testing.T) {
	out, err := execute(t, "run", "6", "24", "6", "2", "3", "2", "2", "5",
		"--shape", "compact", "--radius", "2", "--workers", "3", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Type of stencil      = compact\n")
	assert.Contains(t, out, "Tile size            = 5\n")
	assert.Contains(t, out, "refinement 3: Reference L1 norm")
	assert.Contains(t, out, "Solution validates\n")
}

func TestRun_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"wrong arity", []string{"run", "5", "10"}},
		{"not a number", []string{"run", "five", "10", "4", "0", "2", "1", "1"}},
		{"duration exceeds period", []string{"run", "5", "10", "4", "0", "2", "3", "1", "--radius", "1"}},
		{"refinement too large", []string{"run", "5", "10", "10", "0", "2", "1", "1", "--radius", "1"}},
		{"radius too large for refinement", []string{"run", "5", "10", "1", "0", "2", "1", "1", "--radius", "1"}},
		{"bad shape", []string{"run", "5", "10", "4", "0", "2", "1", "1", "--shape", "hex"}},
		{"bad chart path", []string{"run", "5", "10", "4", "0", "2", "1", "1", "--radius", "1", "--chart", "chart.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, amr.ErrInvalidInput), "got %v", err)
			assert.True(t, isUsageError(err))
			assert.NotContains(t, out, "Solution")
		})
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	yaml := `iterations: 4
grid_size: 12
refinement_cells: 4
refinement_level: 1
refinement_period: 2
refinement_duration: 2
sub_iterations: 1
radius: 1
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	out, err := execute(t, "run", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Background grid size = 12\n")
	assert.Contains(t, out, "Solution validates\n")

	// Positional arguments override the file.
	out, err = execute(t, "run", "--config", path, "3", "14", "4", "1", "2", "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Background grid size = 14\n")
	assert.Contains(t, out, "Number of iterations = 3\n")
}

func TestRun_ArtifactsAndHistory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	chart := filepath.Join(dir, "iterations.html")
	heat := filepath.Join(dir, "background.png")

	_, err := execute(t, "run", "5", "10", "4", "1", "2", "1", "1", "--radius", "1",
		"--db", dbPath, "--chart", chart, "--heatmap", heat)
	require.NoError(t, err)

	html, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.Contains(t, string(html), "AMR iteration time")

	info, err := os.Stat(heat)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	out, err := execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "RUN ID")
	assert.Contains(t, lines[1], "true")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "amr "), out)
}

func TestRuns_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "none.db")

	out, err := execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "no runs recorded in "+dbPath+"\n", out)
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "listing must not create the database")

	_, err = execute(t, "runs", "show", "abc", "--db", dbPath)
	assert.True(t, errors.Is(err, db.ErrRunNotFound), "got %v", err)
}

func TestRunsShowAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	_, err := execute(t, "run", "5", "10", "4", "1", "2", "1", "1", "--radius", "1", "--db", dbPath)
	require.NoError(t, err)

	out, err := execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	runID := strings.Fields(lines[1])[0]

	out, err = execute(t, "runs", "show", runID, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "Background L1 norm")
	assert.Contains(t, out, "Refinement 3 L1 norm")

	_, err = execute(t, "runs", "show", "missing", "--db", dbPath)
	assert.True(t, errors.Is(err, db.ErrRunNotFound), "got %v", err)

	out, err = execute(t, "migrate", "version", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 2\n", out)

	out, err = execute(t, "migrate", "down", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)

	out, err = execute(t, "migrate", "up", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 2\n", out)
}
