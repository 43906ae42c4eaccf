package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRuns = `G92
G1 X0 Y0 E0
G1 X1 Y0 E1
G1 X1 Y1 E1
G0 X5 Y5
G1 X6 Y5 E1
`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestRunFiles(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	gc := writeFile(t, dir, "part.gcode", twoRuns)
	txt := writeFile(t, dir, "notes.txt", twoRuns)

	var stdout, stderr bytes.Buffer
	status := run([]string{"--log-level", "warn", gc, txt}, nil, &stdout, &stderr)
	assert.Equal(t, 0, status)

	out := stdout.String()
	assert.Contains(t, out, gc+": 2 meshes, 6 vertices, 3 faces\n")
	assert.Contains(t, out, "  bounds: (0, 0, 0) - (6, 5, 0)\n")
	assert.NotContains(t, out, "notes.txt")
	assert.NotContains(t, out, "LINESTRING")
	assert.Contains(t, stderr.String(), "skipping file with unknown extension")
}

func TestRunMissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	status := run([]string{filepath.Join(t.TempDir(), "missing.gcode")}, nil, &stdout, &stderr)
	assert.Equal(t, 1, status)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "failed to open G-code file")
}

func TestRunStdinWKT(t *testing.T) {
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	status := run([]string{"--wkt"}, strings.NewReader(twoRuns), &stdout, &stderr)
	assert.Equal(t, 0, status)

	out := stdout.String()
	assert.Contains(t, out, "-: 2 meshes, 6 vertices, 3 faces\n")
	assert.Contains(t, out, "  0: LINESTRING Z (0 0 0,1 0 0,1 1 0)\n")
	assert.Contains(t, out, "  1: LINESTRING Z (5 5 0,6 5 0)\n")
}

func TestRunWKTInPlace(t *testing.T) {
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	status := run([]string{"--wkt"}, strings.NewReader("G0 X1\nG1 E1\n"), &stdout, &stderr)
	assert.Equal(t, 0, status)
	assert.Contains(t, stdout.String(), "-: 1 meshes, 2 vertices, 1 faces\n")
	assert.Contains(t, stdout.String(), "  0: LINESTRING Z EMPTY\n")
}

func TestRunStore(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	gc := writeFile(t, dir, "part.GCODE", twoRuns)
	cfg := writeFile(t, dir, "gcodemesh.json",
		fmt.Sprintf(`{"logLevel": "error", "store": {"dsn": %q}}`, filepath.Join(dir, "scenes.db")))

	var stdout, stderr bytes.Buffer
	status := run([]string{"--config", cfg, "--store", gc}, nil, &stdout, &stderr)
	require.Equal(t, 0, status, stderr.String())
	assert.Contains(t, stdout.String(), "  saved: ")

	viper.Reset()
	stdout.Reset()
	status = run([]string{"-c", cfg, "--list"}, nil, &stdout, &stderr)
	require.Equal(t, 0, status, stderr.String())
	assert.Contains(t, stdout.String(), gc+": 2 meshes, 6 vertices, 3 faces\n")
}

func TestRunFlags(t *testing.T) {
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--help"}, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: gcmesh")

	assert.Equal(t, 2, run([]string{"--bogus"}, nil, &stdout, &stderr))

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"--config", "/nonexistent/gcodemesh.json"}, nil, &stdout,
		&stderr))
	assert.Contains(t, stderr.String(), "error reading config file")
}
