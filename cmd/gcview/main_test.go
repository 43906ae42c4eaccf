package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gcode "github.com/leftmike/gcodemesh"
	"github.com/leftmike/gcodemesh/scene"
)

const twoRuns = `G92
G1 X0 Y0 E0
G1 X1 Y0 E1
G1 X1 Y1 E1
G0 X5 Y5
G1 X6 Y5 E1
`

func readScene(t *testing.T, s string) *scene.Scene {
	t.Helper()
	sc, err := gcode.ReadScene([]byte(s))
	require.NoError(t, err)
	return sc
}

func TestViewCommands(t *testing.T) {
	cmds := viewCommands(readScene(t, twoRuns))
	assert.Equal(t, `  {travelTo: {x: 0, y: 0, z: 0}},
  {extrudeTo: {x: 1, y: 0, z: 0}, color: 0},
  {extrudeTo: {x: 1, y: 1, z: 0}, color: 0},
  {travelTo: {x: 5, y: 5, z: 0}},
  {extrudeTo: {x: 6, y: 5, z: 0}, color: 1},
`, cmds)

	assert.Empty(t, viewCommands(readScene(t, "")))
}

func TestViewConfig(t *testing.T) {
	assert.Equal(t, "  minPos: {x: 0, y: 0, z: 0},\n  maxPos: {x: 6, y: 5, z: 0},",
		viewConfig(readScene(t, twoRuns)))
	assert.Equal(t, "  minPos: {x: 0, y: 0, z: 0},\n  maxPos: {x: 0, y: 0, z: 0},",
		viewConfig(readScene(t, "")))
}

func TestWriteViewTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, "a<b>.gcode", readScene(t, "")))
	assert.Contains(t, buf.String(), "<title>a&lt;b&gt;.gcode</title>")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "part.gcode")
	require.NoError(t, os.WriteFile(in, []byte(twoRuns), 0644))
	out := filepath.Join(dir, "part.html")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"--out", out, in}, nil, &stdout, &stderr), stderr.String())
	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>part.gcode</title>")
	assert.Contains(t, string(page), "{extrudeTo: {x: 6, y: 5, z: 0}, color: 1},")
	assert.NotContains(t, string(page), "%!")

	stdout.Reset()
	require.Equal(t, 0, run(nil, strings.NewReader(twoRuns), &stdout, &stderr))
	assert.Contains(t, stdout.String(), "<title>stdin</title>")

	assert.Equal(t, 1, run([]string{filepath.Join(dir, "missing.gcode")}, nil, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"a.gcode", "b.gcode"}, nil, &stdout, &stderr))
}
