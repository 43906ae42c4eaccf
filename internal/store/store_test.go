package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gcode "github.com/leftmike/gcodemesh"
	"github.com/leftmike/gcodemesh/scene"
)

const sample = `G92
G1 X0 Y0 E0
G1 X1 Y0 E1
G1 X1 Y1 E1
G0 X5 Y5 Z0.2
G1 X6.5 Y5 E1
`

func readScene(t *testing.T, s string) *scene.Scene {
	t.Helper()
	sc, err := gcode.ReadScene([]byte(s))
	require.NoError(t, err)
	return sc
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open("sqlite", filepath.Join(t.TempDir(), "scenes.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestSaveLoad(t *testing.T) {
	st := openTestStore(t)
	s := readScene(t, sample)

	id, err := st.Save("cube.gcode", s)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	loaded, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestSaveEmptyScene(t *testing.T) {
	st := openTestStore(t)
	s := readScene(t, "")

	id, err := st.Save("empty.gcode", s)
	require.NoError(t, err)

	loaded, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestSaveDegenerateRun(t *testing.T) {
	st := openTestStore(t)
	s := readScene(t, "G0 X1\nG1 E1\nG0 X3 Y3\nG1 Z2 E1\n")
	require.Len(t, s.Meshes, 2)

	id, err := st.Save("in-place.gcode", s)
	require.NoError(t, err)

	var meshes []MeshRecord
	require.NoError(t, st.db.Where("scene_id = ?", id).Order("seq").Find(&meshes).Error)
	require.Len(t, meshes, 2)
	for _, mr := range meshes {
		assert.Equal(t, "LINESTRING Z EMPTY", mr.Path)
		assert.Zero(t, mr.Length)
	}
	assert.JSONEq(t, `[[1,0,0],[1,0,0]]`, string(meshes[0].Vertices))
	assert.JSONEq(t, `[[3,3,0],[3,3,2]]`, string(meshes[1].Vertices))

	loaded, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestMeshRecords(t *testing.T) {
	st := openTestStore(t)
	id, err := st.Save("cube.gcode", readScene(t, sample))
	require.NoError(t, err)

	var meshes []MeshRecord
	require.NoError(t, st.db.Where("scene_id = ?", id).Order("seq").Find(&meshes).Error)
	require.Len(t, meshes, 2)
	assert.Equal(t, "0", meshes[0].Name)
	assert.Equal(t, "LINESTRING Z (0 0 0,1 0 0,1 1 0)", meshes[0].Path)
	assert.InDelta(t, 2.0, meshes[0].Length, 1e-9)
	assert.JSONEq(t, `[[0,1],[2,3]]`, string(meshes[0].Faces))
	assert.JSONEq(t, `[[5,5,0.2],[6.5,5,0.2]]`, string(meshes[1].Vertices))
}

func TestListDelete(t *testing.T) {
	st := openTestStore(t)
	s := readScene(t, sample)

	id1, err := st.Save("a.gcode", s)
	require.NoError(t, err)
	id2, err := st.Save("b.gcode", s)
	require.NoError(t, err)

	recs, err := st.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	ids := []string{recs[0].ID, recs[1].ID}
	assert.ElementsMatch(t, []string{id1, id2}, ids)
	for _, rec := range recs {
		assert.Equal(t, 2, rec.MeshCount)
		assert.Equal(t, 6, rec.VertexCount)
		assert.Equal(t, 3, rec.FaceCount)
		assert.Empty(t, rec.Meshes)
	}

	require.NoError(t, st.Delete(id1))
	_, err = st.Load(id1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(id1), ErrNotFound)

	var cnt int64
	require.NoError(t, st.db.Model(&MeshRecord{}).Where("scene_id = ?", id1).Count(&cnt).Error)
	assert.Zero(t, cnt)

	recs, err = st.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, id2, recs[0].ID)
	assert.Equal(t, "b.gcode", recs[0].Source)
}

func TestLoadMissing(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Load("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
