package gcode

import (
	"strconv"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog"

	"github.com/leftmike/gcodemesh/scene"
)

const rootNodeName = "G"

// meshBuilder is a Machine that collects extrusion runs into line meshes. A travel move, or
// the end of the toolpath, ends the current run.
type meshBuilder struct {
	scene    *scene.Scene
	log      zerolog.Logger
	vertices []v3.Vec
	indices  []int
}

func newMeshBuilder(log zerolog.Logger) *meshBuilder {
	return &meshBuilder{
		scene: scene.NewScene(rootNodeName),
		log:   log,
	}
}

func (pos Position) vec() v3.Vec {
	return v3.Vec{X: pos.X, Y: pos.Y, Z: pos.Z}
}

func (mb *meshBuilder) ExtrudeTo(from, to Position) error {
	mb.vertices = append(mb.vertices, from.vec(), to.vec())
	if cnt := len(mb.vertices); cnt > 1 {
		mb.indices = append(mb.indices, cnt-2, cnt-1)
	}
	return nil
}

func (mb *meshBuilder) TravelTo(pos Position) error {
	mb.flush()
	return nil
}

func (mb *meshBuilder) flush() {
	if len(mb.vertices) == 0 {
		return
	}

	m := scene.NewLineMesh(strconv.Itoa(len(mb.scene.Meshes)), mb.vertices, mb.indices)
	mb.scene.AddMesh(m)
	mb.log.Debug().Str("mesh", m.Name).Int("vertices", len(m.Vertices)).
		Int("faces", len(m.Faces)).Msg("flushed extrusion run")

	// The mesh owns the buffers now.
	mb.vertices = nil
	mb.indices = nil
}

func (mb *meshBuilder) finish() *scene.Scene {
	mb.flush()
	mb.scene.Materials = []*scene.Material{scene.DefaultMaterial()}
	return mb.scene
}

// ReadScene interprets a complete G-code buffer with a fresh engine and returns one line mesh
// per extrusion run.
func ReadScene(buf []byte) (*scene.Scene, error) {
	return readScene(buf, zerolog.Nop())
}

func readScene(buf []byte, log zerolog.Logger) (*scene.Scene, error) {
	mb := newMeshBuilder(log)
	err := NewEngine().Evaluate(buf, mb)
	if err != nil {
		return nil, err
	}
	return mb.finish(), nil
}
