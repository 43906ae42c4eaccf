// Package scene is the in-memory scene graph produced by the G-code importer: a root node
// with one child per line-segment mesh and a single default material.
package scene

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

type PrimitiveType byte

const (
	PrimitivePoint PrimitiveType = 1 << iota
	PrimitiveLine
	PrimitiveTriangle
	PrimitivePolygon
)

// Face lists the vertex indices of one primitive; line faces have two.
type Face struct {
	Indices []int
}

type Mesh struct {
	Name           string
	Vertices       []v3.Vec
	Faces          []Face
	PrimitiveTypes PrimitiveType
	MaterialIndex  int
}

type Node struct {
	Name     string
	Parent   *Node
	Children []*Node
	Meshes   []int // indexes into Scene.Meshes
}

type Color4 struct {
	R, G, B, A float64
}

type Material struct {
	Name     string
	Diffuse  Color4
	Specular Color4
	Ambient  Color4
}

const DefaultMaterialName = "DefaultMaterial"

// DefaultMaterial is white with a faint ambient term.
func DefaultMaterial() *Material {
	white := Color4{1.0, 1.0, 1.0, 1.0}
	return &Material{
		Name:     DefaultMaterialName,
		Diffuse:  white,
		Specular: white,
		Ambient:  Color4{0.05, 0.05, 0.05, 1.0},
	}
}

type Scene struct {
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
}

func NewScene(rootName string) *Scene {
	return &Scene{
		Root: &Node{Name: rootName},
	}
}

// NewLineMesh builds a mesh of two-index line faces. Indices come in consecutive pairs.
func NewLineMesh(name string, vertices []v3.Vec, indices []int) *Mesh {
	faces := make([]Face, len(indices)/2)
	for fdx := range faces {
		faces[fdx] = Face{Indices: []int{indices[fdx*2], indices[fdx*2+1]}}
	}
	return &Mesh{
		Name:           name,
		Vertices:       vertices,
		Faces:          faces,
		PrimitiveTypes: PrimitiveLine,
	}
}

// AddMesh appends m to the scene and parents a new node referencing it to the root.
func (s *Scene) AddMesh(m *Mesh) *Node {
	n := &Node{
		Name:   m.Name,
		Parent: s.Root,
		Meshes: []int{len(s.Meshes)},
	}
	s.Meshes = append(s.Meshes, m)
	s.Root.Children = append(s.Root.Children, n)
	return n
}

func (s *Scene) NumVertices() int {
	var cnt int
	for _, m := range s.Meshes {
		cnt += len(m.Vertices)
	}
	return cnt
}

func (s *Scene) NumFaces() int {
	var cnt int
	for _, m := range s.Meshes {
		cnt += len(m.Faces)
	}
	return cnt
}

func (s *Scene) String() string {
	return fmt.Sprintf("%s: %d meshes, %d vertices, %d faces", s.Root.Name, len(s.Meshes),
		s.NumVertices(), s.NumFaces())
}
