package scene

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Bounds returns the axis aligned box enclosing the mesh vertices. An empty mesh has a zero box.
func (m *Mesh) Bounds() sdf.Box3 {
	if len(m.Vertices) == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		bb.Min = bb.Min.Min(v)
		bb.Max = bb.Max.Max(v)
	}
	return bb
}

// Bounds returns the box enclosing every mesh; ok is false when the scene has no vertices.
func (s *Scene) Bounds() (bb sdf.Box3, ok bool) {
	for _, m := range s.Meshes {
		if len(m.Vertices) == 0 {
			continue
		}
		mb := m.Bounds()
		if !ok {
			bb = mb
			ok = true
			continue
		}
		bb.Min = bb.Min.Min(mb.Min)
		bb.Max = bb.Max.Max(mb.Max)
	}
	return bb, ok
}

// Polyline walks the faces of a line mesh as a connected path: the start of the first face,
// then the end of every face.
func (m *Mesh) Polyline() []v3.Vec {
	if len(m.Faces) == 0 {
		return nil
	}
	pts := make([]v3.Vec, 0, len(m.Faces)+1)
	pts = append(pts, m.Vertices[m.Faces[0].Indices[0]])
	for _, f := range m.Faces {
		pts = append(pts, m.Vertices[f.Indices[len(f.Indices)-1]])
	}
	return pts
}

func emptyLineString() geom.LineString {
	ls, _ := geom.NewLineString(geom.NewSequence(nil, geom.DimXYZ))
	return ls
}

// LineString returns the mesh polyline with Z. A run whose vertices share one XY point, such as
// an extrusion in place, is not a valid line string and returns an error.
func (m *Mesh) LineString() (geom.LineString, error) {
	pts := m.Polyline()
	if len(pts) < 2 {
		return emptyLineString(), nil
	}
	coords := make([]float64, 0, len(pts)*3)
	for _, p := range pts {
		coords = append(coords, p.X, p.Y, p.Z)
	}
	ls, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXYZ))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("mesh %s: %w", m.Name, err)
	}
	return ls, nil
}

// Path is LineString with degenerate runs reported as an empty line string.
func (m *Mesh) Path() geom.LineString {
	ls, err := m.LineString()
	if err != nil {
		return emptyLineString()
	}
	return ls
}

// Length is the path length of the mesh in the XY plane; degenerate runs have length 0.
func (m *Mesh) Length() float64 {
	return m.Path().Length()
}

// WKT returns one LINESTRING Z per mesh, in mesh order. Degenerate runs are LINESTRING Z EMPTY.
func (s *Scene) WKT() []string {
	wkt := make([]string, 0, len(s.Meshes))
	for _, m := range s.Meshes {
		wkt = append(wkt, m.Path().AsText())
	}
	return wkt
}
