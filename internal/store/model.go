package store

import (
	"time"

	"gorm.io/datatypes"
)

// SceneRecord is one imported G-code file.
type SceneRecord struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"index"`
	Source      string       `json:"source"`
	RootName    string       `json:"rootName" gorm:"size:64"`
	MeshCount   int          `json:"meshCount"`
	VertexCount int          `json:"vertexCount"`
	FaceCount   int          `json:"faceCount"`
	Meshes      []MeshRecord `json:"meshes" gorm:"foreignKey:SceneID"`
}

func (SceneRecord) TableName() string {
	return "scenes"
}

// MeshRecord is one extrusion run. Vertices is a JSON array of [x, y, z] and Faces a JSON array
// of index arrays; Path is the run as a WKT LINESTRING Z.
type MeshRecord struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	SceneID  string         `json:"sceneId" gorm:"size:36;index:idx_scene_seq,priority:1"`
	Seq      int            `json:"seq" gorm:"index:idx_scene_seq,priority:2"`
	Name     string         `json:"name" gorm:"size:64"`
	Vertices datatypes.JSON `json:"vertices"`
	Faces    datatypes.JSON `json:"faces"`
	Path     string         `json:"path"`
	Length   float64        `json:"length"`
}

func (MeshRecord) TableName() string {
	return "meshes"
}
