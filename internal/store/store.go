// Package store persists imported scenes with GORM, in SQLite or Postgres.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/leftmike/gcodemesh/scene"
)

var ErrNotFound = errors.New("scene not found")

type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the database and migrates the schema. Driver is "sqlite", where dsn is a file
// path, or "postgres".
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unknown store driver: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}

	err = db.AutoMigrate(&SceneRecord{}, &MeshRecord{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	log.Debug().Str("driver", driver).Msg("opened scene store")
	return &Store{db: db, log: log}, nil
}

func (st *Store) Close() error {
	sqlDB, err := st.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type vertex [3]float64

func toRecord(id, source string, s *scene.Scene) (SceneRecord, error) {
	rec := SceneRecord{
		ID:          id,
		Source:      source,
		RootName:    s.Root.Name,
		MeshCount:   len(s.Meshes),
		VertexCount: s.NumVertices(),
		FaceCount:   s.NumFaces(),
	}

	for mdx, m := range s.Meshes {
		vertices, err := json.Marshal(lo.Map(m.Vertices, func(v v3.Vec, _ int) vertex {
			return vertex{v.X, v.Y, v.Z}
		}))
		if err != nil {
			return SceneRecord{}, err
		}
		faces, err := json.Marshal(lo.Map(m.Faces, func(f scene.Face, _ int) []int {
			return f.Indices
		}))
		if err != nil {
			return SceneRecord{}, err
		}

		rec.Meshes = append(rec.Meshes, MeshRecord{
			SceneID:  id,
			Seq:      mdx,
			Name:     m.Name,
			Vertices: datatypes.JSON(vertices),
			Faces:    datatypes.JSON(faces),
			Path:     m.Path().AsText(),
			Length:   m.Length(),
		})
	}
	return rec, nil
}

func fromRecord(rec SceneRecord) (*scene.Scene, error) {
	s := scene.NewScene(rec.RootName)
	for _, mr := range rec.Meshes {
		var vertices []vertex
		err := json.Unmarshal(mr.Vertices, &vertices)
		if err != nil {
			return nil, fmt.Errorf("mesh %s: vertices: %w", mr.Name, err)
		}
		var faces [][]int
		err = json.Unmarshal(mr.Faces, &faces)
		if err != nil {
			return nil, fmt.Errorf("mesh %s: faces: %w", mr.Name, err)
		}

		s.AddMesh(&scene.Mesh{
			Name: mr.Name,
			Vertices: lo.Map(vertices, func(v vertex, _ int) v3.Vec {
				return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
			}),
			Faces: lo.Map(faces, func(indices []int, _ int) scene.Face {
				return scene.Face{Indices: indices}
			}),
			PrimitiveTypes: scene.PrimitiveLine,
		})
	}
	s.Materials = []*scene.Material{scene.DefaultMaterial()}
	return s, nil
}

// Save stores the scene and returns its new id.
func (st *Store) Save(source string, s *scene.Scene) (string, error) {
	id := uuid.NewString()
	rec, err := toRecord(id, source, s)
	if err != nil {
		return "", fmt.Errorf("failed to encode scene: %w", err)
	}

	err = st.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to save scene: %w", err)
	}

	st.log.Debug().Str("id", id).Str("source", source).Int("meshes", rec.MeshCount).
		Msg("saved scene")
	return id, nil
}

func (st *Store) Load(id string) (*scene.Scene, error) {
	var rec SceneRecord
	err := st.db.Preload("Meshes", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq")
	}).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", id, err)
	}
	return fromRecord(rec)
}

// List returns the stored scenes, oldest first, without their meshes.
func (st *Store) List() ([]SceneRecord, error) {
	var recs []SceneRecord
	err := st.db.Order("created_at").Order("id").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	return recs, nil
}

func (st *Store) Delete(id string) error {
	return st.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("scene_id = ?", id).Delete(&MeshRecord{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete meshes of scene %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&SceneRecord{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete scene %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		st.log.Debug().Str("id", id).Msg("deleted scene")
		return nil
	})
}
