package gcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/leftmike/gcodemesh/scene"
)

var (
	ErrOpen = errors.New("failed to open G-code file")

	defaultExtensions = []string{"gcode"}
)

// OpenError reports a G-code file that could not be opened or read. It matches ErrOpen.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrOpen, e.Path, e.Err)
}

func (e *OpenError) Unwrap() []error {
	return []error{ErrOpen, e.Err}
}

type Description struct {
	Name        string
	TextFlavour bool
	Extensions  []string
}

type Importer struct {
	fs         afero.Fs
	log        zerolog.Logger
	extensions []string
	inst       instruments
}

type Option func(imp *Importer)

func WithFs(fs afero.Fs) Option {
	return func(imp *Importer) {
		imp.fs = fs
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(imp *Importer) {
		imp.log = log
	}
}

// WithExtensions sets the file extensions, without the leading dot, that CanRead accepts.
func WithExtensions(exts ...string) Option {
	return func(imp *Importer) {
		imp.extensions = nil
		for _, ext := range exts {
			ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
			if ext != "" {
				imp.extensions = append(imp.extensions, ext)
			}
		}
	}
}

func NewImporter(opts ...Option) *Importer {
	imp := &Importer{
		fs:         afero.NewOsFs(),
		log:        zerolog.Nop(),
		extensions: defaultExtensions,
		inst:       newInstruments(),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

func (imp *Importer) Info() Description {
	return Description{
		Name:        "G-code Importer",
		TextFlavour: true,
		Extensions:  append([]string(nil), imp.extensions...),
	}
}

// CanRead checks the file extension only; the contents are not examined.
func (imp *Importer) CanRead(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return false
	}
	for _, e := range imp.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ReadFile imports the G-code file at path. The file is read completely before parsing.
func (imp *Importer) ReadFile(path string) (*scene.Scene, error) {
	f, err := imp.fs.Open(path)
	if err != nil {
		return nil, imp.openFailed(path, err)
	}
	defer f.Close()

	buf, err := afero.ReadAll(f)
	if err != nil {
		return nil, imp.openFailed(path, err)
	}

	return imp.read(path, buf)
}

// Read imports G-code from r.
func (imp *Importer) Read(r io.Reader) (*scene.Scene, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading G-code: %w", err)
	}
	return imp.read("", buf)
}

func (imp *Importer) openFailed(path string, err error) error {
	imp.inst.failures.Add(context.Background(), 1)
	imp.log.Error().Err(err).Str("path", path).Msg("failed to open G-code file")
	return &OpenError{Path: path, Err: err}
}

func (imp *Importer) read(path string, buf []byte) (*scene.Scene, error) {
	start := time.Now()
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("source", sourceKind(path)))

	s, err := readScene(buf, imp.log)
	if err != nil {
		imp.inst.failures.Add(ctx, 1, attrs)
		imp.log.Error().Err(err).Str("path", path).Msg("failed to interpret G-code")
		return nil, fmt.Errorf("interpreting G-code %s: %w", path, err)
	}

	imp.inst.imports.Add(ctx, 1, attrs)
	imp.inst.meshes.Add(ctx, int64(len(s.Meshes)), attrs)
	imp.inst.vertices.Add(ctx, int64(s.NumVertices()), attrs)

	imp.log.Info().Str("path", path).Int("bytes", len(buf)).Int("meshes", len(s.Meshes)).
		Int("vertices", s.NumVertices()).Dur("elapsed", time.Since(start)).
		Msg("imported G-code")
	return s, nil
}

func sourceKind(path string) string {
	if path == "" {
		return "reader"
	}
	return "file"
}
