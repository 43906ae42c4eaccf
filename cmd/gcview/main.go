package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/pflag"

	gcode "github.com/leftmike/gcodemesh"
	"github.com/leftmike/gcodemesh/internal/logging"
	"github.com/leftmike/gcodemesh/scene"
)

const numColors = 5

func jsPoint(v v3.Vec) string {
	return fmt.Sprintf("{x: %g, y: %g, z: %g}", v.X, v.Y, v.Z)
}

// viewConfig returns the config entries of the page: the bounds of the scene.
func viewConfig(s *scene.Scene) string {
	bb, ok := s.Bounds()
	if !ok {
		return "  minPos: {x: 0, y: 0, z: 0},\n  maxPos: {x: 0, y: 0, z: 0},"
	}
	return fmt.Sprintf("  minPos: %s,\n  maxPos: %s,", jsPoint(bb.Min), jsPoint(bb.Max))
}

// viewCommands returns the page commands drawing every face of every mesh. A travel is emitted
// only where a face does not start at the end of the previous one.
func viewCommands(s *scene.Scene) string {
	var b strings.Builder
	var cur v3.Vec
	first := true
	for mdx, m := range s.Meshes {
		for _, f := range m.Faces {
			from := m.Vertices[f.Indices[0]]
			to := m.Vertices[f.Indices[len(f.Indices)-1]]
			if first || from != cur {
				fmt.Fprintf(&b, "  {travelTo: %s},\n", jsPoint(from))
			}
			fmt.Fprintf(&b, "  {extrudeTo: %s, color: %d},\n", jsPoint(to), mdx%numColors)
			cur = to
			first = false
		}
	}
	return b.String()
}

func writeView(w io.Writer, title string, s *scene.Scene) error {
	_, err := fmt.Fprintf(w, indexHTML, template.HTMLEscapeString(title), viewConfig(s),
		viewCommands(s))
	return err
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var out, logLevel string
	flags := pflag.NewFlagSet("gcview", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&out, "out", "o", "", "write the page to this file instead of stdout")
	flags.StringVar(&logLevel, "log-level", "warn", "log level")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: gcview [--out file.html] [file.gcode]\n")
		flags.PrintDefaults()
	}
	err := flags.Parse(args)
	if err == pflag.ErrHelp {
		return 0
	} else if err != nil || flags.NArg() > 1 {
		return 2
	}

	log := logging.New(stderr, logLevel, true)
	imp := gcode.NewImporter(gcode.WithLogger(log))

	var s *scene.Scene
	title := "stdin"
	if flags.NArg() == 1 {
		title = filepath.Base(flags.Arg(0))
		s, err = imp.ReadFile(flags.Arg(0))
	} else {
		s, err = imp.Read(stdin)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to import G-code")
		return 1
	}

	w := stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			log.Error().Err(err).Str("path", out).Msg("failed to create page")
			return 1
		}
		defer f.Close()
		w = f
	}

	err = writeView(w, title, s)
	if err != nil {
		log.Error().Err(err).Msg("failed to write page")
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
