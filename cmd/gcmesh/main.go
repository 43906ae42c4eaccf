package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	gcode "github.com/leftmike/gcodemesh"
	"github.com/leftmike/gcodemesh/internal/config"
	"github.com/leftmike/gcodemesh/internal/logging"
	"github.com/leftmike/gcodemesh/internal/store"
	"github.com/leftmike/gcodemesh/scene"
)

type options struct {
	configPath string
	logLevel   string
	store      bool
	wkt        bool
	list       bool
}

func parseFlags(args []string, stderr io.Writer) (options, []string, *pflag.FlagSet, error) {
	var opts options
	flags := pflag.NewFlagSet("gcmesh", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (json or yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")
	flags.BoolVar(&opts.store, "store", false, "save imported scenes in the scene store")
	flags.BoolVar(&opts.wkt, "wkt", false, "print each mesh as WKT")
	flags.BoolVar(&opts.list, "list", false, "list the scenes in the scene store")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: gcmesh [flags] [file.gcode ...]\n")
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	return opts, flags.Args(), flags, err
}

func loadConfig(opts options, flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("store") || opts.list {
		cfg.Store.Enabled = opts.store || opts.list
	}
	if flags.Changed("wkt") {
		cfg.Export.WKT = opts.wkt
	}
	return cfg, nil
}

func printScene(w io.Writer, name string, s *scene.Scene, wkt bool) {
	fmt.Fprintf(w, "%s: %d meshes, %d vertices, %d faces\n", name, len(s.Meshes),
		s.NumVertices(), s.NumFaces())
	if bb, ok := s.Bounds(); ok {
		fmt.Fprintf(w, "  bounds: (%g, %g, %g) - (%g, %g, %g)\n", bb.Min.X, bb.Min.Y, bb.Min.Z,
			bb.Max.X, bb.Max.Y, bb.Max.Z)
	}
	if wkt {
		for mdx, line := range s.WKT() {
			fmt.Fprintf(w, "  %s: %s\n", s.Meshes[mdx].Name, line)
		}
	}
}

func listScenes(w io.Writer, st *store.Store) error {
	recs, err := st.List()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Fprintf(w, "%s %s %s: %d meshes, %d vertices, %d faces\n", rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Source, rec.MeshCount,
			rec.VertexCount, rec.FaceCount)
	}
	return nil
}

func importAll(log zerolog.Logger, imp *gcode.Importer, st *store.Store, files []string,
	stdin io.Reader, stdout io.Writer, wkt bool) int {

	status := 0
	save := func(source string, s *scene.Scene) {
		if st == nil {
			return
		}
		id, err := st.Save(source, s)
		if err != nil {
			log.Error().Err(err).Str("path", source).Msg("failed to save scene")
			status = 1
			return
		}
		fmt.Fprintf(stdout, "  saved: %s\n", id)
	}

	if len(files) == 0 {
		s, err := imp.Read(stdin)
		if err != nil {
			log.Error().Err(err).Msg("failed to read standard input")
			return 1
		}
		printScene(stdout, "-", s, wkt)
		save("-", s)
		return status
	}

	for _, file := range files {
		if !imp.CanRead(file) {
			log.Warn().Str("path", file).Msg("skipping file with unknown extension")
			continue
		}
		s, err := imp.ReadFile(file)
		if err != nil {
			status = 1
			continue
		}
		printScene(stdout, file, s, wkt)
		save(file, s)
	}
	return status
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, files, flags, err := parseFlags(args, stderr)
	if err == pflag.ErrHelp {
		return 0
	} else if err != nil {
		return 2
	}

	cfg, err := loadConfig(opts, flags)
	if err != nil {
		fmt.Fprintf(stderr, "gcmesh: %s\n", err)
		return 1
	}

	log := logging.New(stderr, cfg.LogLevel, true)
	imp := gcode.NewImporter(gcode.WithLogger(log), gcode.WithExtensions(cfg.Extensions...))

	var st *store.Store
	if cfg.Store.Enabled {
		st, err = store.Open(cfg.Store.Driver, cfg.Store.DSN, log)
		if err != nil {
			log.Error().Err(err).Msg("failed to open scene store")
			return 1
		}
		defer st.Close()
	}

	if opts.list {
		err = listScenes(stdout, st)
		if err != nil {
			log.Error().Err(err).Msg("failed to list scenes")
			return 1
		}
		return 0
	}

	return importAll(log, imp, st, files, stdin, stdout, cfg.Export.WKT)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
