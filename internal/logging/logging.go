package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config log level to zerolog. Unknown names are info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// utcTimestamps makes zerolog stamp events in UTC. The setting is global to zerolog.
func utcTimestamps() {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
}

// New returns a timestamped logger writing to w at the given level. With console set, output is
// human readable without colors; otherwise it is JSON.
func New(w io.Writer, level string, console bool) zerolog.Logger {
	utcTimestamps()
	if console {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().
		Timestamp().Logger()
}

// NewMulti writes console output to console and JSON to each of the other writers.
func NewMulti(console io.Writer, level string, others ...io.Writer) zerolog.Logger {
	utcTimestamps()
	ws := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
	}}
	ws = append(ws, others...)
	return zerolog.New(zerolog.MultiLevelWriter(ws...)).Level(ParseLevel(level)).With().
		Timestamp().Logger()
}
