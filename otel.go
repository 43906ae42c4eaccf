package gcode

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/leftmike/gcodemesh"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	imports  metric.Int64Counter
	failures metric.Int64Counter
	meshes   metric.Int64Counter
	vertices metric.Int64Counter
}

// newInstruments uses the global OTel meter provider, which is a no-op unless configured.
// Instruments that cannot be created are replaced with no-op counters.
func newInstruments() instruments {
	m := meter()
	counter := func(name, desc string) metric.Int64Counter {
		c, err := m.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			return noop.Int64Counter{}
		}
		return c
	}

	return instruments{
		imports:  counter("gcode.imports", "G-code files imported"),
		failures: counter("gcode.import.failures", "G-code files that could not be opened or interpreted"),
		meshes:   counter("gcode.meshes", "Line meshes created from extrusion runs"),
		vertices: counter("gcode.vertices", "Vertices in created line meshes"),
	}
}
