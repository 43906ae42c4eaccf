package gcode

import (
	"fmt"
)

// Position is a point in machine coordinates.
type Position struct {
	X, Y, Z float64
}

func (pos Position) String() string {
	return fmt.Sprintf("{x: %g, y: %g, z: %g}", pos.X, pos.Y, pos.Z)
}

func (pos Position) Add(o Position) Position {
	return Position{pos.X + o.X, pos.Y + o.Y, pos.Z + o.Z}
}

func (pos Position) Sub(o Position) Position {
	return Position{pos.X - o.X, pos.Y - o.Y, pos.Z - o.Z}
}

var (
	zeroPosition = Position{0.0, 0.0, 0.0}
)

// Motion classifies the effect of one command.
type Motion byte

const (
	NoMovement Motion = iota
	Travel
	Extrusion
)

func (m Motion) String() string {
	switch m {
	case NoMovement:
		return "none"
	case Travel:
		return "travel"
	case Extrusion:
		return "extrusion"
	}
	return fmt.Sprintf("motion(%d)", byte(m))
}

// Machine receives the classified moves of a toolpath, in absolute coordinates.
type Machine interface {
	ExtrudeTo(from, to Position) error
	TravelTo(pos Position) error
}

// Engine tracks the position state of one toolpath stream.
type Engine struct {
	curPos       Position // logical position
	offset       Position // absolute = curPos + offset
	absoluteMode bool
}

// NewEngine returns an engine at the origin in absolute mode.
func NewEngine() *Engine {
	return &Engine{
		curPos:       zeroPosition,
		offset:       zeroPosition,
		absoluteMode: true,
	}
}

// Reset returns the engine to the state NewEngine creates.
func (eng *Engine) Reset() {
	eng.curPos = zeroPosition
	eng.offset = zeroPosition
	eng.absoluteMode = true
}

func (eng *Engine) Position() Position {
	return eng.curPos
}

func (eng *Engine) Offset() Position {
	return eng.offset
}

func (eng *Engine) AbsoluteMode() bool {
	return eng.absoluteMode
}

// SetPosition commits a logical position returned by Move.
func (eng *Engine) SetPosition(pos Position) {
	eng.curPos = pos
}

func (eng *Engine) ToAbsolutePosition(pos Position) Position {
	return eng.offset.Add(pos)
}

func (eng *Engine) ToLogicalPosition(pos Position) Position {
	return pos.Sub(eng.offset)
}

func (eng *Engine) moveTo(f Fields, pos *Position, absolute bool) {
	if absolute {
		pos.X = f.X.Or(eng.curPos.X)
		pos.Y = f.Y.Or(eng.curPos.Y)
		pos.Z = f.Z.Or(eng.curPos.Z)
		return
	}
	// relative
	pos.X = eng.curPos.X + f.X.Or(0)
	pos.Y = eng.curPos.Y + f.Y.Or(0)
	pos.Z = eng.curPos.Z + f.Z.Or(0)
}

// setPosition redefines the origin so that the absolute position is unchanged.
func (eng *Engine) setPosition(f Fields) {
	abs := eng.ToAbsolutePosition(eng.curPos)
	if f.Empty() {
		eng.offset = abs
		eng.curPos = zeroPosition
		return
	}

	if f.X.Set {
		eng.curPos.X = f.X.Num
		eng.offset.X = abs.X - eng.curPos.X
	}
	if f.Y.Set {
		eng.curPos.Y = f.Y.Num
		eng.offset.Y = abs.Y - eng.curPos.Y
	}
	if f.Z.Set {
		eng.curPos.Z = f.Z.Num
		eng.offset.Z = abs.Z - eng.curPos.Z
	}
}

// Move applies the command with the given code to pos, which must start as a copy of the
// current logical position, and classifies the result. Mode and origin changes take effect
// on the engine immediately; pos is committed by the caller with SetPosition.
func (eng *Engine) Move(code int, f Fields, pos *Position) Motion {
	switch code {
	case 0, 1: // G0, G1: linear move
		eng.moveTo(f, pos, eng.absoluteMode)
	case 7: // G7: relative move
		eng.moveTo(f, pos, false)
	case 90: // G90: absolute distance mode
		eng.absoluteMode = true
		return NoMovement
	case 91: // G91: incremental distance mode
		eng.absoluteMode = false
		return NoMovement
	case 92: // G92: set position
		eng.setPosition(f)
		*pos = eng.curPos
		return NoMovement
	default:
		return NoMovement
	}

	if f.E.Set && f.E.Num > 0 {
		return Extrusion
	}
	if f.HasAxis() {
		return Travel
	}
	return NoMovement
}

// Evaluate interprets every G command in buf and reports extrusion and travel moves to m.
// Lines that do not start with G are skipped, as is anything after a comment.
func (eng *Engine) Evaluate(buf []byte, m Machine) error {
	i := 0
	line := 0
	for {
		for i < len(buf) && (isSpace(buf[i]) || isLineEnd(buf[i])) {
			if buf[i] == '\n' {
				line += 1
			}
			i += 1
		}
		if i >= len(buf) {
			return nil
		}

		if upcaseByte(buf[i]) != 'G' {
			i = skipLine(buf, i)
			continue
		}
		i += 1

		code, n := ParseCode(buf[i:])
		i += n
		f, n := ParseFields(buf[i:])
		i += n

		pos := eng.curPos
		var err error
		switch eng.Move(code, f, &pos) {
		case Extrusion:
			err = m.ExtrudeTo(eng.ToAbsolutePosition(eng.curPos), eng.ToAbsolutePosition(pos))
		case Travel:
			err = m.TravelTo(eng.ToAbsolutePosition(pos))
		}
		if err != nil {
			return fmt.Errorf("line %d: G%d: %w", line+1, code, err)
		}
		eng.SetPosition(pos)

		i = skipLine(buf, i)
	}
}
