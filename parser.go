package gcode

import (
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

// Value is an optional coordinate: Set distinguishes an absent field from a zero.
type Value struct {
	Num float64
	Set bool
}

// Or returns the value when it is set and def otherwise.
func (v Value) Or(def float64) float64 {
	if v.Set {
		return v.Num
	}
	return def
}

func (v Value) String() string {
	if !v.Set {
		return "-"
	}
	return fmt.Sprintf("%g", v.Num)
}

// Fields are the coordinate letters parsed from the argument region of a single command line.
type Fields struct {
	X, Y, Z, E Value
}

// HasAxis reports whether any of X, Y or Z is present.
func (f Fields) HasAxis() bool {
	return f.X.Set || f.Y.Set || f.Z.Set
}

// Empty reports whether no coordinate letter, including E, is present.
func (f Fields) Empty() bool {
	return !f.HasAxis() && !f.E.Set
}

func (f Fields) String() string {
	return fmt.Sprintf("{x: %s, y: %s, z: %s, e: %s}", f.X, f.Y, f.Z, f.E)
}

const commentByte = ';'

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isLineEnd(b byte) bool {
	return b == '\n' || b == '\r'
}

func upcaseByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// skipValue returns the offset of the first whitespace, line end, or comment at or after i.
func skipValue(b []byte, i int) int {
	for i < len(b) && !isSpace(b[i]) && !isLineEnd(b[i]) && b[i] != commentByte {
		i += 1
	}
	return i
}

// skipLine returns the offset of the line end at or after i.
func skipLine(b []byte, i int) int {
	for i < len(b) && !isLineEnd(b[i]) {
		i += 1
	}
	return i
}

// ParseCode parses the unsigned numeric code following a command letter. No digits is code 0.
func ParseCode(b []byte) (int, int) {
	code, n := strconv.ParseUint(b)
	return int(code), n
}

// ParseFields scans letter/value pairs until a comment, the end of the line, or the end of b.
// It returns the fields and the number of bytes consumed; it never fails. Malformed numbers
// parse as far as they are valid.
func ParseFields(b []byte) (Fields, int) {
	var f Fields
	i := 0
	for {
		for i < len(b) && isSpace(b[i]) {
			i += 1
		}
		if i >= len(b) || isLineEnd(b[i]) || b[i] == commentByte {
			return f, i
		}

		letter := upcaseByte(b[i])
		i += 1

		var v *Value
		switch letter {
		case 'X':
			v = &f.X
		case 'Y':
			v = &f.Y
		case 'Z':
			v = &f.Z
		case 'E':
			v = &f.E
		default:
			i = skipValue(b, i)
			continue
		}

		num, n := strconv.ParseFloat(b[i:])
		*v = Value{Num: num, Set: true}
		i += n
	}
}
