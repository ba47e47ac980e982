package osc

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Impulse is the zero-width 'I' argument, also known as infinitum or bang.
type Impulse struct{}

// Symbol is an alternate string representation carried with tag 'S'. It is
// encoded exactly like a string.
type Symbol string

// Char is a single character carried with tag 'c'. The wire format is a
// 32-bit value, but only codepoints up to U+00FF can be encoded.
type Char rune

// MIDI is a 4-byte MIDI event carried with tag 'm': port ID, status byte
// and two data bytes, in wire order.
type MIDI struct {
	Port   byte
	Status byte
	Data1  byte
	Data2  byte
}

// RGBA is a 32-bit color argument carried with tag 'r'. Alpha is expressed
// in [0, 1] and scaled to a byte on the wire.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Argument pairs a value with its wire type tag. Decoding with
// Options.Metadata yields Arguments instead of bare values, and either form
// is accepted when marshaling. An Argument whose tag is outside the
// supported set must carry a nil Value and encodes as the bare tag, which
// is how lenient decoding round-trips tags it does not understand.
type Argument struct {
	Tag   TypeTag
	Value interface{}
}

// Int converts any integer to the narrowest OSC integer argument: int32
// when the value fits, int64 otherwise.
func Int[T constraints.Integer](v T) interface{} {
	n := int64(v)
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return int32(n)
	}
	return n
}

// Float converts any float to an OSC float32 argument. Use float64 directly
// for the 'd' tag.
func Float[T constraints.Float](v T) interface{} {
	return float32(v)
}
