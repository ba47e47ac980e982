package osc

import (
	"fmt"
	"math"
)

type TypeTag rune

const (
	TypeInt32   TypeTag = 'i'
	TypeInt64   TypeTag = 'h'
	TypeFloat32 TypeTag = 'f'
	TypeFloat64 TypeTag = 'd'
	TypeString  TypeTag = 's'
	TypeSymbol  TypeTag = 'S'
	TypeBlob    TypeTag = 'b'
	TypeChar    TypeTag = 'c'
	TypeMIDI    TypeTag = 'm'
	TypeRGBA    TypeTag = 'r'
	TypeTimeTag TypeTag = 't'
	TypeTrue    TypeTag = 'T'
	TypeFalse   TypeTag = 'F'
	TypeNil     TypeTag = 'N'
	TypeImpulse TypeTag = 'I'
	TypeInvalid TypeTag = 0
)

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument type is unsupported.
func ToTypeTag(arg interface{}) TypeTag {
	switch t := arg.(type) {
	case bool:
		if t {
			return TypeTrue
		}
		return TypeFalse
	case nil:
		return TypeNil
	case int32:
		return TypeInt32
	case float32:
		return TypeFloat32
	case string:
		return TypeString
	case []byte:
		return TypeBlob
	case int64:
		return TypeInt64
	case float64:
		return TypeFloat64
	case int:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			return TypeInt32
		}
		return TypeInt64
	case uint:
		if t <= math.MaxInt32 {
			return TypeInt32
		}
		return TypeInt64
	case uint64:
		return TypeInt64
	case Timetag:
		return TypeTimeTag
	case Symbol:
		return TypeSymbol
	case Char:
		return TypeChar
	case MIDI:
		return TypeMIDI
	case RGBA:
		return TypeRGBA
	case Impulse:
		return TypeImpulse
	case Argument:
		if t.Tag == 0 {
			return ToTypeTag(t.Value)
		}
		return t.Tag
	default:
		return TypeInvalid
	}
}

// zeroWidth reports whether the tag carries no payload bytes.
func (t TypeTag) zeroWidth() bool {
	switch t {
	case TypeTrue, TypeFalse, TypeNil, TypeImpulse:
		return true
	}
	return false
}

// known reports whether the tag belongs to the supported set.
func (t TypeTag) known() bool {
	switch t {
	case TypeInt32, TypeInt64, TypeFloat32, TypeFloat64, TypeString,
		TypeSymbol, TypeBlob, TypeChar, TypeMIDI, TypeRGBA, TypeTimeTag,
		TypeTrue, TypeFalse, TypeNil, TypeImpulse:
		return true
	}
	return false
}

// GetTypeTag returns the OSC type tag string for the given argument slice,
// including the leading comma.
func GetTypeTag(args []interface{}) (string, error) {
	tags := make([]byte, 0, len(args)+1)
	tags = append(tags, ',')
	for _, arg := range args {
		t := ToTypeTag(arg)
		if t == TypeInvalid {
			return "", fmt.Errorf("GetTypeTag: %w: %T", ErrUnsupportedArgument, arg)
		}
		tags = append(tags, byte(t))
	}
	return string(tags), nil
}
