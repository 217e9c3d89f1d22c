package osc

import "fmt"

type TypeTag rune

const (
	TypeString     TypeTag = 's'
	TypeInt32      TypeTag = 'i'
	TypeInt64      TypeTag = 'h'
	TypeFloat32    TypeTag = 'f'
	TypeFloat64    TypeTag = 'd'
	TypeBlob       TypeTag = 'b'
	TypeTimeTag    TypeTag = 't'
	TypeChar       TypeTag = 'c'
	TypeRGBA       TypeTag = 'r'
	TypeMIDI       TypeTag = 'm'
	TypeNil        TypeTag = 'N'
	TypeTrue       TypeTag = 'T'
	TypeFalse      TypeTag = 'F'
	TypeInfinitum  TypeTag = 'I'
	TypeArrayStart TypeTag = '['
	TypeArrayEnd   TypeTag = ']'
	TypeSymbol     TypeTag = 'S' // recognized, not supported
	TypeInvalid    TypeTag = 0
)

// Char is an OSC 'c' argument: a single ASCII character.
type Char byte

// RGBA is an OSC 'r' argument: a 32-bit RGBA color.
type RGBA struct {
	R, G, B, A uint8
}

// MIDI is an OSC 'm' argument: a 4-byte MIDI message. Bytes from MSB to LSB
// are port id, status byte, data1 and data2.
type MIDI struct {
	Port, Status, Data1, Data2 uint8
}

// Infinitum is the OSC 'I' argument. It carries no data.
type Infinitum struct{}

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument type is unsupported. Arrays
// ([]interface{}) report TypeArrayStart.
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
	case Timetag:
		return TypeTimeTag
	case Char:
		return TypeChar
	case RGBA:
		return TypeRGBA
	case MIDI:
		return TypeMIDI
	case Infinitum:
		return TypeInfinitum
	case []interface{}:
		return TypeArrayStart
	default:
		return TypeInvalid
	}
}

// GetTypeTag returns the OSC type tags for the given argument. For arrays
// this includes the enclosing brackets and the tags of every element.
func GetTypeTag(arg interface{}) (string, error) {
	tt, err := appendTypeTags(nil, arg)
	if err != nil {
		return "", err
	}
	return string(tt), nil
}

func appendTypeTags(tt []byte, arg interface{}) ([]byte, error) {
	tag := ToTypeTag(arg)
	switch tag {
	case TypeInvalid:
		return tt, newError(KindBadArg, "unsupported type: %T", arg)
	case TypeArrayStart:
		tt = append(tt, byte(TypeArrayStart))
		for _, elem := range arg.([]interface{}) {
			var err error
			if tt, err = appendTypeTags(tt, elem); err != nil {
				return tt, err
			}
		}
		return append(tt, byte(TypeArrayEnd)), nil
	}
	return append(tt, byte(tag)), nil
}

// checkTypeTag classifies a type tag character found while decoding. It
// returns an Unimplemented error for tags the protocol defines but this
// package does not support, and BadArg for everything else it doesn't know.
func checkTypeTag(c byte) error {
	switch TypeTag(c) {
	case TypeString, TypeInt32, TypeInt64, TypeFloat32, TypeFloat64, TypeBlob,
		TypeTimeTag, TypeChar, TypeRGBA, TypeMIDI, TypeNil, TypeTrue, TypeFalse,
		TypeInfinitum, TypeArrayStart, TypeArrayEnd:
		return nil
	case TypeSymbol:
		return &Error{Kind: KindUnimplemented, Msg: fmt.Sprintf("type tag %q", c)}
	default:
		return newError(KindBadArg, "unknown type tag %q", c)
	}
}
