package osc

import (
	"bytes"
	"math"
)

// maxArrayDepth bounds '[' nesting inside a single type tag string.
const maxArrayDepth = 32

// parseArguments decodes the type tag string at the start of data and then
// every argument it declares, in order. It returns the arguments and the
// number of bytes consumed.
//
// A type tag string that doesn't start with ',' is read as an empty argument
// list and the rest of data is consumed unread; some older OSC senders don't
// write type tags. A message that ends right after its address is still an
// error, so that truncated input can't pass as valid.
func parseArguments(data []byte) ([]interface{}, int, error) {
	if len(data) == 0 {
		return nil, 0, newError(KindBadMessage, "missing type tag string")
	}

	typetags, n, err := parsePaddedString(data)
	if err != nil {
		return nil, 0, err
	}
	if len(typetags) == 0 || typetags[0] != ',' {
		return nil, len(data), nil
	}

	d := argDecoder{tags: typetags[1:], data: data[n:]}
	args, err := d.decode(0)
	if err != nil {
		return nil, 0, err
	}
	if len(args) == 0 {
		args = nil
	}
	return args, n + d.pos, nil
}

// argDecoder walks a type tag string and consumes the matching payload
// bytes positionally.
type argDecoder struct {
	tags string
	ti   int
	data []byte
	pos  int
}

func (d *argDecoder) decode(depth int) ([]interface{}, error) {
	// Only the outermost list is sized from the remaining tags. Nested
	// arrays grow as needed, which keeps allocation linear in the tags.
	var args []interface{}
	if depth == 0 {
		args = make([]interface{}, 0, len(d.tags)-d.ti)
	} else {
		args = []interface{}{}
	}
	for d.ti < len(d.tags) {
		c := d.tags[d.ti]
		d.ti++

		switch TypeTag(c) {
		case TypeArrayStart:
			if depth+1 > maxArrayDepth {
				return nil, newError(KindBadMessage, "arrays nested deeper than %d", maxArrayDepth)
			}
			arr, err := d.decode(depth + 1)
			if err != nil {
				return nil, err
			}
			args = append(args, arr)

		case TypeArrayEnd:
			if depth == 0 {
				return nil, newError(KindBadMessage, "unexpected ']' at type tag %d", d.ti)
			}
			return args, nil

		default:
			v, n, err := parseArgument(TypeTag(c), d.data[d.pos:])
			if err != nil {
				return nil, err
			}
			d.pos += n
			args = append(args, v)
		}
	}

	if depth > 0 {
		return nil, newError(KindBadMessage, "unterminated array in type tags")
	}
	return args, nil
}

// parseArgument decodes a single non-array argument of type tag from data.
func parseArgument(tag TypeTag, data []byte) (interface{}, int, error) {
	switch tag {
	case TypeInt32:
		v, err := readUint32(data)
		return int32(v), bit32Size, err

	case TypeInt64:
		v, err := readUint64(data)
		return int64(v), bit64Size, err

	case TypeFloat32:
		v, err := readUint32(data)
		return math.Float32frombits(v), bit32Size, err

	case TypeFloat64:
		v, err := readUint64(data)
		return math.Float64frombits(v), bit64Size, err

	case TypeTimeTag:
		v, err := readUint64(data)
		return Timetag(v), bit64Size, err

	case TypeString:
		return parsePaddedString(data)

	case TypeBlob:
		return parseBlob(data)

	case TypeChar:
		v, err := readUint32(data)
		if err != nil {
			return nil, 0, err
		}
		if v > math.MaxInt8 {
			return nil, 0, newError(KindBadArg, "char %#x is not ascii", v)
		}
		return Char(v), bit32Size, nil

	case TypeRGBA:
		if _, err := readUint32(data); err != nil {
			return nil, 0, err
		}
		return RGBA{R: data[0], G: data[1], B: data[2], A: data[3]}, bit32Size, nil

	case TypeMIDI:
		if _, err := readUint32(data); err != nil {
			return nil, 0, err
		}
		return MIDI{Port: data[0], Status: data[1], Data1: data[2], Data2: data[3]}, bit32Size, nil

	case TypeTrue:
		return true, 0, nil

	case TypeFalse:
		return false, 0, nil

	case TypeNil:
		return nil, 0, nil

	case TypeInfinitum:
		return Infinitum{}, 0, nil
	}

	return nil, 0, checkTypeTag(byte(tag))
}

// writeArguments writes the type tag string for args followed by their
// payloads.
func writeArguments(args []interface{}, buf *bytes.Buffer) error {
	typetags := make([]byte, 1, len(args)+1)
	typetags[0] = ','
	for _, arg := range args {
		var err error
		if typetags, err = appendTypeTags(typetags, arg); err != nil {
			return err
		}
	}
	writePaddedString(string(typetags), buf)

	for _, arg := range args {
		if err := writeArgument(arg, buf); err != nil {
			return err
		}
	}
	return nil
}

// writeArgument writes the payload of a single argument. Arguments carried
// entirely by their type tag write nothing.
func writeArgument(arg interface{}, buf *bytes.Buffer) error {
	switch t := arg.(type) {
	default:
		return newError(KindBadArg, "unsupported type: %T", t)

	case bool, nil, Infinitum:
		return nil

	case int32:
		writeUint32(uint32(t), buf)
	case float32:
		writeUint32(math.Float32bits(t), buf)
	case int64:
		writeUint64(uint64(t), buf)
	case float64:
		writeUint64(math.Float64bits(t), buf)
	case Timetag:
		writeUint64(uint64(t), buf)

	case Char:
		if t > math.MaxInt8 {
			return newError(KindBadArg, "char %#x is not ascii", byte(t))
		}
		writeUint32(uint32(t), buf)
	case RGBA:
		buf.Write([]byte{t.R, t.G, t.B, t.A})
	case MIDI:
		buf.Write([]byte{t.Port, t.Status, t.Data1, t.Data2})

	case string:
		if err := checkString(t); err != nil {
			return err
		}
		writePaddedString(t, buf)
	case []byte:
		if _, err := writeBlob(t, buf); err != nil {
			return err
		}

	case []interface{}:
		for _, elem := range t {
			if err := writeArgument(elem, buf); err != nil {
				return err
			}
		}
	}
	return nil
}
