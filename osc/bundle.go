package osc

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"
)

const (
	bundleTagString = "#bundle"

	// "#bundle\x00" followed by the time tag.
	bundleHeaderSize = 8 + bit64Size
)

var bundleTag = []byte(bundleTagString + "\x00")

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

func (b *Bundle) packet() {}

// NewBundle returns an empty OSC Bundle stamped with the current time.
func NewBundle() *Bundle {
	return &Bundle{Timetag: NewTimetag()}
}

// NewBundleWithTime returns an empty OSC Bundle to be executed at time.
func NewBundleWithTime(time time.Time) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(time)}
}

// NewBundleWithTimetag returns a bundle holding elems with the time tag tt.
func NewBundleWithTimetag(tt Timetag, elems ...Packet) *Bundle {
	return &Bundle{Timetag: tt, Elements: elems}
}

// NewBundleFromData returns a new OSC bundle created from the parsed data.
func NewBundleFromData(data []byte) (b *Bundle, err error) {
	b = &Bundle{}
	if err = b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return newError(KindBadPacket, "unsupported OSC packet type %T: only Bundle and Message are supported", pck)

	case *Bundle:
		if t == nil {
			return newError(KindBadPacket, "nil bundle")
		}
	case *Message:
		if t == nil {
			return newError(KindBadPacket, "nil message")
		}
	}
	b.Elements = append(b.Elements, pck)
	return nil
}

// MarshalBinary serializes the OSC bundle to a byte array with the following
// format:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) MarshalBinary() ([]byte, error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err := b.LightMarshalBinary(data); err != nil {
		return nil, err
	}
	return append([]byte(nil), data.Bytes()...), nil
}

// LightMarshalBinary appends the encoded bundle to data. On error, data may
// hold a partial encoding.
func (b *Bundle) LightMarshalBinary(data *bytes.Buffer) error {
	return b.marshal(data, 1)
}

func (b *Bundle) marshal(data *bytes.Buffer, depth int) error {
	if depth > DefaultMaxDepth {
		return newError(KindBadBundle, "bundles nested deeper than %d", DefaultMaxDepth)
	}

	data.Write(bundleTag)
	writeUint64(uint64(b.Timetag), data)

	elem := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(elem)

	for i, p := range b.Elements {
		elem.Reset()

		var err error
		switch t := p.(type) {
		case *Message:
			if t == nil {
				err = newError(KindBadPacket, "nil message")
				break
			}
			err = t.LightMarshalBinary(elem)
		case *Bundle:
			if t == nil {
				err = newError(KindBadPacket, "nil bundle")
				break
			}
			err = t.marshal(elem, depth+1)
		default:
			err = newError(KindBadPacket, "unsupported OSC packet type %T", p)
		}
		if err != nil {
			return errors.Wrapf(err, "bundle element %d", i)
		}

		if elem.Len() > math.MaxInt32 {
			return newError(KindBadBundle, "element %d too large: %d bytes", i, elem.Len())
		}
		writeUint32(uint32(elem.Len()), data)
		data.Write(elem.Bytes())
	}

	return nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	return defaultDecoder.parseBundle(b, data, 0)
}

// parseBundle decodes data into b. depth is the number of bundles enclosing
// this one.
func (d *Decoder) parseBundle(b *Bundle, data []byte, depth int) error {
	if depth >= d.maxDepth {
		return newError(KindBadBundle, "bundles nested deeper than %d", d.maxDepth)
	}

	// Read the '#bundle' OSC string
	if len(data) < len(bundleTag) || !bytes.Equal(data[:len(bundleTag)], bundleTag) {
		return newError(KindBadBundle, "missing %q marker", bundleTagString)
	}
	if len(data) < bundleHeaderSize {
		return newError(KindBadBundle, "truncated time tag")
	}

	tt := Timetag(binary.BigEndian.Uint64(data[len(bundleTag):]))
	data = data[bundleHeaderSize:]

	var elems []Packet
	// Read until the end of the buffer
	for i := 0; len(data) > 0; i++ {
		if len(data) < bit32Size {
			return newError(KindBadBundle, "%d trailing bytes after element %d", len(data), i-1)
		}

		// Read the size of the bundle element
		length := int32(binary.BigEndian.Uint32(data))
		data = data[bit32Size:]
		if length < 0 {
			return newError(KindBadBundle, "element %d has negative size %d", i, length)
		}
		if int(length) > len(data) {
			return newError(KindBadBundle, "element %d size %d exceeds remaining %d bytes", i, length, len(data))
		}

		p, err := d.parse(data[:length], depth+1)
		if err != nil {
			return errors.Wrapf(err, "bundle element %d", i)
		}
		elems = append(elems, p)
		data = data[length:]
	}

	b.Timetag = tt
	b.Elements = elems
	return nil
}
