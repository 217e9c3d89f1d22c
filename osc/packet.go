package osc

import (
	"encoding"
)

// DefaultMaxDepth is the bundle nesting limit used by ParsePacket and by
// encoding.
const DefaultMaxDepth = 32

// Packet is the interface for Message and Bundle. No other types implement
// it.
type Packet interface {
	encoding.BinaryMarshaler
	packet()
}

// Decoder decodes OSC packets within configured limits. The zero value is
// not usable; use NewDecoder. A Decoder is immutable and safe for concurrent
// use.
type Decoder struct {
	maxDepth      int
	maxPacketSize int
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxDepth sets how deeply bundles may nest (default: DefaultMaxDepth).
// A value below 1 is ignored.
func WithMaxDepth(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxDepth = n
		}
	}
}

// WithMaxPacketSize rejects input longer than n bytes. Zero, the default,
// means no limit.
func WithMaxPacketSize(n int) DecoderOption {
	return func(d *Decoder) {
		if n >= 0 {
			d.maxPacketSize = n
		}
	}
}

// NewDecoder returns a Decoder configured by opts.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = NewDecoder()

// ParsePacket parses the given data and returns either a *Message or a
// *Bundle. The returned packet doesn't alias data.
func ParsePacket(data []byte) (Packet, error) {
	return defaultDecoder.Decode(data)
}

// Decode parses a top-level packet. It is the entry point for transports,
// after they have stripped any framing of their own.
func (d *Decoder) Decode(data []byte) (Packet, error) {
	if d.maxPacketSize > 0 && len(data) > d.maxPacketSize {
		return nil, newError(KindBadPacket, "packet of %d bytes exceeds limit of %d", len(data), d.maxPacketSize)
	}
	return d.parse(data, 0)
}

// parse dispatches on the first byte. depth is the number of enclosing
// bundles.
func (d *Decoder) parse(data []byte, depth int) (Packet, error) {
	if len(data) == 0 {
		return nil, newError(KindBadPacket, "empty packet")
	}

	switch data[0] {
	case '/':
		msg := &Message{}
		if err := msg.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return msg, nil

	case '#':
		b := &Bundle{}
		if err := d.parseBundle(b, data, depth); err != nil {
			return nil, err
		}
		return b, nil
	}

	return nil, newError(KindBadPacket, "unrecognized leading byte %q", data[0])
}

// Encode serializes p. The result length is always a multiple of 4.
func Encode(p Packet) ([]byte, error) {
	switch t := p.(type) {
	case *Message:
		if t == nil {
			return nil, newError(KindBadPacket, "nil message")
		}
	case *Bundle:
		if t == nil {
			return nil, newError(KindBadPacket, "nil bundle")
		}
	case nil:
		return nil, newError(KindBadPacket, "nil packet")
	}
	return p.MarshalBinary()
}
