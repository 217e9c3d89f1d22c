package osc

import (
	"bytes"
	"fmt"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
//
// A message without arguments always decodes with a nil Arguments slice,
// so an empty non-nil slice does not survive an encode/decode round trip
// under reflect.DeepEqual. Arrays inside the arguments decode as non-nil
// slices, even when empty.
type Message struct {
	Address   string
	Arguments []interface{}
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

func (m *Message) packet() {}

// Clear clears the OSC address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// NewMessageFromData decodes a Message from data.
func NewMessageFromData(data []byte) (msg *Message, err error) {
	msg = &Message{}
	if err = msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

// Append appends the given arguments to the arguments list. Nothing is
// appended if any of them has an unsupported type.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if _, err := GetTypeTag(a); err != nil {
			return err
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Match returns true, if the OSC address pattern of the OSC Message matches the given
// address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	matcher, err := Compile(m.Address)
	if err != nil {
		return false
	}
	return matcher.Match(addr)
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", newError(KindBadMessage, "message is nil")
	}

	tags := make([]byte, 0, len(m.Arguments)+1)
	tags = append(tags, ',')
	for _, arg := range m.Arguments {
		var err error
		if tags, err = appendTypeTags(tags, arg); err != nil {
			return "", err
		}
	}

	return string(tags), nil
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	strBuf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(strBuf)
	strBuf.Reset()

	strBuf.WriteString(m.Address)
	if len(tags) == 0 {
		return strBuf.String()
	}

	strBuf.WriteByte(' ')
	strBuf.WriteString(tags)
	writeArgumentStrings(m.Arguments, strBuf)

	return strBuf.String()
}

func writeArgumentStrings(args []interface{}, strBuf *bytes.Buffer) {
	for _, arg := range args {
		switch arg := arg.(type) {
		case bool, int32, int64, float32, float64, string:
			fmt.Fprintf(strBuf, " %v", arg)

		case nil:
			strBuf.WriteString(" Nil")

		case Infinitum:
			strBuf.WriteString(" Inf")

		case []byte:
			strBuf.WriteString(" blob")

		case Char:
			fmt.Fprintf(strBuf, " %q", rune(arg))

		case RGBA:
			fmt.Fprintf(strBuf, " #%02x%02x%02x%02x", arg.R, arg.G, arg.B, arg.A)

		case MIDI:
			fmt.Fprintf(strBuf, " midi(%d %#02x %d %d)", arg.Port, arg.Status, arg.Data1, arg.Data2)

		case Timetag:
			fmt.Fprintf(strBuf, " %d", arg.TimeTag())

		case []interface{}:
			strBuf.WriteString(" [")
			writeArgumentStrings(arg, strBuf)
			strBuf.WriteString(" ]")
		}
	}
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The
// result is the address, the type tag string and the argument payloads, and
// its length is always a multiple of 4.
func (m *Message) MarshalBinary() ([]byte, error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err := m.LightMarshalBinary(data); err != nil {
		return nil, err
	}
	return append([]byte(nil), data.Bytes()...), nil
}

// LightMarshalBinary appends the encoded message to data. On error, data may
// hold a partial encoding.
func (m *Message) LightMarshalBinary(data *bytes.Buffer) error {
	if err := checkMessageAddress(m.Address); err != nil {
		return err
	}
	writePaddedString(m.Address, data)
	return writeArguments(m.Arguments, data)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return newError(KindBadMessage, "missing address")
	}
	if data[0] != '/' {
		return newError(KindBadAddress, "address must start with '/', got %q", data[0])
	}

	// First, read the OSC address
	addr, n, err := parsePaddedString(data)
	if err != nil {
		return err
	}

	// Read all arguments
	args, an, err := parseArguments(data[n:])
	if err != nil {
		return err
	}
	if rest := len(data) - n - an; rest != 0 {
		return newError(KindBadMessage, "%d bytes after the last argument", rest)
	}

	m.Address = addr
	m.Arguments = args
	return nil
}

// checkMessageAddress is the encode-side address check. Messages carry
// address patterns, so wildcards are allowed here.
func checkMessageAddress(addr string) error {
	if !strings.HasPrefix(addr, "/") {
		return newError(KindBadAddress, "address %q must start with '/'", addr)
	}
	if strings.IndexByte(addr, 0) != -1 {
		return newError(KindBadAddress, "address %q contains a null byte", addr)
	}
	return checkString(addr)
}
