package osc

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/constraints"
)

const (
	bit32Size = 4
	bit64Size = 8
)

var padding = [bit32Size]byte{}

////
// De/Encoding functions
////

// parseBlob parses an OSC blob from data. Padding bytes are consumed but not
// returned. The returned slice doesn't alias data.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, newError(KindBadArg, "blob: truncated length prefix")
	}
	blobLen := int32(binary.BigEndian.Uint32(data))
	if blobLen < 0 {
		return nil, 0, newError(KindBadArg, "blob: negative length %d", blobLen)
	}

	if int64(blobLen) > int64(len(data)-bit32Size) {
		return nil, 0, newError(KindBadArg, "blob: length %d exceeds remaining %d bytes", blobLen, len(data)-bit32Size)
	}
	n := bit32Size + int(blobLen)
	if align(n) > len(data) {
		return nil, 0, newError(KindBadArg, "blob: missing padding")
	}

	blob := make([]byte, blobLen)
	copy(blob, data[bit32Size:n])
	return blob, align(n), nil
}

// writeBlob writes data as an OSC blob into buf. If the length of data isn't
// 32-bit aligned, padding bytes will be added.
func writeBlob(data []byte, buf *bytes.Buffer) (int, error) {
	if len(data) > math.MaxInt32 {
		return 0, newError(KindBadArg, "blob: length %d exceeds int32", len(data))
	}
	var l [bit32Size]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(data)))
	buf.Write(l[:])
	buf.Write(data)

	n := bit32Size + len(data)
	buf.Write(padding[:padBytesNeeded(n)])
	return align(n), nil
}

// parsePaddedString reads a padded string from the given slice and returns
// the string and the number of bytes read, padding included.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, newError(KindBadString, "missing terminator")
	}
	if !utf8.Valid(data[:pos]) {
		return "", 0, &Error{Kind: KindStringError, Msg: "invalid utf-8 sequence"}
	}

	n := align(pos + 1)
	if n > len(data) {
		return "", 0, newError(KindBadString, "missing padding after terminator")
	}
	for _, c := range data[pos+1 : n] {
		if c != 0 {
			return "", 0, newError(KindBadString, "non-null padding byte %#x", c)
		}
	}

	return string(data[:pos]), n, nil
}

// writePaddedString writes a string with padding bytes to the buffer.
// Returns the number of written bytes.
func writePaddedString(str string, buf *bytes.Buffer) int {
	buf.WriteString(str)
	n := len(str) + 1
	buf.WriteByte(0)
	buf.Write(padding[:padBytesNeeded(n)])
	return align(n)
}

// checkString reports whether str can round-trip as an OSC string.
func checkString(str string) error {
	if i := strings.IndexByte(str, 0); i != -1 {
		return newError(KindBadString, "embedded null at offset %d", i)
	}
	if !utf8.ValidString(str) {
		return &Error{Kind: KindStringError, Msg: "invalid utf-8 sequence"}
	}
	return nil
}

func readUint32(data []byte) (uint32, error) {
	if len(data) < bit32Size {
		return 0, wrapError(KindRead, io.ErrUnexpectedEOF, "need %d bytes, have %d", bit32Size, len(data))
	}
	return binary.BigEndian.Uint32(data), nil
}

func readUint64(data []byte) (uint64, error) {
	if len(data) < bit64Size {
		return 0, wrapError(KindRead, io.ErrUnexpectedEOF, "need %d bytes, have %d", bit64Size, len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func writeUint32(v uint32, buf *bytes.Buffer) {
	var b [bit32Size]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(v uint64, buf *bytes.Buffer) {
	var b [bit64Size]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded[T constraints.Integer](elementLen T) T {
	return (4 - (elementLen % 4)) % 4
}

// align rounds n up to the next multiple of 4.
func align[T constraints.Integer](n T) T {
	return n + padBytesNeeded(n)
}
