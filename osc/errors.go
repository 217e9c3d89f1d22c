package osc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error.
type Kind uint8

const (
	KindStringError       Kind = iota + 1 // invalid UTF-8 in an OSC string
	KindRead                              // buffer exhausted while reading a fixed-width value
	KindBadPacket                         // unrecognized or truncated top-level packet
	KindBadMessage                        // missing address or type tag/argument mismatch
	KindBadString                         // missing or misaligned string terminator
	KindBadArg                            // value malformed for its declared type
	KindBadBundle                         // missing "#bundle" marker or bad element size
	KindBadAddressPattern                 // invalid address pattern syntax
	KindBadAddress                        // invalid address syntax
	KindRegex                             // pattern could not be compiled to a regexp
	KindUnimplemented                     // known but unsupported type tag
)

var kindText = map[Kind]string{
	KindStringError:       "reading OSC string as utf-8",
	KindRead:              "reading from buffer",
	KindBadPacket:         "bad OSC packet",
	KindBadMessage:        "bad OSC message",
	KindBadString:         "bad OSC string",
	KindBadArg:            "bad OSC argument",
	KindBadBundle:         "bad OSC bundle",
	KindBadAddressPattern: "bad OSC address pattern",
	KindBadAddress:        "bad OSC address",
	KindRegex:             "OSC address pattern regex error",
	KindUnimplemented:     "unimplemented",
}

func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is the error type returned by every decode, encode and pattern
// compilation function in this package.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinel errors, one per Kind. They match any *Error of the same Kind
// under errors.Is.
var (
	ErrStringError       = &Error{Kind: KindStringError}
	ErrRead              = &Error{Kind: KindRead}
	ErrBadPacket         = &Error{Kind: KindBadPacket}
	ErrBadMessage        = &Error{Kind: KindBadMessage}
	ErrBadString         = &Error{Kind: KindBadString}
	ErrBadArg            = &Error{Kind: KindBadArg}
	ErrBadBundle         = &Error{Kind: KindBadBundle}
	ErrBadAddressPattern = &Error{Kind: KindBadAddressPattern}
	ErrBadAddress        = &Error{Kind: KindBadAddress}
	ErrRegex             = &Error{Kind: KindRegex}
	ErrUnimplemented     = &Error{Kind: KindUnimplemented}
)

func (e *Error) Error() string {
	s := "osc: " + e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or 0 if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(k Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: err}
}
