package osc

import (
	"encoding/binary"
	"time"
)

const (
	// Immediately is the reserved time tag meaning "execute immediately":
	// 63 zero bits followed by a one.
	Immediately Timetag = 1

	secondsFrom1900To1970 = 2208988800
)

// Timetag represents an OSC Time Tag.
// An OSC Time Tag is defined as follows:
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
type Timetag uint64

// NewImmediateTimetag returns the Immediately time tag.
func NewImmediateTimetag() Timetag {
	return Immediately
}

// NewTimetag returns a time tag for the current time.
func NewTimetag() Timetag {
	return NewTimetagFromTime(time.Now())
}

// NewTimetagFromTime returns a new OSC time tag object from a time.Time.
func NewTimetagFromTime(timeStamp time.Time) Timetag {
	return Timetag(timeToTimetag(timeStamp))
}

// Time returns the time.
func (t Timetag) Time() time.Time {
	return timetagToTime(t)
}

// FractionalSecond returns the last 32 bits of the OSC time tag. Specifies the
// fractional part of a second.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// SecondsSinceEpoch returns the first 32 bits (the number of seconds since the
// midnight 1900) from the OSC time tag.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// TimeTag returns the time tag value
func (t Timetag) TimeTag() uint64 {
	return uint64(t)
}

// MarshalBinary converts the OSC time tag to a byte array.
func (t Timetag) MarshalBinary() (b []byte, err error) {
	b = make([]byte, bit64Size)
	binary.BigEndian.PutUint64(b, uint64(t))
	return
}

// SetTime sets the value of the OSC time tag.
func (t *Timetag) SetTime(time time.Time) {
	*t = Timetag(timeToTimetag(time))
}

// ExpiresIn calculates the duration until the current time is the same as
// the value of the time tag. It returns zero if the time tag is in the past
// or is Immediately.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= Immediately {
		return 0
	}

	seconds := time.Until(timetagToTime(t))
	if seconds <= 0 {
		return 0
	}

	return seconds
}

// timeToTimetag converts the given time to an OSC time tag.
func timeToTimetag(t time.Time) (timetag uint64) {
	timetag = uint64(secondsFrom1900To1970+t.Unix()) << 32
	return timetag + (uint64(t.Nanosecond())<<32)/uint64(time.Second)
}

// timetagToTime converts the given timetag to a time object. The fraction is
// rounded up to whole nanoseconds, so a time.Time survives the trip through
// timeToTimetag and back unchanged.
func timetagToTime(timetag Timetag) (t time.Time) {
	frac := uint64(timetag & 0xffffffff)
	nsec := (frac*uint64(time.Second) + (1<<32 - 1)) >> 32
	return time.Unix(int64(timetag>>32)-secondsFrom1900To1970, int64(nsec))
}
