package osc

import (
	"bytes"
	"errors"
	"io"
	"math"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArguments_RoundTrip(t *testing.T) {
	for _, arg := range []interface{}{
		int32(math.MinInt32),
		int32(math.MaxInt32),
		float32(-1.25),
		float32(math.Inf(1)),
		"",
		"abc",
		"abcd",
		"ünïcödé",
		[]byte{},
		[]byte{0, 1, 2},
		int64(math.MinInt64),
		Timetag(0xdeadbeef00000001),
		math.MaxFloat64,
		Char(0),
		Char('~'),
		RGBA{R: 255, A: 128},
		MIDI{Port: 1, Status: 0xb0, Data1: 7, Data2: 100},
		true,
		false,
		nil,
		Infinitum{},
		[]interface{}{},
		[]interface{}{int32(1), []interface{}{"x", nil}, Infinitum{}},
	} {
		buf := new(bytes.Buffer)
		if err := writeArguments([]interface{}{arg}, buf); err != nil {
			t.Fatalf("writeArguments(%#v) error = %v", arg, err)
		}
		if buf.Len()%4 != 0 {
			t.Errorf("writeArguments(%#v) wrote %d bytes, not 32-bit aligned", arg, buf.Len())
		}

		got, n, err := parseArguments(buf.Bytes())
		if err != nil {
			t.Fatalf("parseArguments(%#v) error = %v", arg, err)
		}
		if n != buf.Len() {
			t.Errorf("parseArguments(%#v) consumed %d of %d bytes", arg, n, buf.Len())
		}
		if diff := cmp.Diff([]interface{}{arg}, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestParseArguments_TypeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []interface{}
		err  error
	}{
		{"empty", "," + nulls(3), nil, nil},
		{"missing", "", nil, ErrBadMessage},
		{"no_comma_is_empty", "ii" + nulls(2) + "\x00\x00\x00\x01", nil, nil},
		{"empty_tag_string_is_empty", nulls(4), nil, nil},
		{"unknown_tag", ",z" + nulls(2), nil, ErrBadArg},
		{"symbol_unimplemented", ",S" + nulls(2) + "sym" + nulls(1), nil, ErrUnimplemented},
		{"declared_two_one_present", ",ii" + nulls(1) + "\x00\x00\x00\x01", nil, ErrRead},
		{"truncated_int64", ",h" + nulls(2) + "\x00\x00\x00\x01", nil, ErrRead},
		{"truncated_string", ",s" + nulls(2) + "abcd", nil, ErrBadString},
		{"bad_utf8", ",s" + nulls(2) + "\xc3\x28" + nulls(2), nil, ErrStringError},
		{"negative_blob", ",b" + nulls(2) + "\xff\xff\xff\xfc", nil, ErrBadArg},
		{"non_ascii_char", ",c" + nulls(2) + "\x00\x00\x00\x80", nil, ErrBadArg},
		{"stray_array_end", ",]" + nulls(2), nil, ErrBadMessage},
		{"unclosed_array", ",[i" + nulls(1) + "\x00\x00\x00\x01", nil, ErrBadMessage},
		{"truncated_rgba", ",r" + nulls(2) + "\x01\x02", nil, ErrRead},
		{"bools_take_no_bytes", ",TFNI" + nulls(3), []interface{}{true, false, nil, Infinitum{}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := parseArguments([]byte(tt.raw))
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("parseArguments() error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArguments() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseArguments() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArguments_ReadErrorUnwrapsEOF(t *testing.T) {
	_, _, err := parseArguments([]byte(",i" + nulls(2)))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("parseArguments() error = %v, want it to wrap %v", err, io.ErrUnexpectedEOF)
	}
}

func TestParseArguments_DeepArrays(t *testing.T) {
	tags := "," + string(bytes.Repeat([]byte{'['}, maxArrayDepth+1)) + string(bytes.Repeat([]byte{']'}, maxArrayDepth+1))
	buf := new(bytes.Buffer)
	writePaddedString(tags, buf)
	if _, _, err := parseArguments(buf.Bytes()); !errors.Is(err, ErrBadMessage) {
		t.Errorf("parseArguments() error = %v, want %v", err, ErrBadMessage)
	}
}

func TestParseArguments_ManyArraysAllocateLinearly(t *testing.T) {
	decode := func(k int) uint64 {
		buf := new(bytes.Buffer)
		writePaddedString(","+strings.Repeat("[]", k), buf)

		var before, after runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&before)
		args, _, err := parseArguments(buf.Bytes())
		runtime.ReadMemStats(&after)
		if err != nil {
			t.Fatalf("parseArguments(%d arrays) error = %v", k, err)
		}
		if len(args) != k {
			t.Fatalf("parseArguments() returned %d arguments, want %d", len(args), k)
		}
		return after.TotalAlloc - before.TotalAlloc
	}

	small, large := decode(1000), decode(8000)
	if large > 16*small {
		t.Errorf("8x the arrays allocated %d bytes, %d bytes for 1x: not linear", large, small)
	}
	if per := large / 8000; per > 256 {
		t.Errorf("%d bytes allocated per empty array", per)
	}
}

func TestWriteArguments_Invalid(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
		err  error
	}{
		{"int", 1, ErrBadArg},
		{"uint32", uint32(1), ErrBadArg},
		{"nested_invalid", []interface{}{int32(1), struct{}{}}, ErrBadArg},
		{"non_ascii_char", Char(200), ErrBadArg},
		{"null_in_string", "a\x00b", ErrBadString},
		{"bad_utf8", "\xff", ErrStringError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeArguments([]interface{}{tt.arg}, new(bytes.Buffer))
			if !errors.Is(err, tt.err) {
				t.Errorf("writeArguments() error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestGetTypeTag(t *testing.T) {
	tests := []struct {
		arg     interface{}
		want    string
		wantErr bool
	}{
		{int32(1), "i", false},
		{Char('x'), "c", false},
		{RGBA{}, "r", false},
		{MIDI{}, "m", false},
		{Infinitum{}, "I", false},
		{[]interface{}{int32(1), []interface{}{true}}, "[i[T]]", false},
		{uint8(1), "", true},
		{[]interface{}{uint8(1)}, "", true},
	}
	for _, tt := range tests {
		got, err := GetTypeTag(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("GetTypeTag(%#v) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("GetTypeTag(%#v) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestCheckTypeTag(t *testing.T) {
	if err := checkTypeTag('S'); KindOf(err) != KindUnimplemented {
		t.Errorf("checkTypeTag('S') = %v, want kind %v", err, KindUnimplemented)
	}
	if err := checkTypeTag('x'); KindOf(err) != KindBadArg {
		t.Errorf("checkTypeTag('x') = %v, want kind %v", err, KindBadArg)
	}
	for _, c := range []byte("ifsbhtdcrmTFNI[]") {
		if err := checkTypeTag(c); err != nil {
			t.Errorf("checkTypeTag(%q) = %v", c, err)
		}
	}
}
