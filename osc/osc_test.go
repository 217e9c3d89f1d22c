package osc

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	s := ""
	for j := 0; j < i; j++ {
		s += zero
	}
	return s
}

// makePacket creates a fake Message Packet.
func makePacket(addr string, args []string) Packet {
	msg := NewMessage(addr)
	for _, arg := range args {
		msg.Append(arg)
	}
	return msg
}

type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

const immediateRaw = "\x00\x00\x00\x00\x00\x00\x00\x01"

var messageTestCases = []testCase{
	{
		name: "no_args",
		obj:  &Message{Address: "/a"},
		raw:  []byte("/a" + nulls(2) + "," + nulls(3)),
	},
	{
		name: "int32",
		obj:  NewMessage("/x", int32(1)),
		raw:  []byte("/x" + nulls(2) + ",i" + nulls(2) + "\x00\x00\x00\x01"),
	},
	{
		name: "strings",
		obj:  makePacket("/address/test", []string{"hello", "world!!"}),
		raw:  []byte("/address/test" + nulls(3) + ",ss" + nulls(1) + "hello" + nulls(3) + "world!!" + nulls(1)),
	},
	{
		name: "blob_padding",
		obj:  NewMessage("/b", []byte{1, 2, 3, 4, 5}),
		raw:  []byte("/b" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x05\x01\x02\x03\x04\x05" + nulls(3)),
	},
	{
		name: "empty_blob",
		obj:  NewMessage("/b", []byte{}),
		raw:  []byte("/b" + nulls(2) + ",b" + nulls(2) + nulls(4)),
	},
	{
		name: "all_types",
		obj: NewMessage("/all",
			int32(-2),
			float32(0.5),
			"hello",
			[]byte{1, 2, 3},
			int64(1<<40),
			Immediately,
			float64(1),
			Char('A'),
			RGBA{1, 2, 3, 4},
			MIDI{Port: 0, Status: 0x90, Data1: 60, Data2: 127},
			true,
			false,
			nil,
			Infinitum{},
			[]interface{}{int32(7)},
		),
		raw: []byte("/all" + nulls(4) +
			",ifsbhtdcrmTFNI[i]" + nulls(2) +
			"\xff\xff\xff\xfe" +
			"\x3f\x00\x00\x00" +
			"hello" + nulls(3) +
			"\x00\x00\x00\x03\x01\x02\x03\x00" +
			"\x00\x00\x01\x00\x00\x00\x00\x00" +
			immediateRaw +
			"\x3f\xf0\x00\x00\x00\x00\x00\x00" +
			"\x00\x00\x00\x41" +
			"\x01\x02\x03\x04" +
			"\x00\x90\x3c\x7f" +
			"\x00\x00\x00\x07"),
	},
	{
		name: "nested_arrays",
		obj:  NewMessage("/arr", []interface{}{"a", []interface{}{true, int32(2)}}, []interface{}{}),
		raw:  []byte("/arr" + nulls(4) + ",[s[Ti]][]" + nulls(2) + "a" + nulls(3) + "\x00\x00\x00\x02"),
	},
}

var bundleTestCases = []testCase{
	{
		name: "empty",
		obj:  &Bundle{Timetag: Immediately},
		raw:  []byte("#bundle" + zero + immediateRaw),
	},
	{
		name: "one_message",
		obj:  NewBundleWithTimetag(Immediately, NewMessage("/x", int32(1))),
		raw: []byte("#bundle" + zero + immediateRaw +
			"\x00\x00\x00\x0c" + "/x" + nulls(2) + ",i" + nulls(2) + "\x00\x00\x00\x01"),
	},
	{
		name: "nested",
		obj: NewBundleWithTimetag(Timetag(2),
			&Message{Address: "/a"},
			NewBundleWithTimetag(Immediately, NewMessage("/x", int32(1))),
		),
		raw: []byte("#bundle" + zero + "\x00\x00\x00\x00\x00\x00\x00\x02" +
			"\x00\x00\x00\x08" + "/a" + nulls(2) + "," + nulls(3) +
			"\x00\x00\x00\x20" + "#bundle" + zero + immediateRaw +
			"\x00\x00\x00\x0c" + "/x" + nulls(2) + ",i" + nulls(2) + "\x00\x00\x00\x01"),
	},
}
