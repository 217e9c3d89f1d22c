//go:build gofuzz
// +build gofuzz

package osc

// Fuzz is the go-fuzz entry point. Packets that decode must survive an
// encode/decode round trip.
func Fuzz(data []byte) int {
	p, err := ParsePacket(data)
	if err != nil {
		if KindOf(err) == 0 {
			panic("untyped error: " + err.Error())
		}
		return 0
	}

	b, err := Encode(p)
	if err != nil {
		panic("encoding a decoded packet: " + err.Error())
	}
	if _, err := ParsePacket(b); err != nil {
		panic("decoding a re-encoded packet: " + err.Error())
	}
	return 1
}
