package erae

import (
	"bytes"
	"testing"
)

func TestBitized7Size(t *testing.T) {
	cases := []struct {
		raw, encoded int
	}{
		{0, 0},
		{1, 2},
		{6, 7},
		{7, 8},
		{8, 10},
		{12, 14},
		{14, 16},
		{21, 24},
	}
	for _, c := range cases {
		if got := Bitized7Size(c.raw); got != c.encoded {
			t.Errorf("Bitized7Size(%d) = %d, want %d", c.raw, got, c.encoded)
		}
		if got := Unbitized7Size(c.encoded); got != c.raw {
			t.Errorf("Unbitized7Size(%d) = %d, want %d", c.encoded, got, c.raw)
		}
	}
}

func TestBitize7RoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xFF},
		{0x80, 0x7F, 0x01},
		{0, 1, 2, 3, 4, 5, 6},
		{0, 1, 2, 3, 4, 5, 6, 7},
		bytes.Repeat([]byte{0x00}, 12),
		bytes.Repeat([]byte{0xFF}, 12),
		{0xF0, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF7, 0x00, 0x81, 0x7E},
	}
	for _, raw := range cases {
		enc := Bitize7(raw)
		if len(enc) != Bitized7Size(len(raw)) {
			t.Errorf("Bitize7(%x): len %d, want %d", raw, len(enc), Bitized7Size(len(raw)))
		}
		for i, b := range enc {
			if b&0x80 != 0 {
				t.Errorf("Bitize7(%x): byte %d has high bit set", raw, i)
			}
		}
		dec := Unbitize7(enc)
		if !bytes.Equal(dec, raw) {
			t.Errorf("round trip of %x gave %x", raw, dec)
		}
	}
}

func TestBitize7Checksum(t *testing.T) {
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0xFF, 0x12, 0x34}
	enc := Bitize7Checksum(raw)
	run, chk := enc[:len(enc)-1], enc[len(enc)-1]
	if chk != Checksum(run) {
		t.Errorf("trailing byte %#02x, want %#02x", chk, Checksum(run))
	}
	if Checksum(enc) != 0 {
		t.Error("checksum over run plus trailer should cancel to zero")
	}
	if !bytes.Equal(Unbitize7(run), raw) {
		t.Error("run before the trailer should still decode")
	}
}

func TestEnableAPI(t *testing.T) {
	msg := EnableAPI()
	hdr := Header()
	if !bytes.HasPrefix(msg, hdr) {
		t.Fatalf("EnableAPI does not start with the command header: %x", msg)
	}
	want := append([]byte{CmdAPIModeEnable}, ReceiverPrefix...)
	if !bytes.Equal(msg[len(hdr):], want) {
		t.Errorf("EnableAPI body = %x, want %x", msg[len(hdr):], want)
	}
}

func TestParseBoundaryReply(t *testing.T) {
	br, ok := ParseBoundaryReply([]byte{NonFinger, ZoneBoundaryReply, 2, 42, 24})
	if !ok || br.Zone != 2 || br.Width != 42 || br.Height != 24 {
		t.Errorf("ParseBoundaryReply = %+v, %v", br, ok)
	}
	if _, ok := ParseBoundaryReply([]byte{0x00, 0x05}); ok {
		t.Error("finger report accepted as boundary reply")
	}
	if _, ok := ParseBoundaryReply([]byte{NonFinger, APIVersionReply, 1, 2, 3}); ok {
		t.Error("version reply accepted as boundary reply")
	}
}

func TestExtractReply(t *testing.T) {
	payload := []byte{0x00, 0x05, 0x42}
	msg := append(Header(), ReceiverPrefix...)
	msg = append(msg, payload...)

	got, ok := ExtractReply(msg)
	if !ok || !bytes.Equal(got, payload) {
		t.Fatalf("ExtractReply = %x, %v", got, ok)
	}

	framed := append([]byte{SysExStart}, msg...)
	framed = append(framed, SysExEnd)
	got, ok = ExtractReply(framed)
	if !ok || !bytes.Equal(got, payload) {
		t.Fatalf("ExtractReply(framed) = %x, %v", got, ok)
	}

	if _, ok := ExtractReply([]byte{0x7E, 0x00, 0x01}); ok {
		t.Error("accepted a message with the wrong header")
	}
	wrongPrefix := append(Header(), 0x04, 0x05, 0x06, 0x00)
	if _, ok := ExtractReply(wrongPrefix); ok {
		t.Error("accepted a message with the wrong receiver prefix")
	}
	if _, ok := ExtractReply(Header()); ok {
		t.Error("accepted a truncated message")
	}
}
