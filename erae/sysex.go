// Package erae speaks the Erae Touch SysEx API: message framing, the 7-bit
// transport-safe byte codec, and decoding of the finger stream.
package erae

// SysEx framing
const (
	SysExStart = 0xF0
	SysExEnd   = 0xF7
)

// Embodme / Erae II identifiers
var (
	ManufacturerID = []byte{0x00, 0x21, 0x50}
	HWFamily       = []byte{0x00, 0x01}
	Erae2Member    = []byte{0x00, 0x02}
	NetworkID      = []byte{0x01}
	Service        = []byte{0x01}
	API            = []byte{0x04}

	// ReceiverPrefix identifies replies meant for us
	ReceiverPrefix = []byte{0x01, 0x02, 0x03}
)

// Commands
const (
	CmdAPIModeEnable       = 0x01
	CmdAPIModeDisable      = 0x02
	CmdZoneBoundaryRequest = 0x10
	CmdAPIVersionRequest   = 0x7F
)

// Reply identifiers. A reply payload starting with NonFinger carries a
// boundary or version reply; anything else is a finger report.
const (
	NonFinger         = 0x7F
	ZoneBoundaryReply = 0x01
	APIVersionReply   = 0x02
)

// Header returns the Erae II command header (after the SysEx start byte).
func Header() []byte {
	h := make([]byte, 0, 10)
	h = append(h, ManufacturerID...)
	h = append(h, HWFamily...)
	h = append(h, Erae2Member...)
	h = append(h, NetworkID...)
	h = append(h, Service...)
	h = append(h, API...)
	return h
}

// BuildSysEx wraps a command payload with the header. The returned bytes
// exclude the F0/F7 framing, matching what gomidi's SysEx helper expects.
func BuildSysEx(payload []byte) []byte {
	hdr := Header()
	out := make([]byte, 0, len(hdr)+len(payload))
	out = append(out, hdr...)
	out = append(out, payload...)
	return out
}

// EnableAPI builds the command that switches the device into API mode and
// registers our receiver prefix for replies.
func EnableAPI() []byte {
	p := []byte{CmdAPIModeEnable}
	p = append(p, ReceiverPrefix...)
	return BuildSysEx(p)
}

// DisableAPI builds the command that returns the device to standalone mode.
func DisableAPI() []byte {
	return BuildSysEx([]byte{CmdAPIModeDisable})
}

// ZoneBoundaryRequest asks the device for the width/height of a zone.
func ZoneBoundaryRequest(zone uint8) []byte {
	return BuildSysEx([]byte{CmdZoneBoundaryRequest, zone})
}

// ExtractReply pulls the reply payload out of a SysEx message. The framing
// bytes are optional since gomidi strips F0/F7 before handing the data over.
// It returns false if the message is not an Erae API reply addressed to our
// receiver prefix.
func ExtractReply(msg []byte) ([]byte, bool) {
	body := msg
	if len(body) >= 2 && body[0] == SysExStart && body[len(body)-1] == SysExEnd {
		body = body[1 : len(body)-1]
	}

	hdr := Header()
	if len(body) < len(hdr)+len(ReceiverPrefix) {
		return nil, false
	}
	for i, b := range hdr {
		if body[i] != b {
			return nil, false
		}
	}
	body = body[len(hdr):]
	for i, b := range ReceiverPrefix {
		if body[i] != b {
			return nil, false
		}
	}
	return body[len(ReceiverPrefix):], true
}

// BoundaryReply answers a ZoneBoundaryRequest with the zone's size in grid
// cells.
type BoundaryReply struct {
	Zone, Width, Height uint8
}

// ParseBoundaryReply decodes a zone boundary answer from a non-finger reply
// payload.
func ParseBoundaryReply(payload []byte) (BoundaryReply, bool) {
	if len(payload) < 5 || payload[0] != NonFinger || payload[1] != ZoneBoundaryReply {
		return BoundaryReply{}, false
	}
	return BoundaryReply{Zone: payload[2], Width: payload[3], Height: payload[4]}, true
}

// Bitized7Size returns the encoded length of n raw bytes: one MSB-collector
// byte precedes each group of up to seven low-7-bit bytes, so n bytes become
// ceil(8n/7) transport-safe bytes.
func Bitized7Size(n int) int {
	size := (n / 7) * 8
	if rem := n % 7; rem > 0 {
		size += 1 + rem
	}
	return size
}

// Unbitized7Size is the inverse: how many raw bytes an encoded run yields.
func Unbitized7Size(n int) int {
	size := (n / 8) * 7
	if rem := n % 8; rem > 0 {
		size += rem - 1
	}
	return size
}

// Bitize7 encodes raw bytes so that no output byte has its top bit set. Each
// group of up to seven bytes is preceded by a collector byte holding their
// high bits.
func Bitize7(data []byte) []byte {
	out := make([]byte, 0, Bitized7Size(len(data)))
	for i := 0; i < len(data); i += 7 {
		chunk := data[i:]
		if len(chunk) > 7 {
			chunk = chunk[:7]
		}
		var msb byte
		for j, b := range chunk {
			msb |= (b & 0x80) >> (j + 1)
		}
		out = append(out, msb)
		for _, b := range chunk {
			out = append(out, b&0x7F)
		}
	}
	return out
}

// Bitize7Checksum encodes like Bitize7 and appends one XOR checksum byte
// covering the encoded run.
func Bitize7Checksum(data []byte) []byte {
	out := Bitize7(data)
	var chk byte
	for _, b := range out {
		chk ^= b
	}
	return append(out, chk)
}

// Unbitize7 decodes an encoded run back into raw bytes. Any trailing
// checksum byte must be stripped by the caller first.
func Unbitize7(bitized []byte) []byte {
	out := make([]byte, Unbitized7Size(len(bitized)))
	outIdx := 0
	for i := 0; i < len(bitized); i += 8 {
		for j := 0; j < 7; j++ {
			src := i + 1 + j
			if src >= len(bitized) || outIdx+j >= len(out) {
				break
			}
			out[outIdx+j] = ((bitized[i] << (j + 1)) & 0x80) | bitized[src]
		}
		outIdx += 7
	}
	return out
}

// Checksum returns the XOR of all bytes, the device's per-payload checksum.
func Checksum(data []byte) byte {
	var chk byte
	for _, b := range data {
		chk ^= b
	}
	return chk
}
