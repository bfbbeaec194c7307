package erae

import (
	"encoding/binary"
	"errors"
	"math"
)

// Action is what a finger did in a contact report
type Action uint8

const (
	ActionDown Action = 0
	ActionMove Action = 1
	ActionUp   Action = 2
)

func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	case ActionUp:
		return "up"
	}
	return "unknown"
}

// ContactReport is one decoded touch event from the finger stream.
type ContactReport struct {
	Action   Action
	Zone     uint8
	FingerID uint64
	X, Y, Z  float32
}

// ErrMalformedReport is returned when a finger report payload is truncated
// or an encoded run decodes short. The report is discarded; nothing else
// fails.
var ErrMalformedReport = errors.New("erae: malformed finger report")

const (
	fingerIDRawLen = 8
	xyzRawLen      = 12 // three little-endian float32s

	// MinReportLen is action + zone + both encoded runs. A trailing checksum
	// byte may follow; it is accepted without verification since transport
	// bit-errors are bounded downstream by value clamping anyway.
	MinReportLen = 2 + 10 + 14
)

// ParseReport decodes one contact report from a finger-stream payload (the
// reply bytes after the receiver prefix). Pure function, no state.
func ParseReport(payload []byte) (ContactReport, error) {
	var r ContactReport

	if len(payload) < 2 {
		return r, ErrMalformedReport
	}
	r.Action = Action(payload[0] & 0x07)
	r.Zone = payload[1]
	rest := payload[2:]

	fidLen := Bitized7Size(fingerIDRawLen)
	if len(rest) < fidLen {
		return r, ErrMalformedReport
	}
	fidRaw := Unbitize7(rest[:fidLen])
	if len(fidRaw) < fingerIDRawLen {
		return r, ErrMalformedReport
	}
	r.FingerID = binary.LittleEndian.Uint64(fidRaw[:fingerIDRawLen])
	rest = rest[fidLen:]

	xyzLen := Bitized7Size(xyzRawLen)
	if len(rest) < xyzLen {
		return r, ErrMalformedReport
	}
	xyzRaw := Unbitize7(rest[:xyzLen])
	if len(xyzRaw) < xyzRawLen {
		return r, ErrMalformedReport
	}
	r.X = math.Float32frombits(binary.LittleEndian.Uint32(xyzRaw[0:4]))
	r.Y = math.Float32frombits(binary.LittleEndian.Uint32(xyzRaw[4:8]))
	r.Z = math.Float32frombits(binary.LittleEndian.Uint32(xyzRaw[8:12]))

	return r, nil
}

// EncodeReport builds the wire payload for a contact report, including the
// trailing checksum byte the device appends. Used by tests and the fake
// device in the decode command.
func EncodeReport(r ContactReport) []byte {
	var fid [8]byte
	binary.LittleEndian.PutUint64(fid[:], r.FingerID)

	var xyz [12]byte
	binary.LittleEndian.PutUint32(xyz[0:4], math.Float32bits(r.X))
	binary.LittleEndian.PutUint32(xyz[4:8], math.Float32bits(r.Y))
	binary.LittleEndian.PutUint32(xyz[8:12], math.Float32bits(r.Z))

	out := make([]byte, 0, MinReportLen+1)
	out = append(out, byte(r.Action)&0x07, r.Zone)
	out = append(out, Bitize7(fid[:])...)
	out = append(out, Bitize7(xyz[:])...)
	out = append(out, Checksum(out[2:]))
	return out
}
