package midi

import "fmt"

// EventType identifies an outbound MIDI event
type EventType uint8

const (
	NoteOn EventType = iota
	NoteOff
	CC
	Pressure
	PitchBend
)

// Event is one outbound MIDI event as the engine computed it, kept for the
// monitor. Note doubles as the controller number for CC events; Value holds
// velocity, controller value, pressure, or the 14-bit bend.
type Event struct {
	Type    EventType
	Channel uint8
	Note    uint8
	Value   uint16
}

func (e Event) String() string {
	switch e.Type {
	case NoteOn:
		return fmt.Sprintf("note-on  ch=%-2d note=%-3d vel=%d", e.Channel+1, e.Note, e.Value)
	case NoteOff:
		return fmt.Sprintf("note-off ch=%-2d note=%d", e.Channel+1, e.Note)
	case CC:
		return fmt.Sprintf("cc       ch=%-2d cc=%-3d val=%d", e.Channel+1, e.Note, e.Value)
	case Pressure:
		return fmt.Sprintf("pressure ch=%-2d val=%d", e.Channel+1, e.Value)
	case PitchBend:
		return fmt.Sprintf("bend     ch=%-2d val=%d", e.Channel+1, e.Value)
	}
	return "unknown"
}
