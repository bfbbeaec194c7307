package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-erae/debug"
)

// PortSink forwards engine output to a MIDI send function obtained from
// gomidi.SendTo. Send errors are logged, not surfaced: dropping one message
// beats stalling the dispatch loop.
type PortSink struct {
	send func(msg gomidi.Message) error
}

func NewPortSink(send func(msg gomidi.Message) error) *PortSink {
	return &PortSink{send: send}
}

func (s *PortSink) NoteOn(channel, note, velocity uint8) {
	s.emit(gomidi.NoteOn(channel, note, velocity))
}

func (s *PortSink) NoteOff(channel, note uint8) {
	s.emit(gomidi.NoteOff(channel, note))
}

func (s *PortSink) ControlChange(channel, controller, value uint8) {
	s.emit(gomidi.ControlChange(channel, controller, value))
}

func (s *PortSink) ChannelPressure(channel, value uint8) {
	s.emit(gomidi.AfterTouch(channel, value))
}

func (s *PortSink) PitchBend(channel uint8, value uint16) {
	s.emit(gomidi.Pitchbend(channel, int16(int(value)-8192)))
}

func (s *PortSink) emit(msg gomidi.Message) {
	if s.send == nil {
		return
	}
	if err := s.send(msg); err != nil {
		debug.LogEvery(32, "midi-out", "send failed: %v", err)
	}
}

// NullSink discards everything. Used when no output port is configured so
// the monitor still sees the computed events.
type NullSink struct{}

func (NullSink) NoteOn(channel, note, velocity uint8)         {}
func (NullSink) NoteOff(channel, note uint8)                  {}
func (NullSink) ControlChange(channel, controller, val uint8) {}
func (NullSink) ChannelPressure(channel, value uint8)         {}
func (NullSink) PitchBend(channel uint8, value uint16)        {}

// Sink matches engine.Sink without importing it, so the engine stays free
// of transport concerns.
type Sink interface {
	NoteOn(channel, note, velocity uint8)
	NoteOff(channel, note uint8)
	ControlChange(channel, controller, value uint8)
	ChannelPressure(channel, value uint8)
	PitchBend(channel uint8, value uint16)
}

// Monitor wraps a sink and mirrors every event onto a channel for the TUI.
// Mirroring never blocks; a slow consumer just misses events.
type Monitor struct {
	next   Sink
	events chan Event
}

func NewMonitor(next Sink) *Monitor {
	return &Monitor{next: next, events: make(chan Event, 64)}
}

// Events is drained by the TUI.
func (m *Monitor) Events() <-chan Event { return m.events }

func (m *Monitor) NoteOn(channel, note, velocity uint8) {
	m.next.NoteOn(channel, note, velocity)
	m.post(Event{Type: NoteOn, Channel: channel, Note: note, Value: uint16(velocity)})
}

func (m *Monitor) NoteOff(channel, note uint8) {
	m.next.NoteOff(channel, note)
	m.post(Event{Type: NoteOff, Channel: channel, Note: note})
}

func (m *Monitor) ControlChange(channel, controller, value uint8) {
	m.next.ControlChange(channel, controller, value)
	m.post(Event{Type: CC, Channel: channel, Note: controller, Value: uint16(value)})
}

func (m *Monitor) ChannelPressure(channel, value uint8) {
	m.next.ChannelPressure(channel, value)
	m.post(Event{Type: Pressure, Channel: channel, Value: uint16(value)})
}

func (m *Monitor) PitchBend(channel uint8, value uint16) {
	m.next.PitchBend(channel, value)
	m.post(Event{Type: PitchBend, Channel: channel, Value: value})
}

func (m *Monitor) post(e Event) {
	select {
	case m.events <- e:
	default:
	}
}
