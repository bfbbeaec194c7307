package engine

// Sink receives the musical output of the engine. Implementations forward to
// MIDI ports, OSC, CV, or test recorders; the engine only computes values.
type Sink interface {
	NoteOn(channel, note, velocity uint8)
	NoteOff(channel, note uint8)
	ControlChange(channel, controller, value uint8)
	ChannelPressure(channel, value uint8)
	PitchBend(channel uint8, value uint16) // 14-bit, centered at 8192
}

// PitchBendCenter is the no-bend value of the 14-bit pitch wheel.
const PitchBendCenter = 8192
