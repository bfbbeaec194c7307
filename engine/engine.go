// Package engine turns decoded contact reports into musical output: note
// on/off, controllers, channel pressure and per-finger pitch bend, dispatched
// through one of five region behaviors.
package engine

import (
	"math"

	"go-erae/debug"
	"go-erae/erae"
	"go-erae/mpe"
	"go-erae/music"
)

// fingerState lives from Down to Up. The region and behavior are captured at
// Down and held for the finger's lifetime, so later layout edits don't
// reinterpret a finger mid-gesture.
type fingerState struct {
	id             uint64
	startX, startY float32
	x, y, z        float32
	region         *Region
	behavior       Behavior
}

type latchedNote struct {
	channel uint8
	note    uint8
}

// Engine owns all per-finger state. Not safe for concurrent use: reports and
// ReleaseAll must arrive on a single goroutine, because Down creates and Up
// destroys finger state.
type Engine struct {
	sink    Sink
	alloc   *mpe.Allocator
	fingers map[uint64]*fingerState
	latched map[string]latchedNote // region id -> sounding latched note
}

func New(sink Sink, alloc *mpe.Allocator) *Engine {
	return &Engine{
		sink:    sink,
		alloc:   alloc,
		fingers: make(map[uint64]*fingerState),
		latched: make(map[string]latchedNote),
	}
}

// ActiveFingers reports how many fingers currently have live state.
func (e *Engine) ActiveFingers() int { return len(e.fingers) }

// Allocator exposes the channel pool for monitoring.
func (e *Engine) Allocator() *mpe.Allocator { return e.alloc }

// Handle dispatches one contact report. The region is only consulted on
// Down; Move and Up use the state captured when the finger landed. Reports
// for fingers with no live state are silently dropped, expected under
// transport hiccups, not an error.
func (e *Engine) Handle(r erae.ContactReport, region *Region) {
	var fs *fingerState

	switch r.Action {
	case erae.ActionDown:
		if region == nil || region.Behavior == nil {
			return
		}
		fs = &fingerState{
			id:       r.FingerID,
			startX:   r.X,
			startY:   r.Y,
			x:        r.X,
			y:        r.Y,
			z:        r.Z,
			region:   region,
			behavior: region.Behavior,
		}
		e.fingers[r.FingerID] = fs

	case erae.ActionMove, erae.ActionUp:
		var ok bool
		fs, ok = e.fingers[r.FingerID]
		if !ok {
			debug.LogEvery(64, "engine", "report for unknown finger %x dropped", r.FingerID)
			return
		}
		fs.x, fs.y, fs.z = r.X, r.Y, r.Z

	default:
		return
	}

	switch b := fs.behavior.(type) {
	case Trigger:
		e.handleTrigger(r.Action, fs, b)
	case Momentary:
		e.handleMomentary(r.Action, fs, b)
	case NotePad:
		e.handleNotePad(r.Action, fs, b)
	case XYController:
		e.handleXY(r.Action, fs, b)
	case Fader:
		e.handleFader(r.Action, fs, b)
	}

	if r.Action == erae.ActionUp {
		delete(e.fingers, r.FingerID)
	}
}

func (e *Engine) handleTrigger(action erae.Action, fs *fingerState, b Trigger) {
	switch action {
	case erae.ActionDown:
		if b.Latch {
			if ln, on := e.latched[fs.region.ID]; on {
				e.sink.NoteOff(ln.channel, ln.note)
				delete(e.latched, fs.region.ID)
			} else {
				e.sink.NoteOn(b.Channel, b.Note, e.velocity(b.Velocity, b.VelCurve, fs.z))
				e.latched[fs.region.ID] = latchedNote{channel: b.Channel, note: b.Note}
			}
			return
		}
		e.sink.NoteOn(b.Channel, b.Note, e.velocity(b.Velocity, b.VelCurve, fs.z))
	case erae.ActionUp:
		if !b.Latch {
			e.sink.NoteOff(b.Channel, b.Note)
		}
	}
}

func (e *Engine) handleMomentary(action erae.Action, fs *fingerState, b Momentary) {
	switch action {
	case erae.ActionDown:
		e.sink.NoteOn(b.Channel, b.Note, e.velocity(b.Velocity, b.VelCurve, fs.z))
	case erae.ActionMove:
		e.sink.ChannelPressure(b.Channel, music.Pressure(fs.z, b.PresCurve))
	case erae.ActionUp:
		e.sink.NoteOff(b.Channel, b.Note)
	}
}

func (e *Engine) handleNotePad(action erae.Action, fs *fingerState, b NotePad) {
	switch action {
	case erae.ActionDown:
		before := e.alloc.Steals()
		ch := e.alloc.Allocate(fs.id)
		if e.alloc.Steals() != before {
			debug.Log("mpe", "channel pool exhausted, stole channel %d for finger %x (steals=%d)",
				ch+1, fs.id, e.alloc.Steals())
		}
		_, ny := fs.region.BBox.Normalize(fs.x, fs.y)
		e.sink.PitchBend(ch, PitchBendCenter)
		e.sink.ControlChange(ch, b.SlideCC, value7(ny, 0, 127))
		e.sink.NoteOn(ch, b.Note, e.velocity(b.Velocity, b.VelCurve, fs.z))

	case erae.ActionMove:
		ch, ok := e.alloc.Channel(fs.id)
		if !ok {
			return // channel was stolen; the finger is orphaned until Up
		}
		if w := fs.region.BBox.Width(); w > 0 {
			dxNorm := (fs.x - fs.startX) / w
			pb := clampBend(PitchBendCenter + int(dxNorm*8191))
			if b.PitchQuantize {
				pb = music.QuantizePitchBend(pb, int(b.Note), b.RootNote, b.Scale, b.BendRange, b.GlideAmount)
			}
			e.sink.PitchBend(ch, uint16(pb))
		}
		_, ny := fs.region.BBox.Normalize(fs.x, fs.y)
		e.sink.ControlChange(ch, b.SlideCC, value7(ny, 0, 127))
		e.sink.ChannelPressure(ch, music.Pressure(fs.z, b.PresCurve))

	case erae.ActionUp:
		if ch, ok := e.alloc.Channel(fs.id); ok {
			e.sink.NoteOff(ch, b.Note)
			e.alloc.Release(fs.id)
		}
	}
}

func (e *Engine) handleXY(action erae.Action, fs *fingerState, b XYController) {
	if action != erae.ActionDown && action != erae.ActionMove {
		return
	}
	nx, ny := fs.region.BBox.Normalize(fs.x, fs.y)
	e.sendCC(b.Channel, b.CCX, nx, b.XMin, b.XMax, b.HighRes)
	e.sendCC(b.Channel, b.CCY, ny, b.YMin, b.YMax, b.HighRes)
}

func (e *Engine) handleFader(action erae.Action, fs *fingerState, b Fader) {
	if action != erae.ActionDown && action != erae.ActionMove {
		return
	}
	nx, ny := fs.region.BBox.Normalize(fs.x, fs.y)
	v := ny
	if b.Horizontal {
		v = nx
	}
	e.sendCC(b.Channel, b.CC, v, b.Min, b.Max, b.HighRes)
}

// ReleaseAll terminates every live finger per its behavior's up semantics,
// silences latched notes, and frees the whole channel pool. Run it between
// dispatch cycles; it is the panic / shutdown / reconfigure path.
func (e *Engine) ReleaseAll() {
	for id, fs := range e.fingers {
		switch b := fs.behavior.(type) {
		case Trigger:
			if !b.Latch {
				e.sink.NoteOff(b.Channel, b.Note)
			}
		case Momentary:
			e.sink.NoteOff(b.Channel, b.Note)
		case NotePad:
			if ch, ok := e.alloc.Channel(id); ok {
				e.sink.NoteOff(ch, b.Note)
			}
		}
	}
	for _, ln := range e.latched {
		e.sink.NoteOff(ln.channel, ln.note)
	}
	e.fingers = make(map[uint64]*fingerState)
	e.latched = make(map[string]latchedNote)
	e.alloc.ReleaseAll()
}

func (e *Engine) velocity(fixed int, curve music.CurveType, z float32) uint8 {
	if fixed >= 0 {
		if fixed < 1 {
			fixed = 1 // zero velocity means note-off on the wire
		}
		return uint8(fixed)
	}
	return music.Velocity(z, curve)
}

// sendCC emits one controller value, as a single 7-bit CC or a 14-bit
// MSB/LSB pair on CC n and CC n+32.
func (e *Engine) sendCC(channel, cc uint8, v float32, min, max int, highRes bool) {
	if !highRes {
		e.sink.ControlChange(channel, cc, value7(v, min, max))
		return
	}
	lo := min << 7
	hi := max<<7 | 0x7F
	val := int(math.Round(float64(lo) + float64(v)*float64(hi-lo)))
	if val < 0 {
		val = 0
	} else if val > 16383 {
		val = 16383
	}
	e.sink.ControlChange(channel, cc, uint8(val>>7))
	e.sink.ControlChange(channel, cc+32, uint8(val&0x7F))
}

// value7 affinely maps v in [0,1] into [min,max], rounding half away from
// zero (0.5 in a 0-127 range lands on 64).
func value7(v float32, min, max int) uint8 {
	val := int(math.Round(float64(min) + float64(v)*float64(max-min)))
	if val < 0 {
		val = 0
	} else if val > 127 {
		val = 127
	}
	return uint8(val)
}

func clampBend(pb int) int {
	if pb < 0 {
		return 0
	}
	if pb > 16383 {
		return 16383
	}
	return pb
}
