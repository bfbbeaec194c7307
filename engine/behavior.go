package engine

import (
	"fmt"

	"go-erae/music"
)

// BehaviorType names how a region responds to touch
type BehaviorType int

const (
	BehaviorTrigger BehaviorType = iota
	BehaviorMomentary
	BehaviorNotePad
	BehaviorXYController
	BehaviorFader
)

func (t BehaviorType) String() string {
	switch t {
	case BehaviorMomentary:
		return "momentary"
	case BehaviorNotePad:
		return "note_pad"
	case BehaviorXYController:
		return "xy_controller"
	case BehaviorFader:
		return "fader"
	}
	return "trigger"
}

// Behavior is the per-region mapping policy. Each variant carries only the
// parameters it uses, with defaults applied and ranges validated when the
// region is configured, never at dispatch time.
type Behavior interface {
	Type() BehaviorType
}

// Trigger sends note-on at down and note-off at up. With Latch set, each
// down toggles the note instead and up is ignored.
type Trigger struct {
	Note     uint8
	Channel  uint8
	Velocity int // 0-127 fixed, or -1 to derive from pressure
	VelCurve music.CurveType
	Latch    bool
}

func (Trigger) Type() BehaviorType { return BehaviorTrigger }

// Momentary is Trigger plus channel pressure from Z while held.
type Momentary struct {
	Note      uint8
	Channel   uint8
	Velocity  int
	VelCurve  music.CurveType
	PresCurve music.CurveType
}

func (Momentary) Type() BehaviorType { return BehaviorMomentary }

// NotePad is the full expressive mode: per-finger MPE channel, pitch bend
// from X slide (optionally quantized to a scale), slide controller from Y,
// pressure from Z.
type NotePad struct {
	Note          uint8
	Velocity      int
	VelCurve      music.CurveType
	PresCurve     music.CurveType
	SlideCC       uint8
	Scale         music.ScaleType
	RootNote      int
	PitchQuantize bool
	GlideAmount   float32
	BendRange     int // semitones covered by full bend
}

func (NotePad) Type() BehaviorType { return BehaviorNotePad }

// XYController sends two controllers from the normalized X/Y position, each
// affinely mapped into its own [min,max] range.
type XYController struct {
	Channel    uint8
	CCX, CCY   uint8
	XMin, XMax int
	YMin, YMax int
	HighRes    bool // send 14-bit pairs (CC n + CC n+32)
}

func (XYController) Type() BehaviorType { return BehaviorXYController }

// Fader sends one controller from the position along a single axis.
type Fader struct {
	Channel    uint8
	CC         uint8
	Min, Max   int
	Horizontal bool
	HighRes    bool
}

func (Fader) Type() BehaviorType { return BehaviorFader }

// ParseBehavior builds a Behavior from a kind name and the loose parameter
// bag stored with the layout. Unknown keys are ignored; missing keys take
// the documented defaults; out-of-range values fail here so dispatch never
// has to revalidate.
func ParseBehavior(kind string, params map[string]any) (Behavior, error) {
	p := &paramBag{m: params}
	switch kind {
	case "", "trigger":
		b := Trigger{
			Note:     uint8(p.intIn("note", 60, 0, 127)),
			Channel:  uint8(p.intIn("channel", 0, 0, 15)),
			Velocity: p.intIn("velocity", -1, -1, 127),
			VelCurve: music.CurveFromString(p.str("velocity_curve", "linear")),
			Latch:    p.boolean("latch", false),
		}
		return b, p.err

	case "momentary":
		b := Momentary{
			Note:      uint8(p.intIn("note", 60, 0, 127)),
			Channel:   uint8(p.intIn("channel", 0, 0, 15)),
			Velocity:  p.intIn("velocity", -1, -1, 127),
			VelCurve:  music.CurveFromString(p.str("velocity_curve", "linear")),
			PresCurve: music.CurveFromString(p.str("pressure_curve", "linear")),
		}
		return b, p.err

	case "note_pad":
		b := NotePad{
			Note:          uint8(p.intIn("note", 60, 0, 127)),
			Velocity:      p.intIn("velocity", -1, -1, 127),
			VelCurve:      music.CurveFromString(p.str("velocity_curve", "linear")),
			PresCurve:     music.CurveFromString(p.str("pressure_curve", "linear")),
			SlideCC:       uint8(p.intIn("slide_cc", 74, 0, 127)),
			Scale:         music.ScaleFromString(p.str("scale", "chromatic")),
			RootNote:      p.intIn("root_note", 0, 0, 11),
			PitchQuantize: p.boolean("pitch_quantize", false),
			GlideAmount:   p.floatIn("glide_amount", 0, 0, 1),
			BendRange:     p.intIn("pitchbend_range", 48, 1, 96),
		}
		return b, p.err

	case "xy_controller":
		highres := p.boolean("highres", false)
		maxCC := 127
		if highres {
			maxCC = 31 // LSB pair lives at CC n+32
		}
		b := XYController{
			Channel: uint8(p.intIn("channel", 0, 0, 15)),
			CCX:     uint8(p.intIn("cc_x", 1, 0, maxCC)),
			CCY:     uint8(p.intIn("cc_y", 2, 0, maxCC)),
			XMin:    p.intIn("cc_x_min", 0, 0, 127),
			XMax:    p.intIn("cc_x_max", 127, 0, 127),
			YMin:    p.intIn("cc_y_min", 0, 0, 127),
			YMax:    p.intIn("cc_y_max", 127, 0, 127),
			HighRes: highres,
		}
		return b, p.err

	case "fader":
		highres := p.boolean("highres", false)
		maxCC := 127
		if highres {
			maxCC = 31
		}
		b := Fader{
			Channel:    uint8(p.intIn("channel", 0, 0, 15)),
			CC:         uint8(p.intIn("cc", 1, 0, maxCC)),
			Min:        p.intIn("cc_min", 0, 0, 127),
			Max:        p.intIn("cc_max", 127, 0, 127),
			Horizontal: p.boolean("horizontal", false),
			HighRes:    highres,
		}
		return b, p.err
	}
	return nil, fmt.Errorf("engine: unknown behavior %q", kind)
}

// paramBag reads JSON-ish parameter maps, remembering the first range error.
type paramBag struct {
	m   map[string]any
	err error
}

func (p *paramBag) lookup(key string) (any, bool) {
	v, ok := p.m[key]
	return v, ok
}

func (p *paramBag) intIn(key string, def, min, max int) int {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, ok := asInt(v)
	if !ok || n < min || n > max {
		p.fail(key, v)
		return def
	}
	return n
}

func (p *paramBag) floatIn(key string, def, min, max float32) float32 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	f, ok := asFloat(v)
	if !ok || f < min || f > max {
		p.fail(key, v)
		return def
	}
	return f
}

func (p *paramBag) boolean(key string, def bool) bool {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	p.fail(key, v)
	return def
}

func (p *paramBag) str(key, def string) string {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	p.fail(key, v)
	return def
}

func (p *paramBag) fail(key string, v any) {
	if p.err == nil {
		p.err = fmt.Errorf("engine: bad value %v for parameter %q", v, key)
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64: // encoding/json decodes numbers as float64
		return int(n), true
	case float32:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	}
	return 0, false
}
