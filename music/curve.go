package music

// CurveType selects a response curve shaping normalized touch input
type CurveType int

const (
	CurveLinear CurveType = iota
	CurveExponential
	CurveLogarithmic
	CurveSCurve
)

// CurveFromString parses a curve name; unknown names fall back to linear
func CurveFromString(s string) CurveType {
	switch s {
	case "exponential":
		return CurveExponential
	case "logarithmic":
		return CurveLogarithmic
	case "s_curve":
		return CurveSCurve
	}
	return CurveLinear
}

func (c CurveType) String() string {
	switch c {
	case CurveExponential:
		return "exponential"
	case CurveLogarithmic:
		return "logarithmic"
	case CurveSCurve:
		return "s_curve"
	}
	return "linear"
}

// ApplyCurve maps x in [0,1] to [0,1]. Inputs outside [0,1] are clamped first.
func ApplyCurve(x float32, curve CurveType) float32 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}

	switch curve {
	case CurveExponential:
		// x^3: light taps stay low, hard presses jump
		return x * x * x
	case CurveLogarithmic:
		// 1-(1-x)^3: sensitive at low pressures
		inv := 1 - x
		return 1 - inv*inv*inv
	case CurveSCurve:
		// smoothstep 3x^2-2x^3: gentle at extremes, steep in the middle
		return x * x * (3 - 2*x)
	}
	return x
}

// Velocity converts curved pressure to a note-on velocity. Zero is disallowed
// on the wire (it means note-off), so the result is clamped to 1-127.
func Velocity(z float32, curve CurveType) uint8 {
	v := int(ApplyCurve(z, curve) * 127)
	if v < 1 {
		v = 1
	} else if v > 127 {
		v = 127
	}
	return uint8(v)
}

// Pressure converts curved pressure to a channel-pressure value, 0-127.
func Pressure(z float32, curve CurveType) uint8 {
	v := int(ApplyCurve(z, curve) * 127)
	if v < 0 {
		v = 0
	} else if v > 127 {
		v = 127
	}
	return uint8(v)
}
