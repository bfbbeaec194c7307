package music

import (
	"math"
	"testing"
)

func TestApplyCurveEndpoints(t *testing.T) {
	curves := []CurveType{CurveLinear, CurveExponential, CurveLogarithmic, CurveSCurve}
	for _, c := range curves {
		if got := ApplyCurve(0, c); got != 0 {
			t.Errorf("%s(0) = %v, want 0", c, got)
		}
		if got := ApplyCurve(1, c); got != 1 {
			t.Errorf("%s(1) = %v, want 1", c, got)
		}
		// Out-of-range inputs clamp to the endpoints.
		if got := ApplyCurve(-0.5, c); got != 0 {
			t.Errorf("%s(-0.5) = %v, want 0", c, got)
		}
		if got := ApplyCurve(1.5, c); got != 1 {
			t.Errorf("%s(1.5) = %v, want 1", c, got)
		}
	}
}

func TestApplyCurveShape(t *testing.T) {
	cases := []struct {
		curve CurveType
		x     float32
		want  float32
	}{
		{CurveLinear, 0.25, 0.25},
		{CurveExponential, 0.5, 0.125},
		{CurveLogarithmic, 0.5, 0.875},
		{CurveSCurve, 0.5, 0.5},
		{CurveSCurve, 0.25, 0.15625},
	}
	for _, c := range cases {
		got := ApplyCurve(c.x, c.curve)
		if math.Abs(float64(got-c.want)) > 1e-6 {
			t.Errorf("%s(%v) = %v, want %v", c.curve, c.x, got, c.want)
		}
	}
}

func TestVelocityFloor(t *testing.T) {
	// Zero velocity means note-off on the wire, so even a zero-pressure
	// touch gets velocity 1.
	if got := Velocity(0, CurveLinear); got != 1 {
		t.Errorf("Velocity(0) = %d, want 1", got)
	}
	if got := Velocity(1, CurveLinear); got != 127 {
		t.Errorf("Velocity(1) = %d, want 127", got)
	}
	if got := Velocity(2, CurveLinear); got != 127 {
		t.Errorf("Velocity(2) = %d, want 127", got)
	}
}

func TestPressureRange(t *testing.T) {
	if got := Pressure(0, CurveLinear); got != 0 {
		t.Errorf("Pressure(0) = %d, want 0", got)
	}
	if got := Pressure(1, CurveExponential); got != 127 {
		t.Errorf("Pressure(1) = %d, want 127", got)
	}
}

func TestCurveNames(t *testing.T) {
	for _, c := range []CurveType{CurveLinear, CurveExponential, CurveLogarithmic, CurveSCurve} {
		if got := CurveFromString(c.String()); got != c {
			t.Errorf("CurveFromString(%q) = %v, want %v", c.String(), got, c)
		}
	}
	if got := CurveFromString("wobbly"); got != CurveLinear {
		t.Errorf("unknown curve parsed as %v, want linear", got)
	}
}
