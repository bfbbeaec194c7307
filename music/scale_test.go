package music

import "testing"

func TestQuantizeNote(t *testing.T) {
	cases := []struct {
		name  string
		note  int
		root  int
		scale ScaleType
		want  int
	}{
		{"chromatic passthrough", 61, 0, ScaleChromatic, 61},
		{"in-scale note unchanged", 64, 0, ScaleMajor, 64},
		{"tie snaps down", 61, 0, ScaleMajor, 60},    // C#4: C and D equidistant
		{"tritone ties down", 66, 0, ScaleMajor, 65}, // F#4: F and G equidistant
		{"root transposed", 63, 2, ScaleMajor, 62},
		{"wraps to next octave root", 71, 0, ScalePentatonic, 72},
		{"low octave", 49, 0, ScaleMajor, 48},
		{"minor third", 63, 0, ScaleNaturalMinor, 63},
		{"whole tone", 61, 0, ScaleWholeTone, 60},
	}
	for _, c := range cases {
		if got := QuantizeNote(c.note, c.root, c.scale); got != c.want {
			t.Errorf("%s: QuantizeNote(%d, %d, %s) = %d, want %d",
				c.name, c.note, c.root, c.scale, got, c.want)
		}
	}
}

func TestQuantizePitchBendSnap(t *testing.T) {
	// Base note C4, bend range 48 semitones. A raw bend of one semitone up
	// lands on C#, which hard-snaps back to C in C major.
	oneSemi := 8192 + 8192/48

	got := QuantizePitchBend(oneSemi, 60, 0, ScaleMajor, 48, 0)
	if got != 8192 {
		t.Errorf("hard snap = %d, want 8192", got)
	}

	// Full glide leaves the bend alone.
	got = QuantizePitchBend(oneSemi, 60, 0, ScaleMajor, 48, 1)
	if got != oneSemi {
		t.Errorf("full glide = %d, want %d", got, oneSemi)
	}

	// Chromatic never quantizes.
	got = QuantizePitchBend(oneSemi, 60, 0, ScaleChromatic, 48, 0)
	if got != oneSemi {
		t.Errorf("chromatic = %d, want %d", got, oneSemi)
	}
}

func TestQuantizePitchBendClamps(t *testing.T) {
	if got := QuantizePitchBend(16383, 60, 0, ScaleMajor, 48, 1); got < 0 || got > 16383 {
		t.Errorf("result %d out of 14-bit range", got)
	}
	if got := QuantizePitchBend(0, 60, 0, ScaleMajor, 48, 1); got < 0 || got > 16383 {
		t.Errorf("result %d out of 14-bit range", got)
	}
}

func TestIntervalsFallback(t *testing.T) {
	if got := len(Intervals(ScaleType(99))); got != 12 {
		t.Errorf("unknown scale has %d intervals, want chromatic 12", got)
	}
	if got := len(Intervals(ScaleBlues)); got != 6 {
		t.Errorf("blues has %d intervals, want 6", got)
	}
}
