package music

import "math"

// ScaleType names a fixed set of semitone offsets from a root pitch class
type ScaleType int

const (
	ScaleChromatic ScaleType = iota
	ScaleMajor
	ScaleNaturalMinor
	ScaleHarmonicMinor
	ScalePentatonic
	ScaleMinorPentatonic
	ScaleWholeTone
	ScaleBlues
	ScaleDorian
	ScaleMixolydian
)

// ScaleFromString parses a scale name; unknown names fall back to chromatic
func ScaleFromString(s string) ScaleType {
	switch s {
	case "major":
		return ScaleMajor
	case "natural_minor":
		return ScaleNaturalMinor
	case "harmonic_minor":
		return ScaleHarmonicMinor
	case "pentatonic":
		return ScalePentatonic
	case "minor_pentatonic":
		return ScaleMinorPentatonic
	case "whole_tone":
		return ScaleWholeTone
	case "blues":
		return ScaleBlues
	case "dorian":
		return ScaleDorian
	case "mixolydian":
		return ScaleMixolydian
	}
	return ScaleChromatic
}

func (s ScaleType) String() string {
	switch s {
	case ScaleMajor:
		return "major"
	case ScaleNaturalMinor:
		return "natural_minor"
	case ScaleHarmonicMinor:
		return "harmonic_minor"
	case ScalePentatonic:
		return "pentatonic"
	case ScaleMinorPentatonic:
		return "minor_pentatonic"
	case ScaleWholeTone:
		return "whole_tone"
	case ScaleBlues:
		return "blues"
	case ScaleDorian:
		return "dorian"
	case ScaleMixolydian:
		return "mixolydian"
	}
	return "chromatic"
}

var scaleIntervals = map[ScaleType][]int{
	ScaleChromatic:       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	ScaleMajor:           {0, 2, 4, 5, 7, 9, 11},
	ScaleNaturalMinor:    {0, 2, 3, 5, 7, 8, 10},
	ScaleHarmonicMinor:   {0, 2, 3, 5, 7, 8, 11},
	ScalePentatonic:      {0, 2, 4, 7, 9},
	ScaleMinorPentatonic: {0, 3, 5, 7, 10},
	ScaleWholeTone:       {0, 2, 4, 6, 8, 10},
	ScaleBlues:           {0, 3, 5, 6, 7, 10},
	ScaleDorian:          {0, 2, 3, 5, 7, 9, 10},
	ScaleMixolydian:      {0, 2, 4, 5, 7, 9, 10},
}

// Intervals returns the semitone offsets from the root for a scale
func Intervals(scale ScaleType) []int {
	if iv, ok := scaleIntervals[scale]; ok {
		return iv
	}
	return scaleIntervals[ScaleChromatic]
}

// QuantizeNote snaps a MIDI note to the nearest tone of the scale rooted at
// rootNote (pitch class 0-11). Nearness is circular distance modulo 12; ties
// go to the lower interval index, so the scan keeps the first best match.
func QuantizeNote(note, rootNote int, scale ScaleType) int {
	if scale == ScaleChromatic {
		return note
	}

	rel := note - rootNote
	pc := ((rel % 12) + 12) % 12
	octave := rel / 12
	if rel < 0 && pc != 0 {
		octave--
	}

	bestOffset := 0
	bestDist := 13
	for _, interval := range Intervals(scale) {
		// An interval near the octave boundary can be closest from the
		// octave below or above, so try all three occurrences.
		for _, cand := range [3]int{interval - 12, interval, interval + 12} {
			dist := pc - cand
			if dist < 0 {
				dist = -dist
			}
			if dist < bestDist {
				bestDist = dist
				bestOffset = cand
			}
		}
	}

	return rootNote + octave*12 + bestOffset
}

// QuantizePitchBend snaps a 14-bit pitch bend value (center 8192) toward the
// nearest scale tone. The bend plus baseNote resolves to an absolute target
// note, which is quantized and converted back to bend units, then blended
// with the raw bend by glideAmount (0 = hard snap, 1 = untouched).
func QuantizePitchBend(pb, baseNote, rootNote int, scale ScaleType, pbRange int, glideAmount float32) int {
	if scale == ScaleChromatic || pbRange <= 0 {
		return pb
	}

	semitones := float32(pb-8192) / 8192 * float32(pbRange)
	target := float32(baseNote) + semitones

	quantized := QuantizeNote(int(math.Round(float64(target))), rootNote, scale)
	quantSemitones := float32(quantized - baseNote)

	final := quantSemitones + (semitones-quantSemitones)*glideAmount

	result := int(final/float32(pbRange)*8192) + 8192
	if result < 0 {
		result = 0
	} else if result > 16383 {
		result = 16383
	}
	return result
}
