package config

import (
	"encoding/json"
	"testing"

	"go-erae/engine"
)

func TestDefaultConfigBuilds(t *testing.T) {
	regions, err := DefaultConfig().BuildRegions()
	if err != nil {
		t.Fatalf("BuildRegions: %v", err)
	}
	if len(regions) != 3 {
		t.Fatalf("got %d regions, want 3", len(regions))
	}
	if _, ok := regions[0].Behavior.(engine.NotePad); !ok {
		t.Errorf("region 0 behavior is %T, want NotePad", regions[0].Behavior)
	}
}

func TestBuildRegionsFromJSON(t *testing.T) {
	raw := `{
		"device": {"portPattern": "Erae"},
		"regions": [
			{
				"id": "keys", "zone": 1,
				"xMin": 0, "yMin": 0, "xMax": 12, "yMax": 4,
				"behavior": "note_pad",
				"params": {"note": 48, "scale": "minor_pentatonic", "pitch_quantize": true}
			},
			{
				"id": "vol", "zone": 1,
				"xMin": 0, "yMin": 5, "xMax": 2, "yMax": 16,
				"behavior": "fader",
				"params": {"cc": 7}
			}
		]
	}`

	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	regions, err := cfg.BuildRegions()
	if err != nil {
		t.Fatalf("BuildRegions: %v", err)
	}

	pad, ok := regions[0].Behavior.(engine.NotePad)
	if !ok {
		t.Fatalf("region 0 behavior is %T, want NotePad", regions[0].Behavior)
	}
	if pad.Note != 48 || !pad.PitchQuantize {
		t.Errorf("pad params lost in translation: %+v", pad)
	}
	if regions[0].Zone != 1 || regions[0].BBox.XMax != 12 {
		t.Errorf("region geometry wrong: %+v", regions[0])
	}

	fader, ok := regions[1].Behavior.(engine.Fader)
	if !ok {
		t.Fatalf("region 1 behavior is %T, want Fader", regions[1].Behavior)
	}
	if fader.CC != 7 {
		t.Errorf("fader cc = %d, want 7", fader.CC)
	}
}

func TestBuildRegionsRejectsBadParams(t *testing.T) {
	cfg := Config{Regions: []RegionConfig{
		{ID: "bad", Behavior: "trigger", Params: map[string]any{"note": 300}},
	}}
	if _, err := cfg.BuildRegions(); err == nil {
		t.Error("out-of-range note accepted")
	}
}
