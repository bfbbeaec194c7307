package engine

// BBox is a region's bounding box in surface grid units.
type BBox struct {
	XMin, YMin, XMax, YMax float32
}

func (b BBox) Width() float32  { return b.XMax - b.XMin }
func (b BBox) Height() float32 { return b.YMax - b.YMin }

// Normalize maps surface coordinates into [0,1]x[0,1] relative to the box.
// Zero-size axes normalize to 0.5 so degenerate regions still produce a
// stable center value.
func (b BBox) Normalize(x, y float32) (nx, ny float32) {
	w, h := b.Width(), b.Height()
	if w > 0 {
		nx = (x - b.XMin) / w
	} else {
		nx = 0.5
	}
	if h > 0 {
		ny = (y - b.YMin) / h
	} else {
		ny = 0.5
	}
	return clamp01(nx), clamp01(ny)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Region is the engine's view of one input zone on the surface. Regions are
// owned externally (layout editor, hit testing); the engine only reads them,
// capturing the behavior at finger-down for the finger's lifetime.
type Region struct {
	ID       string
	Zone     uint8
	BBox     BBox
	Behavior Behavior
}
