package plan

import "math"

// Viewport maps world coordinates (feet) to screen coordinates (pixels).
// Offset is the world point currently at the screen center.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	Width   float64 // screen width, pixels
	Height  float64 // screen height, pixels
}

// NewViewport returns a viewport at scale 1, centered on the origin.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Scale: 1, Width: width, Height: height}
}

// WorldToScreen maps a world point to screen pixels.
func (v *Viewport) WorldToScreen(p Point) Point {
	return Point{
		X: (p.X-v.OffsetX)*PixelsPerFoot*v.Scale + v.Width/2,
		Y: (p.Y-v.OffsetY)*PixelsPerFoot*v.Scale + v.Height/2,
	}
}

// ScreenToWorld maps a screen point to world feet. Mutual inverse of
// WorldToScreen.
func (v *Viewport) ScreenToWorld(s Point) Point {
	return Point{
		X: (s.X-v.Width/2)/(PixelsPerFoot*v.Scale) + v.OffsetX,
		Y: (s.Y-v.Height/2)/(PixelsPerFoot*v.Scale) + v.OffsetY,
	}
}

// Pan translates the view by a screen-space delta.
func (v *Viewport) Pan(dxPixels, dyPixels float64) {
	v.OffsetX -= dxPixels / (PixelsPerFoot * v.Scale)
	v.OffsetY -= dyPixels / (PixelsPerFoot * v.Scale)
}

// ZoomAt sets the scale, anchored at a screen cursor: the world point
// under the cursor before the step is under the cursor after it. Scale
// is clamped to [MinScale, MaxScale].
func (v *Viewport) ZoomAt(cursor Point, newScale float64) {
	newScale = math.Max(MinScale, math.Min(MaxScale, newScale))
	anchor := v.ScreenToWorld(cursor)
	v.Scale = newScale
	v.OffsetX = anchor.X - (cursor.X-v.Width/2)/(PixelsPerFoot*newScale)
	v.OffsetY = anchor.Y - (cursor.Y-v.Height/2)/(PixelsPerFoot*newScale)
}

// ZoomBy multiplies the current scale, anchored at the cursor.
func (v *Viewport) ZoomBy(cursor Point, factor float64) {
	v.ZoomAt(cursor, v.Scale*factor)
}

// Resize updates the screen dimensions, keeping the centered world
// point fixed.
func (v *Viewport) Resize(width, height float64) {
	v.Width = width
	v.Height = height
}

// ZoomCoalescer accumulates rapid wheel-zoom events into one pending
// step committed per frame tick, so a burst of wheel events costs a
// single viewport update. This is a debounce, not concurrency: it only
// affects render cadence, never correctness.
type ZoomCoalescer struct {
	factor  float64
	cursor  Point
	pending bool
}

// Add folds a zoom step into the pending state. The latest cursor wins.
func (z *ZoomCoalescer) Add(cursor Point, factor float64) {
	if !z.pending {
		z.factor = 1
		z.pending = true
	}
	z.factor *= factor
	z.cursor = cursor
}

// Commit applies the accumulated zoom to the viewport. Returns false if
// nothing was pending.
func (z *ZoomCoalescer) Commit(v *Viewport) bool {
	if !z.pending {
		return false
	}
	v.ZoomBy(z.cursor, z.factor)
	z.pending = false
	return true
}
