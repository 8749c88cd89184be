// Package canvas turns raw pointer/wheel input into viewport transforms and
// drag intents. It is pure interaction state; the board store applies the
// resulting intents.
package canvas

// Zoom bounds and wheel sensitivity.
const (
	MinScale   = 0.5
	MaxScale   = 2.0
	zoomFactor = -0.01
)

// Viewport owns the pan/zoom transform of one board-view session. Zoom is
// anchored at the canvas origin: the transform is translate(pan) scale(s)
// from a fixed origin, not a cursor-centered zoom.
type Viewport struct {
	Scale float64
	PanX  float64
	PanY  float64

	panning bool
	anchorX float64
	anchorY float64
}

// NewViewport returns a viewport at identity: scale 1, no pan.
func NewViewport() *Viewport { return &Viewport{Scale: 1} }

// Zoom applies a wheel-with-modifier gesture, clamping scale to [0.5, 2.0].
func (v *Viewport) Zoom(wheelDeltaY float64) {
	v.Scale = clamp(v.Scale+wheelDeltaY*zoomFactor, MinScale, MaxScale)
}

// Scroll applies a plain wheel gesture as a pan adjustment.
func (v *Viewport) Scroll(wheelDeltaX, wheelDeltaY float64) {
	v.PanX -= wheelDeltaX
	v.PanY -= wheelDeltaY
}

// StartPan begins a background drag, capturing the anchor so that subsequent
// PanTo calls keep the grabbed point under the pointer.
func (v *Viewport) StartPan(pointerX, pointerY float64) {
	v.panning = true
	v.anchorX = pointerX - v.PanX
	v.anchorY = pointerY - v.PanY
}

// PanTo updates the pan offset for the current background drag.
func (v *Viewport) PanTo(pointerX, pointerY float64) {
	if !v.panning {
		return
	}
	v.PanX = pointerX - v.anchorX
	v.PanY = pointerY - v.anchorY
}

// EndPan ends a background drag.
func (v *Viewport) EndPan() { v.panning = false }

// Panning reports whether a background drag is active.
func (v *Viewport) Panning() bool { return v.panning }

// ToCanvas converts a screen position to canvas coordinates, given the
// screen position of the canvas element's top-left corner.
func (v *Viewport) ToCanvas(screenX, screenY, originX, originY float64) (float64, float64) {
	return (screenX - originX - v.PanX) / v.Scale,
		(screenY - originY - v.PanY) / v.Scale
}

// ToScreen converts a canvas position back to screen coordinates.
func (v *Viewport) ToScreen(canvasX, canvasY, originX, originY float64) (float64, float64) {
	return canvasX*v.Scale + v.PanX + originX,
		canvasY*v.Scale + v.PanY + originY
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
