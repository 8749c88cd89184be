package canvas

import (
	"math"
	"testing"
)

func TestZoom_Clamping(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	for i := 0; i < 500; i++ {
		v.Zoom(-120) // zoom in
	}
	if v.Scale != MaxScale {
		t.Fatalf("repeated zoom-in must clamp at %v, got %v", MaxScale, v.Scale)
	}
	for i := 0; i < 500; i++ {
		v.Zoom(120) // zoom out
	}
	if v.Scale != MinScale {
		t.Fatalf("repeated zoom-out must clamp at %v, got %v", MinScale, v.Scale)
	}
}

func TestZoom_WheelSensitivity(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	v.Zoom(-50) // deltaY * -0.01 => +0.5
	if math.Abs(v.Scale-1.5) > 1e-9 {
		t.Fatalf("want scale 1.5, got %v", v.Scale)
	}
}

func TestScroll_Pan(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	v.Scroll(30, -40)
	if v.PanX != -30 || v.PanY != 40 {
		t.Fatalf("want pan (-30,40), got (%v,%v)", v.PanX, v.PanY)
	}
}

func TestPanDrag_AnchorMath(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	v.PanX, v.PanY = 10, 20

	v.StartPan(100, 100)
	v.PanTo(150, 130)
	if v.PanX != 60 || v.PanY != 50 {
		t.Fatalf("want pan (60,50), got (%v,%v)", v.PanX, v.PanY)
	}
	v.EndPan()

	// Moves after the drag ends are ignored.
	v.PanTo(500, 500)
	if v.PanX != 60 || v.PanY != 50 {
		t.Fatalf("pan must not change after EndPan")
	}
}

func TestToCanvas_RoundTrip(t *testing.T) {
	t.Parallel()
	v := NewViewport()
	v.Scale = 1.5
	v.PanX, v.PanY = -120, 35

	const originX, originY = 8, 64
	x, y := v.ToCanvas(400, 300, originX, originY)
	sx, sy := v.ToScreen(x, y, originX, originY)
	if math.Abs(sx-400) > 1e-9 || math.Abs(sy-300) > 1e-9 {
		t.Fatalf("round trip drifted: (%v,%v)", sx, sy)
	}

	// Spot-check the formula: (screen - origin - pan) / scale.
	wantX := (400.0 - 8 - (-120)) / 1.5
	if math.Abs(x-wantX) > 1e-9 {
		t.Fatalf("want x=%v, got %v", wantX, x)
	}
}
