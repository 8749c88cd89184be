package geometry

import (
	"testing"

	"github.com/pinwall/pinwall/internal/model"
)

func card(id string, x, y float64, z int) model.Card {
	return model.Card{ID: id, PositionX: x, PositionY: y, Width: 280, ZIndex: z}
}

func TestOverlaps_Symmetry(t *testing.T) {
	t.Parallel()
	cases := []struct{ a, b Rect }{
		{Rect{0, 0, 100, 100}, Rect{50, 50, 100, 100}},
		{Rect{0, 0, 100, 100}, Rect{200, 200, 10, 10}},
		{Rect{0, 0, 100, 100}, Rect{100, 0, 100, 100}},
		{Rect{-50, -50, 60, 60}, Rect{0, 0, 100, 100}},
	}
	for _, c := range cases {
		if Overlaps(c.a, c.b) != Overlaps(c.b, c.a) {
			t.Fatalf("overlap not symmetric for %+v / %+v", c.a, c.b)
		}
	}
}

func TestOverlaps_TouchingEdgesDoNotCount(t *testing.T) {
	t.Parallel()
	a := Rect{0, 0, 100, 100}
	if Overlaps(a, Rect{100, 0, 100, 100}) {
		t.Fatalf("shared vertical edge must not overlap")
	}
	if Overlaps(a, Rect{0, 100, 100, 100}) {
		t.Fatalf("shared horizontal edge must not overlap")
	}
	if !Overlaps(a, Rect{99, 0, 100, 100}) {
		t.Fatalf("one-unit intrusion must overlap")
	}
}

func TestCardRect_DefaultHeight(t *testing.T) {
	t.Parallel()
	c := card("a", 10, 20, 0)
	r := CardRect(c)
	if r.H != model.DefaultCardHeight {
		t.Fatalf("auto-height card: want default height %v, got %v", model.DefaultCardHeight, r.H)
	}
	c.Height = model.Ptr(300.0)
	if CardRect(c).H != 300 {
		t.Fatalf("explicit height must win over default")
	}
}

func TestFindOverlapping_ExcludesSelf(t *testing.T) {
	t.Parallel()
	a := card("a", 0, 0, 0)
	b := card("b", 50, 50, 1)
	far := card("far", 1000, 1000, 2)
	got := FindOverlapping(a, []model.Card{a, b, far})
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("want [b], got %+v", got)
	}
}

func TestResolveZIndexOnMove_PromotesAboveStack(t *testing.T) {
	t.Parallel()
	a := card("a", 0, 0, 0)
	b := card("b", 50, 50, 1)
	moved := a
	moved.PositionX, moved.PositionY = 60, 60

	z, ok := ResolveZIndexOnMove(moved, []model.Card{a, b})
	if !ok || z != 2 {
		t.Fatalf("want promotion to 2, got z=%d ok=%v", z, ok)
	}
}

func TestResolveZIndexOnMove_AlreadyOnTop(t *testing.T) {
	t.Parallel()
	a := card("a", 0, 0, 5)
	b := card("b", 50, 50, 1)
	if _, ok := ResolveZIndexOnMove(a, []model.Card{a, b}); ok {
		t.Fatalf("card already strictly above its overlaps must not be promoted")
	}
}

func TestResolveZIndexOnMove_TieIsPromoted(t *testing.T) {
	t.Parallel()
	// Equal z-index counts as covered: the moved card must end up strictly on top.
	a := card("a", 0, 0, 3)
	b := card("b", 50, 50, 3)
	z, ok := ResolveZIndexOnMove(a, []model.Card{a, b})
	if !ok || z != 4 {
		t.Fatalf("tie must promote to 4, got z=%d ok=%v", z, ok)
	}
}

func TestResolveZIndexOnMove_NoOverlap(t *testing.T) {
	t.Parallel()
	a := card("a", 0, 0, 0)
	b := card("b", 5000, 5000, 9)
	if _, ok := ResolveZIndexOnMove(a, []model.Card{a, b}); ok {
		t.Fatalf("no overlap must mean no change")
	}
}

func TestMaxZIndex(t *testing.T) {
	t.Parallel()
	if MaxZIndex(nil) != 0 {
		t.Fatalf("empty set max must be 0")
	}
	cards := []model.Card{card("a", 0, 0, 2), card("b", 0, 0, 7), card("c", 0, 0, 4)}
	if MaxZIndex(cards) != 7 {
		t.Fatalf("want 7, got %d", MaxZIndex(cards))
	}
}
