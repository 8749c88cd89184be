// Package geometry provides the pure collision math behind collision-aware
// stacking: AABB overlap tests and z-index resolution for moved cards.
package geometry

import "github.com/pinwall/pinwall/internal/model"

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether a and b intersect. Touching edges do not count.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// CardRect returns the card's bounding box, substituting the default height
// for auto-height cards.
func CardRect(c model.Card) Rect {
	h := model.DefaultCardHeight
	if c.Height != nil {
		h = *c.Height
	}
	return Rect{X: c.PositionX, Y: c.PositionY, W: c.Width, H: h}
}

// FindOverlapping returns all cards other than target whose rectangles
// overlap target's rectangle.
func FindOverlapping(target model.Card, all []model.Card) []model.Card {
	tr := CardRect(target)
	var out []model.Card
	for _, c := range all {
		if c.ID == target.ID {
			continue
		}
		if Overlaps(tr, CardRect(c)) {
			out = append(out, c)
		}
	}
	return out
}

// ResolveZIndexOnMove decides whether a moved card needs a new z-index.
// Among cards the moved card now overlaps, it takes the maximum z-index; if
// that maximum is >= the moved card's own, it returns max+1 and true. A card
// dropped into a stack always lands strictly on top of everything it covers,
// unless it was already higher.
func ResolveZIndexOnMove(moved model.Card, all []model.Card) (int, bool) {
	overlapping := FindOverlapping(moved, all)
	if len(overlapping) == 0 {
		return 0, false
	}
	max := overlapping[0].ZIndex
	for _, c := range overlapping[1:] {
		if c.ZIndex > max {
			max = c.ZIndex
		}
	}
	if max >= moved.ZIndex {
		return max + 1, true
	}
	return 0, false
}

// MaxZIndex returns the highest z-index among cards, or 0 for an empty set.
func MaxZIndex(cards []model.Card) int {
	max := 0
	for _, c := range cards {
		if c.ZIndex > max {
			max = c.ZIndex
		}
	}
	return max
}
