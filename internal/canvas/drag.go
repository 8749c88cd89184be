package canvas

import (
	"math"

	"github.com/pinwall/pinwall/internal/model"
)

// DragThreshold is the minimum screen distance (px) for a gesture to count
// as a drag; anything shorter is a plain click.
const DragThreshold = 8.0

// toolbarDropOffsetY nudges a toolbar drop so the new card sits just under
// the cursor rather than hanging from it.
const toolbarDropOffsetY = 20.0

// IntentKind tags the outcome of a completed drag gesture.
type IntentKind int

const (
	// IntentNone: no active gesture, or the payload was dropped nowhere useful.
	IntentNone IntentKind = iota
	// IntentClick: sub-threshold card gesture; select / bring to top.
	IntentClick
	// IntentMove: move an existing card by a canvas-space delta.
	IntentMove
	// IntentCreate: create a card of Type at canvas position (X, Y).
	IntentCreate
	// IntentDelete: card dropped on the trash target.
	IntentDelete
)

// Intent is the drag controller's output, consumed by the board store.
type Intent struct {
	Kind   IntentKind
	CardID string
	Type   model.CardType
	DeltaX float64 // canvas units (IntentMove)
	DeltaY float64
	X      float64 // canvas units (IntentCreate)
	Y      float64
}

type dragSource int

const (
	sourceNone dragSource = iota
	sourceCard
	sourceToolbar
)

// Drag orchestrates the three drag flows: moving a card, creating one from a
// toolbar drop, and deleting one via the trash target. Positions passed in
// are screen coordinates; emitted intents are in canvas units.
type Drag struct {
	source   dragSource
	cardID   string
	cardType model.CardType
	startX   float64
	startY   float64
}

// StartCard begins a card-move gesture. Cards being edited are not
// draggable; the caller reports that and the gesture is refused.
func (d *Drag) StartCard(id string, screenX, screenY float64, editing bool) bool {
	if editing {
		return false
	}
	d.source = sourceCard
	d.cardID = id
	d.startX, d.startY = screenX, screenY
	return true
}

// StartToolbar begins a create gesture for a toolbar item.
func (d *Drag) StartToolbar(t model.CardType, screenX, screenY float64) {
	d.source = sourceToolbar
	d.cardType = t
	d.startX, d.startY = screenX, screenY
}

// Active reports whether a gesture is in progress.
func (d *Drag) Active() bool { return d.source != sourceNone }

// Drop completes the gesture at a screen position and emits the intent.
// overTrash marks drops on the trash target; v supplies the scale and the
// screen-to-canvas conversion (with the canvas origin at originX/originY).
func (d *Drag) Drop(screenX, screenY float64, overTrash bool, v *Viewport, originX, originY float64) Intent {
	defer d.reset()

	switch d.source {
	case sourceCard:
		if overTrash {
			return Intent{Kind: IntentDelete, CardID: d.cardID}
		}
		dx := screenX - d.startX
		dy := screenY - d.startY
		if math.Hypot(dx, dy) < DragThreshold {
			return Intent{Kind: IntentClick, CardID: d.cardID}
		}
		// Screen delta shrinks or grows with zoom; divide back to canvas units.
		return Intent{
			Kind:   IntentMove,
			CardID: d.cardID,
			DeltaX: dx / v.Scale,
			DeltaY: dy / v.Scale,
		}

	case sourceToolbar:
		x, y := v.ToCanvas(screenX, screenY, originX, originY)
		return Intent{
			Kind: IntentCreate,
			Type: d.cardType,
			X:    x - model.DefaultCardWidth/2,
			Y:    y - toolbarDropOffsetY,
		}

	default:
		return Intent{Kind: IntentNone}
	}
}

// Cancel abandons the gesture without emitting an intent.
func (d *Drag) Cancel() { d.reset() }

func (d *Drag) reset() {
	*d = Drag{}
}
