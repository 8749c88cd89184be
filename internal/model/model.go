// Package model defines domain entities shared by the canvas engine, the REST
// client and the persistence service.
package model

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// CardType tags a card with its behavior (content schema, validation, rendering).
type CardType string

// Known card types. Only TEXT and LINK carry full behavior; the rest are
// registered with permissive placeholder configs.
const (
	CardTypeText     CardType = "TEXT"
	CardTypeLink     CardType = "LINK"
	CardTypeTodo     CardType = "TODO"
	CardTypeImage    CardType = "IMAGE"
	CardTypeColumn   CardType = "COLUMN"
	CardTypeSubboard CardType = "SUBBOARD"
)

// Layout defaults, in canvas units.
const (
	// DefaultCardWidth is assigned to new cards when no width is given.
	DefaultCardWidth = 280.0
	// DefaultCardHeight substitutes for auto-height cards in collision math.
	DefaultCardHeight = 150.0
)

// Card is a single positioned, typed, content-bearing unit on a board.
// Content is an opaque JSON blob whose schema depends on Type.
type Card struct {
	ID            string    `json:"id"`
	BoardID       string    `json:"boardId"`
	Type          CardType  `json:"type"`
	PositionX     float64   `json:"positionX"`
	PositionY     float64   `json:"positionY"`
	Width         float64   `json:"width"`
	Height        *float64  `json:"height,omitempty"` // nil means auto height
	ZIndex        int       `json:"zIndex"`
	Color         *string   `json:"color,omitempty"`
	Title         *string   `json:"title,omitempty"`
	Content       *string   `json:"content,omitempty"`
	LinkedBoardID *string   `json:"linkedBoardId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ContentString returns the content blob or "" when absent.
func (c Card) ContentString() string {
	if c.Content == nil {
		return ""
	}
	return *c.Content
}

// Board is the canvas container and its set of cards.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Cards       []Card    `json:"cards"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CardDraft is the payload for creating a card.
type CardDraft struct {
	Type      CardType `json:"type"`
	Title     *string  `json:"title,omitempty"`
	Content   *string  `json:"content,omitempty"`
	PositionX float64  `json:"positionX"`
	PositionY float64  `json:"positionY"`
	Width     float64  `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Color     *string  `json:"color,omitempty"`
}

// CardPatch is a sparse update: only non-nil fields are applied.
type CardPatch struct {
	Type          *CardType `json:"type,omitempty"`
	Title         *string   `json:"title,omitempty"`
	Content       *string   `json:"content,omitempty"`
	PositionX     *float64  `json:"positionX,omitempty"`
	PositionY     *float64  `json:"positionY,omitempty"`
	Width         *float64  `json:"width,omitempty"`
	Height        *float64  `json:"height,omitempty"`
	ZIndex        *int      `json:"zIndex,omitempty"`
	Color         *string   `json:"color,omitempty"`
	LinkedBoardID *string   `json:"linkedBoardId,omitempty"`
}

// IsZero reports whether the patch carries no fields.
func (p CardPatch) IsZero() bool {
	return p.Type == nil && p.Title == nil && p.Content == nil &&
		p.PositionX == nil && p.PositionY == nil && p.Width == nil &&
		p.Height == nil && p.ZIndex == nil && p.Color == nil && p.LinkedBoardID == nil
}

// BoardPatch is a sparse update for board metadata.
type BoardPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsZero reports whether the patch carries no fields.
func (p BoardPatch) IsZero() bool { return p.Name == nil && p.Description == nil }

// temporaryIDPrefix namespaces client-only card ids away from server UUIDs.
const temporaryIDPrefix = "tmp-"

// NewTemporaryID generates a client-only card id. Server ids are bare UUIDs,
// so the prefix makes collision structurally impossible.
func NewTemporaryID() string {
	return temporaryIDPrefix + uuid.Must(uuid.NewV4()).String()
}

// IsTemporaryID reports whether id denotes a card without server identity.
func IsTemporaryID(id string) bool { return strings.HasPrefix(id, temporaryIDPrefix) }

// Ptr returns a pointer to v; convenience for building sparse patches.
func Ptr[T any](v T) *T { return &v }
