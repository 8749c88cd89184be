package repository

import (
	"context"

	"github.com/pinwall/pinwall/internal/model"
)

// CardRepository provides persistent access to cards.
type CardRepository interface {
	// Create inserts a card on a board, assigning it the next z-index
	// (current board maximum plus one).
	Create(ctx context.Context, boardID string, draft model.CardDraft) (*model.Card, error)

	// Get returns a single card by id.
	Get(ctx context.Context, id string) (*model.Card, error)

	// ListByBoard returns a board's cards ordered by z-index ascending.
	ListByBoard(ctx context.Context, boardID string) ([]model.Card, error)

	// Update applies a sparse patch and returns the updated card.
	Update(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error)

	// Delete removes a card.
	Delete(ctx context.Context, id string) error
}
