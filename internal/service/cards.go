package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pinwall/pinwall/internal/cardtype"
	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
	"github.com/pinwall/pinwall/internal/repository"
)

// CardService defines operations over cards.
type CardService interface {
	// Create adds a card to a board; it lands on top of the stack.
	Create(ctx context.Context, boardID string, draft model.CardDraft) (*model.Card, error)
	// Get returns a single card.
	Get(ctx context.Context, id string) (*model.Card, error)
	// ListByBoard returns a board's cards ordered by z-index ascending.
	ListByBoard(ctx context.Context, boardID string) ([]model.Card, error)
	// Update applies a sparse patch.
	Update(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error)
	// Delete removes a card.
	Delete(ctx context.Context, id string) error
}

type CardServiceImpl struct {
	repo repository.CardRepository
}

// NewCardService constructs CardService.
func NewCardService(repo repository.CardRepository) *CardServiceImpl {
	return &CardServiceImpl{repo: repo}
}

// Create validates the draft and delegates to the repository.
// Validation rules:
// - Type registered in the card type registry
// - Width > 0 (defaulted when absent)
// - Height, when given, > 0
func (s *CardServiceImpl) Create(ctx context.Context, boardID string, draft model.CardDraft) (*model.Card, error) {
	if boardID == "" {
		return nil, errors.New("validation: empty board id")
	}
	if _, err := cardtype.Get(draft.Type); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	if draft.Width == 0 {
		draft.Width = model.DefaultCardWidth
	}
	if draft.Width < 0 {
		return nil, errors.New("validation: negative width")
	}
	if draft.Height != nil && *draft.Height <= 0 {
		return nil, errors.New("validation: non-positive height")
	}
	return s.repo.Create(ctx, boardID, draft)
}

// Get fetches a single card by id.
func (s *CardServiceImpl) Get(ctx context.Context, id string) (*model.Card, error) {
	if id == "" {
		return nil, errors.New("validation: empty card id")
	}
	return s.repo.Get(ctx, id)
}

// ListByBoard returns a board's cards.
func (s *CardServiceImpl) ListByBoard(ctx context.Context, boardID string) ([]model.Card, error) {
	if boardID == "" {
		return nil, errors.New("validation: empty board id")
	}
	return s.repo.ListByBoard(ctx, boardID)
}

// Update applies a sparse patch; empty patches are rejected.
func (s *CardServiceImpl) Update(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error) {
	if id == "" {
		return nil, errors.New("validation: empty card id")
	}
	if patch.IsZero() {
		return nil, errs.ErrEmptyPatch
	}
	if patch.Type != nil {
		if _, err := cardtype.Get(*patch.Type); err != nil {
			return nil, fmt.Errorf("validation: %w", err)
		}
	}
	if patch.Width != nil && *patch.Width <= 0 {
		return nil, errors.New("validation: non-positive width")
	}
	if patch.Height != nil && *patch.Height <= 0 {
		return nil, errors.New("validation: non-positive height")
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes a card.
func (s *CardServiceImpl) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("validation: empty card id")
	}
	return s.repo.Delete(ctx, id)
}
