// Package board owns the in-memory authoritative view of one board's cards.
// Every mutation goes optimistic-first through the Store, which then
// reconciles with the persistence collaborator. Failed persistence is logged
// and surfaced, never auto-reverted; reconciliation is a manual Refresh.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pinwall/pinwall/internal/cardtype"
	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/geometry"
	"github.com/pinwall/pinwall/internal/model"
)

// Client is the persistence collaborator the store mediates all card
// mutations through.
type Client interface {
	FetchBoard(ctx context.Context, id string) (*model.Board, error)
	CreateCard(ctx context.Context, boardID string, draft model.CardDraft) (*model.Card, error)
	UpdateCard(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

// Notifier surfaces user-visible outcomes (toasts/status line).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Store is the single in-memory representation of a board's cards plus the
// inline edit session. All reads and mutations go through its lock, so
// callbacks always act on the latest snapshot, never a stale capture.
type Store struct {
	client Client
	notify Notifier
	log    *zap.Logger

	mu            sync.Mutex
	board         *model.Board
	movesInFlight map[string]bool

	// Inline edit session: at most one card editing at a time.
	editingID    string
	draft        string
	saveInFlight bool
}

// New constructs a store around the persistence collaborator.
func New(client Client, notify Notifier, log *zap.Logger) *Store {
	if notify == nil {
		notify = NopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		client:        client,
		notify:        notify,
		log:           log,
		movesInFlight: make(map[string]bool),
	}
}

// Load fetches the board and replaces local state wholesale. A missing board
// is terminal and user-visible; any other failure leaves prior state intact.
func (s *Store) Load(ctx context.Context, boardID string) error {
	b, err := s.client.FetchBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.notify.Error("Board not found")
			return fmt.Errorf("load board %s: %w", boardID, err)
		}
		s.log.Error("fetch board", zap.String("board", boardID), zap.Error(err))
		s.notify.Error("Failed to load board")
		return fmt.Errorf("load board %s: %w", boardID, err)
	}

	s.mu.Lock()
	s.board = b
	s.movesInFlight = make(map[string]bool)
	s.editingID = ""
	s.draft = ""
	s.saveInFlight = false
	s.mu.Unlock()
	return nil
}

// Refresh refetches the current board; the manual reconciliation path after
// persistent optimistic drift.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.board == nil {
		s.mu.Unlock()
		return nil
	}
	id := s.board.ID
	s.mu.Unlock()
	return s.Load(ctx, id)
}

// Loaded reports whether a board is held.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board != nil
}

// BoardID returns the loaded board's id, or "".
func (s *Store) BoardID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return ""
	}
	return s.board.ID
}

// BoardName returns the loaded board's display name, or "".
func (s *Store) BoardName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return ""
	}
	return s.board.Name
}

// Cards returns a snapshot copy of the card set.
func (s *Store) Cards() []model.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return nil
	}
	out := make([]model.Card, len(s.board.Cards))
	copy(out, s.board.Cards)
	return out
}

// Card returns a card by id from the current snapshot.
func (s *Store) Card(id string) (model.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findLocked(id)
	if c == nil {
		return model.Card{}, false
	}
	return *c, true
}

// CreateTemporaryCard synthesizes a client-only card of the given type at a
// canvas position and makes it the active edit target. No network call is
// made until the first save.
func (s *Store) CreateTemporaryCard(ctx context.Context, t model.CardType, x, y float64) (model.Card, error) {
	cfg, err := cardtype.Get(t)
	if err != nil {
		s.notify.Error(err.Error())
		return model.Card{}, err
	}

	// Starting a new edit implicitly ends any prior one.
	s.CancelEdit(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return model.Card{}, fmt.Errorf("create temporary card: no board loaded")
	}
	blob := cfg.InitialContent()
	card := model.Card{
		ID:        model.NewTemporaryID(),
		BoardID:   s.board.ID,
		Type:      t,
		PositionX: x,
		PositionY: y,
		Width:     model.DefaultCardWidth,
		ZIndex:    geometry.MaxZIndex(s.board.Cards) + 1,
		Content:   &blob,
	}
	s.board.Cards = append(s.board.Cards, card)
	s.editingID = card.ID
	s.draft = ""
	return card, nil
}

// MoveCard applies a canvas-space delta to a card, bumping its z-index when
// the collision rules say so, then persists the changed fields in a single
// sparse PATCH. A move for a card with a request already in flight is
// dropped, not queued, so stale positions never overwrite newer ones.
func (s *Store) MoveCard(ctx context.Context, id string, dx, dy float64) error {
	s.mu.Lock()
	if s.movesInFlight[id] {
		s.mu.Unlock()
		s.log.Debug("move dropped, request in flight", zap.String("card", id))
		return nil
	}
	c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return fmt.Errorf("move card %s: %w", id, errs.ErrNotFound)
	}

	c.PositionX += dx
	c.PositionY += dy
	patch := model.CardPatch{
		PositionX: model.Ptr(c.PositionX),
		PositionY: model.Ptr(c.PositionY),
	}
	if z, ok := geometry.ResolveZIndexOnMove(*c, s.board.Cards); ok {
		c.ZIndex = z
		patch.ZIndex = model.Ptr(z)
	}

	if model.IsTemporaryID(id) {
		// No server identity yet; the position rides along on first save.
		s.mu.Unlock()
		return nil
	}
	s.movesInFlight[id] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.movesInFlight, id)
		s.mu.Unlock()
	}()

	if _, err := s.client.UpdateCard(ctx, id, patch); err != nil {
		// Optimistic state stays; drift is reconciled by a manual Refresh.
		s.log.Error("persist move", zap.String("card", id), zap.Error(err))
		s.notify.Error("Failed to save card position")
		return fmt.Errorf("move card %s: %w", id, err)
	}
	return nil
}

// BringToTop assigns max+1 to the card unless it is already at the maximum
// z-index, then persists just the z-index field.
func (s *Store) BringToTop(ctx context.Context, id string) error {
	s.mu.Lock()
	c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return fmt.Errorf("bring to top %s: %w", id, errs.ErrNotFound)
	}
	max := geometry.MaxZIndex(s.board.Cards)
	if c.ZIndex >= max {
		s.mu.Unlock()
		return nil
	}
	c.ZIndex = max + 1
	temp := model.IsTemporaryID(id)
	patch := model.CardPatch{ZIndex: model.Ptr(c.ZIndex)}
	s.mu.Unlock()

	if temp {
		return nil
	}
	if _, err := s.client.UpdateCard(ctx, id, patch); err != nil {
		s.log.Error("persist z-index", zap.String("card", id), zap.Error(err))
		return fmt.Errorf("bring to top %s: %w", id, err)
	}
	return nil
}

// DeleteCard removes the card optimistically and issues the DELETE. Deleting
// the card being edited ends the session.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	s.mu.Lock()
	c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return fmt.Errorf("delete card %s: %w", id, errs.ErrNotFound)
	}
	card := *c
	s.removeLocked(id)
	if s.editingID == id {
		s.editingID = ""
		s.draft = ""
	}
	s.mu.Unlock()

	msgs := deleteMessages(card.Type)
	if model.IsTemporaryID(id) {
		return nil
	}
	if err := s.client.DeleteCard(ctx, id); err != nil {
		s.log.Error("delete card", zap.String("card", id), zap.Error(err))
		s.notify.Error(msgs.DeleteError)
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	s.notify.Success(msgs.DeleteSuccess)
	return nil
}

// findLocked returns a pointer into the live card set. Caller holds mu.
func (s *Store) findLocked(id string) *model.Card {
	if s.board == nil {
		return nil
	}
	for i := range s.board.Cards {
		if s.board.Cards[i].ID == id {
			return &s.board.Cards[i]
		}
	}
	return nil
}

// removeLocked deletes a card from the live set. Caller holds mu.
func (s *Store) removeLocked(id string) {
	if s.board == nil {
		return
	}
	cards := s.board.Cards
	for i := range cards {
		if cards[i].ID == id {
			s.board.Cards = append(cards[:i], cards[i+1:]...)
			return
		}
	}
}

// deleteMessages resolves notification text, falling back to generic wording
// for types the registry rejects.
func deleteMessages(t model.CardType) cardtype.Messages {
	cfg, err := cardtype.Get(t)
	if err != nil {
		return cardtype.Messages{DeleteSuccess: "Card deleted", DeleteError: "Failed to delete card"}
	}
	return cfg.Messages
}
