package board

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pinwall/pinwall/internal/cardtype"
	"github.com/pinwall/pinwall/internal/content"
	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
)

// Inline edit session: a two-state machine (idle / editing one card) living
// inside the store. The editor's working representation is held as the
// session draft; Save and Cancel evaluate it for emptiness, where "empty"
// collapses into "delete" — a blank card is not real content.

// EditingID returns the id of the card being edited, or "" when idle.
func (s *Store) EditingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID
}

// Draft returns the session's working content.
func (s *Store) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the session's working content.
func (s *Store) SetDraft(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID != "" {
		s.draft = raw
	}
}

// StartEdit begins editing an existing card, implicitly cancelling any other
// session first, and brings the card to the top of the stack.
func (s *Store) StartEdit(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.editingID == id {
		s.mu.Unlock()
		return nil
	}
	active := s.editingID != ""
	s.mu.Unlock()

	if active {
		s.CancelEdit(ctx)
	}

	s.mu.Lock()
	c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return fmt.Errorf("start edit %s: %w", id, errs.ErrNotFound)
	}
	s.editingID = id
	s.draft = editableText(*c)
	s.mu.Unlock()

	return s.BringToTop(ctx, id)
}

// SaveEdit ends the session by persisting the draft. Empty drafts delete
// (silently for temporary cards); invalid drafts surface their error and
// keep the session open. A save already in flight drops this request — the
// latch guards against blur and keypress firing near-simultaneously.
func (s *Store) SaveEdit(ctx context.Context) error {
	s.mu.Lock()
	if s.saveInFlight || s.editingID == "" {
		s.mu.Unlock()
		return nil
	}
	s.saveInFlight = true
	id := s.editingID
	raw := s.draft
	c := s.findLocked(id)
	var card model.Card
	if c != nil {
		card = *c
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saveInFlight = false
		s.mu.Unlock()
	}()

	if c == nil {
		s.endSession(id)
		return nil
	}

	cfg, err := cardtype.Get(card.Type)
	if err != nil {
		s.notify.Error(err.Error())
		s.endSession(id)
		return err
	}

	temp := model.IsTemporaryID(id)
	if cfg.IsEmpty(raw) {
		// An abandoned draft leaves no artifact; an existing card edited to
		// empty is removed, not left blank.
		if temp {
			s.discardLocal(id)
			return nil
		}
		return s.DeleteCard(ctx, id)
	}

	if err := cfg.Validate(raw); err != nil {
		// Session stays open; the user fixes the content and retries.
		s.notify.Error(err.Error())
		return err
	}

	blob := cfg.FormatForSave(raw)
	if temp {
		return s.persistNew(ctx, card, blob, cfg)
	}
	return s.persistUpdate(ctx, id, blob, cfg)
}

// CancelEdit ends the session without persisting edits. The deletion
// branches match Save: empty temporary cards are discarded silently, empty
// persisted cards are deleted; non-empty content is simply abandoned.
func (s *Store) CancelEdit(ctx context.Context) error {
	s.mu.Lock()
	if s.editingID == "" {
		s.mu.Unlock()
		return nil
	}
	id := s.editingID
	raw := s.draft
	c := s.findLocked(id)
	var card model.Card
	if c != nil {
		card = *c
	}
	s.mu.Unlock()

	if c == nil {
		s.endSession(id)
		return nil
	}

	cfg, cfgErr := cardtype.Get(card.Type)
	empty := cfgErr == nil && cfg.IsEmpty(raw)
	temp := model.IsTemporaryID(id)

	switch {
	case empty && temp:
		s.discardLocal(id)
		return nil
	case empty:
		return s.DeleteCard(ctx, id)
	default:
		s.endSession(id)
		return nil
	}
}

// persistNew promotes a temporary card to a persisted one: the
// server-assigned card replaces the temporary entry in local state.
func (s *Store) persistNew(ctx context.Context, card model.Card, blob string, cfg cardtype.Config) error {
	draft := model.CardDraft{
		Type:      card.Type,
		Title:     card.Title,
		Content:   &blob,
		PositionX: card.PositionX,
		PositionY: card.PositionY,
		Width:     card.Width,
		Height:    card.Height,
		Color:     card.Color,
	}
	created, err := s.client.CreateCard(ctx, card.BoardID, draft)
	if err != nil {
		// Keep the draft content locally; the card stays temporary and the
		// user repeats the save.
		s.mu.Lock()
		if c := s.findLocked(card.ID); c != nil {
			c.Content = &blob
		}
		s.mu.Unlock()
		s.log.Error("create card", zap.String("card", card.ID), zap.Error(err))
		s.notify.Error(cfg.Messages.CreateError)
		s.endSession(card.ID)
		return fmt.Errorf("save new card: %w", err)
	}

	s.mu.Lock()
	s.removeLocked(card.ID)
	if s.board != nil {
		s.board.Cards = append(s.board.Cards, *created)
	}
	if s.editingID == card.ID {
		s.editingID = ""
		s.draft = ""
	}
	s.mu.Unlock()
	s.notify.Success(cfg.Messages.CreateSuccess)
	return nil
}

// persistUpdate applies the formatted content optimistically and issues a
// sparse PATCH of just the content field.
func (s *Store) persistUpdate(ctx context.Context, id, blob string, cfg cardtype.Config) error {
	s.mu.Lock()
	if c := s.findLocked(id); c != nil {
		c.Content = &blob
	}
	s.mu.Unlock()
	s.endSession(id)

	if _, err := s.client.UpdateCard(ctx, id, model.CardPatch{Content: &blob}); err != nil {
		s.log.Error("update card", zap.String("card", id), zap.Error(err))
		s.notify.Error(cfg.Messages.UpdateError)
		return fmt.Errorf("save card %s: %w", id, err)
	}
	s.notify.Success(cfg.Messages.UpdateSuccess)
	return nil
}

// discardLocal silently removes a temporary card and ends its session.
func (s *Store) discardLocal(id string) {
	s.mu.Lock()
	s.removeLocked(id)
	if s.editingID == id {
		s.editingID = ""
		s.draft = ""
	}
	s.mu.Unlock()
}

// endSession transitions to idle if the given card still owns the session.
func (s *Store) endSession(id string) {
	s.mu.Lock()
	if s.editingID == id {
		s.editingID = ""
		s.draft = ""
	}
	s.mu.Unlock()
}

// editableText converts a card's persisted blob into the editor's working
// representation: plain text for TEXT, the bare URL for LINK, the raw blob
// for anything else.
func editableText(c model.Card) string {
	blob := c.ContentString()
	switch c.Type {
	case model.CardTypeText:
		if t, ok := content.ParseText(blob); ok {
			return t.RichTextPlain()
		}
		return ""
	case model.CardTypeLink:
		if l, ok := content.ParseLink(blob); ok {
			return l.URL
		}
		return ""
	default:
		return blob
	}
}
