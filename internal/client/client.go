// Package client implements the persistence collaborator over REST: the four
// operations the board store consumes, plus status-to-sentinel mapping.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
)

const defaultTimeout = 15 * time.Second

// Client talks to the pinwall REST API.
type Client struct {
	base string
	http *http.Client
}

// New constructs a client for the given base URL (e.g. http://localhost:8080).
func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// FetchBoard returns the board with its cards ordered by z-index ascending.
func (c *Client) FetchBoard(ctx context.Context, id string) (*model.Board, error) {
	var b model.Board
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+id, nil, &b); err != nil {
		return nil, fmt.Errorf("fetch board: %w", err)
	}
	return &b, nil
}

// CreateCard creates a card on a board; the server assigns id and z-index.
func (c *Client) CreateCard(ctx context.Context, boardID string, draft model.CardDraft) (*model.Card, error) {
	var card model.Card
	if err := c.do(ctx, http.MethodPost, "/api/boards/"+boardID+"/cards", draft, &card); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	return &card, nil
}

// UpdateCard applies a sparse patch; only non-nil fields reach the wire.
func (c *Client) UpdateCard(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error) {
	var card model.Card
	if err := c.do(ctx, http.MethodPatch, "/api/cards/"+id, patch, &card); err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	return &card, nil
}

// DeleteCard deletes a card.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/cards/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}

// CreateBoard creates an empty board.
func (c *Client) CreateBoard(ctx context.Context, name string, description *string) (*model.Board, error) {
	body := map[string]any{"name": name}
	if description != nil {
		body["description"] = *description
	}
	var b model.Board
	if err := c.do(ctx, http.MethodPost, "/api/boards", body, &b); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	return &b, nil
}

// do executes one JSON request and decodes the response into out (when
// non-nil). Non-2xx statuses map to sentinels where the core distinguishes
// them: 404 is ErrNotFound, everything else is an opaque failure.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
