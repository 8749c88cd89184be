// Package service holds the validation layer between transport and storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
	"github.com/pinwall/pinwall/internal/repository"
)

const maxBoardNameLen = 200

// BoardService defines operations over boards.
type BoardService interface {
	// Create makes an empty board.
	Create(ctx context.Context, name string, description *string) (*model.Board, error)
	// Get returns a board with cards ordered by z-index ascending.
	Get(ctx context.Context, id string) (*model.Board, error)
	// List returns all boards without cards.
	List(ctx context.Context) ([]model.Board, error)
	// Update applies a sparse metadata patch.
	Update(ctx context.Context, id string, patch model.BoardPatch) (*model.Board, error)
	// Delete removes a board and its cards.
	Delete(ctx context.Context, id string) error
}

type BoardServiceImpl struct {
	repo repository.BoardRepository
}

// NewBoardService constructs BoardService.
func NewBoardService(repo repository.BoardRepository) *BoardServiceImpl {
	return &BoardServiceImpl{repo: repo}
}

// Create validates the name and delegates to the repository.
// Validation rules:
// - name non-blank after trimming
// - name length <= maxBoardNameLen
func (s *BoardServiceImpl) Create(ctx context.Context, name string, description *string) (*model.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("validation: empty board name")
	}
	if len(name) > maxBoardNameLen {
		return nil, fmt.Errorf("validation: board name too long (%d > %d)", len(name), maxBoardNameLen)
	}
	return s.repo.Create(ctx, name, description)
}

// Get fetches a single board.
func (s *BoardServiceImpl) Get(ctx context.Context, id string) (*model.Board, error) {
	if id == "" {
		return nil, errors.New("validation: empty board id")
	}
	return s.repo.Get(ctx, id)
}

// List returns all boards.
func (s *BoardServiceImpl) List(ctx context.Context) ([]model.Board, error) {
	return s.repo.List(ctx)
}

// Update applies a sparse patch. An empty patch is rejected rather than
// turned into a no-op write.
func (s *BoardServiceImpl) Update(ctx context.Context, id string, patch model.BoardPatch) (*model.Board, error) {
	if id == "" {
		return nil, errors.New("validation: empty board id")
	}
	if patch.IsZero() {
		return nil, errs.ErrEmptyPatch
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, errors.New("validation: empty board name")
		}
		patch.Name = &trimmed
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes a board.
func (s *BoardServiceImpl) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("validation: empty board id")
	}
	return s.repo.Delete(ctx, id)
}
