// Package repository defines storage interfaces for boards and cards.
package repository

import (
	"context"

	"github.com/pinwall/pinwall/internal/model"
)

// BoardRepository provides persistent access to boards.
type BoardRepository interface {
	// Create inserts a new board and returns it with server-assigned fields.
	Create(ctx context.Context, name string, description *string) (*model.Board, error)

	// Get returns a board with its cards ordered by z-index ascending.
	Get(ctx context.Context, id string) (*model.Board, error)

	// List returns all boards without their cards, newest first.
	List(ctx context.Context) ([]model.Board, error)

	// Update applies a sparse patch to board metadata.
	Update(ctx context.Context, id string, patch model.BoardPatch) (*model.Board, error)

	// Delete removes a board and, via cascade, its cards.
	Delete(ctx context.Context, id string) error
}
