package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
)

// BoardRepo implements BoardRepository using PostgreSQL.
type BoardRepo struct{ db *DB }

// NewBoardRepo constructs a board repository.
func NewBoardRepo(db *DB) *BoardRepo { return &BoardRepo{db: db} }

const boardCols = `id, name, description, created_at, updated_at`

func scanBoard(row pgx.Row, b *model.Board) error {
	return row.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt)
}

// Create inserts a new board.
func (r *BoardRepo) Create(ctx context.Context, name string, description *string) (*model.Board, error) {
	id := uuid.Must(uuid.NewV4()).String()
	const q = `
INSERT INTO boards (id, name, description)
VALUES ($1, $2, $3)
RETURNING ` + boardCols
	var b model.Board
	if err := scanBoard(r.db.Pool.QueryRow(ctx, q, id, name, description), &b); err != nil {
		return nil, err
	}
	b.Cards = []model.Card{}
	return &b, nil
}

// Get returns a board with its cards ordered by z-index ascending.
func (r *BoardRepo) Get(ctx context.Context, id string) (*model.Board, error) {
	const q = `SELECT ` + boardCols + ` FROM boards WHERE id=$1`
	var b model.Board
	if err := scanBoard(r.db.Pool.QueryRow(ctx, q, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	cards, err := listCards(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	b.Cards = cards
	return &b, nil
}

// List returns all boards without their cards, newest first.
func (r *BoardRepo) List(ctx context.Context) ([]model.Board, error) {
	const q = `SELECT ` + boardCols + ` FROM boards ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Board{}
	for rows.Next() {
		var b model.Board
		if err = rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update applies a sparse patch to board metadata.
func (r *BoardRepo) Update(ctx context.Context, id string, patch model.BoardPatch) (*model.Board, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if len(sets) == 0 {
		return nil, errs.ErrEmptyPatch
	}
	sets = append(sets, "updated_at=now()")
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE boards SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), boardCols)
	var b model.Board
	if err := scanBoard(r.db.Pool.QueryRow(ctx, q, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Delete removes a board; cards go with it via ON DELETE CASCADE.
func (r *BoardRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM boards WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
