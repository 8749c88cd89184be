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

// CardRepo implements CardRepository using PostgreSQL.
type CardRepo struct{ db *DB }

// NewCardRepo constructs a card repository.
func NewCardRepo(db *DB) *CardRepo { return &CardRepo{db: db} }

const cardCols = `id, board_id, type, title, content, position_x, position_y,
width, height, z_index, color, linked_board_id, created_at, updated_at`

func scanCard(row pgx.Row, c *model.Card) error {
	return row.Scan(&c.ID, &c.BoardID, &c.Type, &c.Title, &c.Content,
		&c.PositionX, &c.PositionY, &c.Width, &c.Height, &c.ZIndex,
		&c.Color, &c.LinkedBoardID, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a card on top of the board's stack. The z-index read and
// the insert run in one transaction so two concurrent creates cannot land
// on the same layer.
func (r *CardRepo) Create(ctx context.Context, boardID string, draft model.CardDraft) (card *model.Card, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
			card = nil
		}
	}()

	const selZ = `SELECT COALESCE(MAX(z_index), -1) + 1 FROM cards WHERE board_id=$1`
	var z int
	if err = tx.QueryRow(ctx, selZ, boardID).Scan(&z); err != nil {
		return nil, err
	}

	id := uuid.Must(uuid.NewV4()).String()
	const ins = `
INSERT INTO cards (id, board_id, type, title, content, position_x, position_y, width, height, z_index, color)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + cardCols
	var c model.Card
	err = scanCard(tx.QueryRow(ctx, ins, id, boardID, draft.Type, draft.Title, draft.Content,
		draft.PositionX, draft.PositionY, draft.Width, draft.Height, z, draft.Color), &c)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("board %s: %w", boardID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

// Get returns a single card by id.
func (r *CardRepo) Get(ctx context.Context, id string) (*model.Card, error) {
	const q = `SELECT ` + cardCols + ` FROM cards WHERE id=$1`
	var c model.Card
	if err := scanCard(r.db.Pool.QueryRow(ctx, q, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByBoard returns a board's cards ordered by z-index ascending.
func (r *CardRepo) ListByBoard(ctx context.Context, boardID string) ([]model.Card, error) {
	return listCards(ctx, r.db, boardID)
}

func listCards(ctx context.Context, db *DB, boardID string) ([]model.Card, error) {
	const q = `SELECT ` + cardCols + ` FROM cards WHERE board_id=$1 ORDER BY z_index ASC, created_at ASC`
	rows, err := db.Pool.Query(ctx, q, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Card{}
	for rows.Next() {
		var c model.Card
		if err = rows.Scan(&c.ID, &c.BoardID, &c.Type, &c.Title, &c.Content,
			&c.PositionX, &c.PositionY, &c.Width, &c.Height, &c.ZIndex,
			&c.Color, &c.LinkedBoardID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update applies a sparse patch: only fields present in the patch reach SQL.
func (r *CardRepo) Update(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error) {
	sets := make([]string, 0, 11)
	args := make([]any, 0, 11)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if patch.Type != nil {
		set("type", *patch.Type)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.PositionX != nil {
		set("position_x", *patch.PositionX)
	}
	if patch.PositionY != nil {
		set("position_y", *patch.PositionY)
	}
	if patch.Width != nil {
		set("width", *patch.Width)
	}
	if patch.Height != nil {
		set("height", *patch.Height)
	}
	if patch.ZIndex != nil {
		set("z_index", *patch.ZIndex)
	}
	if patch.Color != nil {
		set("color", *patch.Color)
	}
	if patch.LinkedBoardID != nil {
		set("linked_board_id", *patch.LinkedBoardID)
	}
	if len(sets) == 0 {
		return nil, errs.ErrEmptyPatch
	}
	sets = append(sets, "updated_at=now()")
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE cards SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), cardCols)
	var c model.Card
	if err := scanCard(r.db.Pool.QueryRow(ctx, q, args...), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes a card.
func (r *CardRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM cards WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
