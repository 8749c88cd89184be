package board

import (
	"context"
	"errors"
	"testing"

	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
)

type createCall struct {
	boardID string
	draft   model.CardDraft
}

type updateCall struct {
	id    string
	patch model.CardPatch
}

type fakeClient struct {
	board    *model.Board
	fetchErr error

	creates   []createCall
	createOut *model.Card
	createErr error

	updates   []updateCall
	updateErr error
	onUpdate  func() // runs inside UpdateCard, before recording returns

	deletes   []string
	deleteErr error
}

var _ Client = (*fakeClient)(nil)

func (f *fakeClient) FetchBoard(_ context.Context, id string) (*model.Board, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	b := *f.board
	b.Cards = append([]model.Card(nil), f.board.Cards...)
	return &b, nil
}

func (f *fakeClient) CreateCard(_ context.Context, boardID string, draft model.CardDraft) (*model.Card, error) {
	f.creates = append(f.creates, createCall{boardID, draft})
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *f.createOut
	return &out, nil
}

func (f *fakeClient) UpdateCard(_ context.Context, id string, patch model.CardPatch) (*model.Card, error) {
	f.updates = append(f.updates, updateCall{id, patch})
	if f.onUpdate != nil {
		cb := f.onUpdate
		f.onUpdate = nil
		cb()
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &model.Card{ID: id}, nil
}

func (f *fakeClient) DeleteCard(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

func textBlob(s string) *string {
	b := `{"richText":` + jsonString(s) + `}`
	return &b
}

func jsonString(s string) string { return `"` + s + `"` }

func testBoard() *model.Board {
	return &model.Board{
		ID:   "b1",
		Name: "Plans",
		Cards: []model.Card{
			{ID: "a", BoardID: "b1", Type: model.CardTypeText, PositionX: 0, PositionY: 0, Width: 280, ZIndex: 0, Content: textBlob("alpha")},
			{ID: "b", BoardID: "b1", Type: model.CardTypeText, PositionX: 50, PositionY: 50, Width: 280, ZIndex: 1, Content: textBlob("beta")},
		},
	}
}

func loadedStore(t *testing.T, client *fakeClient, notify Notifier) *Store {
	t.Helper()
	s := New(client, notify, nil)
	if err := s.Load(context.Background(), "b1"); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoad_NotFoundIsTerminal(t *testing.T) {
	t.Parallel()
	n := &recordingNotifier{}
	s := New(&fakeClient{fetchErr: errs.ErrNotFound}, n, nil)
	err := s.Load(context.Background(), "missing")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if len(n.errors) != 1 || n.errors[0] != "Board not found" {
		t.Fatalf("want board-not-found notification, got %v", n.errors)
	}
}

func TestLoad_TransientFailureKeepsPriorState(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard()}
	s := loadedStore(t, client, nil)

	client.fetchErr = errors.New("boom")
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatalf("want refresh error")
	}
	if len(s.Cards()) != 2 {
		t.Fatalf("prior state must survive a failed fetch, got %d cards", len(s.Cards()))
	}
}

func TestMoveCard_CollisionDrivenStacking(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard()}
	s := loadedStore(t, client, nil)

	// A (z=0) moved onto B (z=1) lands strictly on top: z=2.
	if err := s.MoveCard(context.Background(), "a", 60, 60); err != nil {
		t.Fatalf("move: %v", err)
	}
	a, _ := s.Card("a")
	if a.PositionX != 60 || a.PositionY != 60 || a.ZIndex != 2 {
		t.Fatalf("want (60,60,z2), got (%v,%v,z%d)", a.PositionX, a.PositionY, a.ZIndex)
	}

	if len(client.updates) != 1 {
		t.Fatalf("want a single PATCH, got %d", len(client.updates))
	}
	p := client.updates[0].patch
	if p.PositionX == nil || p.PositionY == nil || p.ZIndex == nil || *p.ZIndex != 2 {
		t.Fatalf("PATCH must bundle position and promoted z-index, got %+v", p)
	}
}

func TestMoveCard_NoOverlapOmitsZIndex(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard()}
	s := loadedStore(t, client, nil)

	if err := s.MoveCard(context.Background(), "a", 5000, 5000); err != nil {
		t.Fatalf("move: %v", err)
	}
	if p := client.updates[0].patch; p.ZIndex != nil {
		t.Fatalf("no collision must mean no z-index in PATCH, got %+v", p)
	}
}

func TestMoveCard_ConcurrentMoveDropped(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard()}
	s := loadedStore(t, client, nil)

	// Re-enter MoveCard while the first request is in flight: it must be
	// dropped, not queued.
	client.onUpdate = func() {
		if err := s.MoveCard(context.Background(), "a", 10, 10); err != nil {
			t.Errorf("dropped move must not error: %v", err)
		}
	}
	if err := s.MoveCard(context.Background(), "a", 60, 60); err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(client.updates) != 1 {
		t.Fatalf("in-flight dedup failed: %d PATCHes issued", len(client.updates))
	}

	// After the first settles, moves flow again.
	if err := s.MoveCard(context.Background(), "a", 1, 1); err != nil {
		t.Fatalf("move after settle: %v", err)
	}
	if len(client.updates) != 2 {
		t.Fatalf("want second PATCH after first settled, got %d", len(client.updates))
	}
}

func TestMoveCard_FailureKeepsOptimisticState(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard(), updateErr: errors.New("server down")}
	n := &recordingNotifier{}
	s := loadedStore(t, client, n)

	if err := s.MoveCard(context.Background(), "a", 60, 60); err == nil {
		t.Fatalf("want move error")
	}
	a, _ := s.Card("a")
	if a.PositionX != 60 || a.PositionY != 60 {
		t.Fatalf("optimistic position must not be rolled back, got (%v,%v)", a.PositionX, a.PositionY)
	}
	if len(n.errors) != 1 {
		t.Fatalf("failure must surface a notification, got %v", n.errors)
	}
}

func TestBringToTop_Idempotent(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard()}
	s := loadedStore(t, client, nil)

	if err := s.BringToTop(context.Background(), "a"); err != nil {
		t.Fatalf("bring to top: %v", err)
	}
	a, _ := s.Card("a")
	if a.ZIndex != 2 {
		t.Fatalf("want z=2, got %d", a.ZIndex)
	}
	if len(client.updates) != 1 || client.updates[0].patch.ZIndex == nil {
		t.Fatalf("want one z-index PATCH, got %+v", client.updates)
	}

	// Second call is a no-op: already topmost.
	if err := s.BringToTop(context.Background(), "a"); err != nil {
		t.Fatalf("second bring to top: %v", err)
	}
	if len(client.updates) != 1 {
		t.Fatalf("topmost card must not be re-persisted")
	}
}

func TestDeleteCard_OptimisticWithNotification(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard()}
	n := &recordingNotifier{}
	s := loadedStore(t, client, n)

	if err := s.DeleteCard(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Card("a"); ok {
		t.Fatalf("card must be removed locally")
	}
	if len(client.deletes) != 1 || client.deletes[0] != "a" {
		t.Fatalf("want DELETE for a, got %v", client.deletes)
	}
	if len(n.successes) != 1 {
		t.Fatalf("want delete notification, got %v", n.successes)
	}
}

func TestCreateTemporaryCard_NoNetworkCall(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard()}
	s := loadedStore(t, client, nil)

	card, err := s.CreateTemporaryCard(context.Background(), model.CardTypeText, 300, 400)
	if err != nil {
		t.Fatalf("create temporary: %v", err)
	}
	if !model.IsTemporaryID(card.ID) {
		t.Fatalf("want temporary id, got %q", card.ID)
	}
	if card.ZIndex != 2 {
		t.Fatalf("new card must start above the stack, got z=%d", card.ZIndex)
	}
	if s.EditingID() != card.ID {
		t.Fatalf("temporary card must become the edit target")
	}
	if len(client.creates)+len(client.updates)+len(client.deletes) != 0 {
		t.Fatalf("creating a temporary card must not touch the network")
	}
}

func TestCreateTemporaryCard_UnknownType(t *testing.T) {
	t.Parallel()
	client := &fakeClient{board: testBoard()}
	s := loadedStore(t, client, nil)
	if _, err := s.CreateTemporaryCard(context.Background(), model.CardType("DOODLE"), 0, 0); !errors.Is(err, errs.ErrUnsupportedType) {
		t.Fatalf("want ErrUnsupportedType, got %v", err)
	}
}
