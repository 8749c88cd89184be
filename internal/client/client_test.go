package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
)

func TestFetchBoard_OK(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/boards/b1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(model.Board{ID: "b1", Name: "Plans", Cards: []model.Card{{ID: "c1", ZIndex: 0}}})
	}))
	defer srv.Close()

	b, err := New(srv.URL).FetchBoard(context.Background(), "b1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if b.Name != "Plans" || len(b.Cards) != 1 {
		t.Fatalf("unexpected board: %+v", b)
	}
}

func TestFetchBoard_NotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchBoard(context.Background(), "missing")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateCard_SparsePatchEncoding(t *testing.T) {
	t.Parallel()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/cards/c1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(model.Card{ID: "c1"})
	}))
	defer srv.Close()

	patch := model.CardPatch{
		PositionX: model.Ptr(60.0),
		PositionY: model.Ptr(80.0),
		ZIndex:    model.Ptr(2),
	}
	if _, err := New(srv.URL).UpdateCard(context.Background(), "c1", patch); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("only changed fields may reach the wire, got %v", got)
	}
	if got["positionX"] != 60.0 || got["zIndex"] != 2.0 {
		t.Fatalf("unexpected body: %v", got)
	}
	if _, present := got["content"]; present {
		t.Fatalf("unset fields must be omitted")
	}
}

func TestCreateCard_PostsDraft(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/boards/b1/cards" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var draft model.CardDraft
		_ = json.NewDecoder(r.Body).Decode(&draft)
		if draft.Type != model.CardTypeText || draft.PositionX != 10 {
			t.Errorf("unexpected draft: %+v", draft)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Card{ID: "srv-1", Type: draft.Type, ZIndex: 5})
	}))
	defer srv.Close()

	card, err := New(srv.URL).CreateCard(context.Background(), "b1", model.CardDraft{
		Type: model.CardTypeText, PositionX: 10, PositionY: 20, Width: 280,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if card.ID != "srv-1" || card.ZIndex != 5 {
		t.Fatalf("unexpected card: %+v", card)
	}
}

func TestDeleteCard_NoContent(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("want DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL).DeleteCard(context.Background(), "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDo_OtherStatusIsOpaqueFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteCard(context.Background(), "c1")
	if err == nil || errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("5xx must be an opaque failure, got %v", err)
	}
}
