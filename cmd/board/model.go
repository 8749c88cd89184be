package main

import (
	"context"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pinwall/pinwall/internal/board"
	"github.com/pinwall/pinwall/internal/canvas"
	"github.com/pinwall/pinwall/internal/model"
)

// A terminal cell maps to this many canvas units. Horizontal cells are half
// as tall as they are in most fonts, so the axes scale differently.
const (
	cellUnitsX = 8.0
	cellUnitsY = 16.0
)

// Screen rows reserved above and below the canvas area.
const (
	toolbarRows = 1
	statusRows  = 1
)

type mode int

const (
	modeLoading mode = iota
	modeNormal
	modeEditing
	modeDead // board not found or unreachable on startup
)

type appModel struct {
	store   *board.Store
	boardID string
	notices *noticeFeed

	width  int
	height int
	mode   mode

	vp   *canvas.Viewport
	drag canvas.Drag

	selectedID string
	dragging   bool
	mouseCellX int
	mouseCellY int

	editText   string
	editCursor int

	statusText  string
	statusIsErr bool
	fatalText   string
}

func initialModel(store *board.Store, boardID string, notices *noticeFeed) appModel {
	return appModel{
		store:   store,
		boardID: boardID,
		notices: notices,
		mode:    modeLoading,
		vp:      canvas.NewViewport(),
	}
}

type boardLoadedMsg struct{ err error }
type storeChangedMsg struct{}
type noticeMsg notice

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadBoard(), m.waitForNotice())
}

func (m appModel) loadBoard() tea.Cmd {
	return func() tea.Msg {
		return boardLoadedMsg{err: m.store.Load(context.Background(), m.boardID)}
	}
}

func (m appModel) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-m.notices.ch)
	}
}

// storeCmd runs a store mutation off the event loop and reports back so the
// view re-renders from the fresh snapshot.
func storeCmd(fn func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(context.Background())
		return storeChangedMsg{}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		if msg.err != nil {
			m.mode = modeDead
			m.fatalText = "could not load board: " + msg.err.Error()
			return m, nil
		}
		m.mode = modeNormal
		return m, nil

	case noticeMsg:
		m.statusText = msg.text
		m.statusIsErr = msg.isErr
		return m, m.waitForNotice()

	case storeChangedMsg:
		return m.syncWithStore(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// syncWithStore derives the UI mode from the store's edit session after a
// mutation settles: the session decides, not the keypress that triggered it.
func (m appModel) syncWithStore() appModel {
	editing := m.store.EditingID()
	switch {
	case editing != "" && m.mode != modeEditing:
		m.mode = modeEditing
		m.editText = m.store.Draft()
		m.editCursor = len(m.editText)
		m.selectedID = editing
	case editing == "" && m.mode == modeEditing:
		m.mode = modeNormal
		m.editText = ""
		m.editCursor = 0
	}
	return m
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeDead {
		return m, tea.Quit
	}
	if m.mode == modeEditing {
		return m.handleEditKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "left", "h":
		m.vp.Scroll(-cellUnitsX*2, 0)
	case "right", "l":
		m.vp.Scroll(cellUnitsX*2, 0)
	case "up", "k":
		m.vp.Scroll(0, -cellUnitsY)
	case "down", "j":
		m.vp.Scroll(0, cellUnitsY)

	case "+", "=":
		m.vp.Zoom(-10)
	case "-":
		m.vp.Zoom(10)
	case "0":
		m.vp.Scale = 1
		m.vp.PanX, m.vp.PanY = 0, 0

	case "t":
		return m, m.createAtCenter(model.CardTypeText)
	case "L":
		return m, m.createAtCenter(model.CardTypeLink)

	case "enter", "e":
		if m.selectedID != "" {
			id := m.selectedID
			return m, storeCmd(func(ctx context.Context) { _ = m.store.StartEdit(ctx, id) })
		}

	case "d":
		if m.selectedID != "" {
			id := m.selectedID
			m.selectedID = ""
			return m, storeCmd(func(ctx context.Context) { _ = m.store.DeleteCard(ctx, id) })
		}

	case "r":
		return m, storeCmd(func(ctx context.Context) { _ = m.store.Refresh(ctx) })
	}
	return m, nil
}

func (m appModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.store.SetDraft(m.editText)
		return m, storeCmd(func(ctx context.Context) { _ = m.store.SaveEdit(ctx) })

	case "esc":
		m.store.SetDraft(m.editText)
		return m, storeCmd(func(ctx context.Context) { _ = m.store.CancelEdit(ctx) })

	case "backspace":
		if m.editCursor > 0 {
			m.editText = m.editText[:m.editCursor-1] + m.editText[m.editCursor:]
			m.editCursor--
		}
	case "left":
		if m.editCursor > 0 {
			m.editCursor--
		}
	case "right":
		if m.editCursor < len(m.editText) {
			m.editCursor++
		}
	case "home":
		m.editCursor = 0
	case "end":
		m.editCursor = len(m.editText)

	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			s := string(msg.Runes)
			if msg.Type == tea.KeySpace {
				s = " "
			}
			m.editText = m.editText[:m.editCursor] + s + m.editText[m.editCursor:]
			m.editCursor += len(s)
		}
	}
	return m, nil
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal && m.mode != modeEditing {
		return m, nil
	}
	m.mouseCellX, m.mouseCellY = msg.X, msg.Y
	sx, sy := cellToScreen(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			m.vp.Zoom(-30)
		} else {
			m.vp.Scroll(0, -cellUnitsY)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			m.vp.Zoom(30)
		} else {
			m.vp.Scroll(0, cellUnitsY)
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if msg.Y < toolbarRows {
			if t, ok := m.toolbarItemAt(msg.X); ok {
				m.drag.StartToolbar(t, sx, sy)
				m.dragging = true
			}
			return m, nil
		}
		if id, ok := m.cardAt(msg.X, msg.Y); ok {
			editing := m.store.EditingID() == id
			if m.drag.StartCard(id, sx, sy, editing) {
				m.dragging = true
			}
			return m, nil
		}
		m.vp.StartPan(sx, sy)
		return m, nil

	case tea.MouseActionMotion:
		if m.vp.Panning() {
			m.vp.PanTo(sx, sy)
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.vp.Panning() {
			m.vp.EndPan()
			return m, nil
		}
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		over := m.overTrash(msg.X, msg.Y)
		intent := m.drag.Drop(sx, sy, over, m.vp, 0, float64(toolbarRows)*cellUnitsY)
		return m.dispatch(intent)
	}
	return m, nil
}

// dispatch turns a completed drag gesture into a store mutation.
func (m appModel) dispatch(in canvas.Intent) (tea.Model, tea.Cmd) {
	switch in.Kind {
	case canvas.IntentClick:
		m.selectedID = in.CardID
		id := in.CardID
		return m, storeCmd(func(ctx context.Context) { _ = m.store.BringToTop(ctx, id) })

	case canvas.IntentMove:
		id, dx, dy := in.CardID, in.DeltaX, in.DeltaY
		return m, storeCmd(func(ctx context.Context) { _ = m.store.MoveCard(ctx, id, dx, dy) })

	case canvas.IntentCreate:
		t, x, y := in.Type, in.X, in.Y
		return m, storeCmd(func(ctx context.Context) {
			_, _ = m.store.CreateTemporaryCard(ctx, t, x, y)
		})

	case canvas.IntentDelete:
		if m.selectedID == in.CardID {
			m.selectedID = ""
		}
		id := in.CardID
		return m, storeCmd(func(ctx context.Context) { _ = m.store.DeleteCard(ctx, id) })
	}
	return m, nil
}

// createAtCenter drops a new card in the middle of the visible canvas.
func (m appModel) createAtCenter(t model.CardType) tea.Cmd {
	sx := float64(m.width) / 2 * cellUnitsX
	sy := float64(m.height) / 2 * cellUnitsY
	x, y := m.vp.ToCanvas(sx, sy, 0, float64(toolbarRows)*cellUnitsY)
	x -= model.DefaultCardWidth / 2
	return storeCmd(func(ctx context.Context) {
		_, _ = m.store.CreateTemporaryCard(ctx, t, x, y)
	})
}

// cardAt hit-tests the visible card stack, topmost first.
func (m appModel) cardAt(cellX, cellY int) (string, bool) {
	cards := m.store.Cards()
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].ZIndex > cards[j].ZIndex })
	for _, c := range cards {
		r := m.cardCellRect(c)
		if cellX >= r.x0 && cellX < r.x1 && cellY >= r.y0 && cellY < r.y1 {
			return c.ID, true
		}
	}
	return "", false
}

type cellRect struct{ x0, y0, x1, y1 int }

// cardCellRect projects a card through the viewport onto terminal cells.
func (m appModel) cardCellRect(c model.Card) cellRect {
	h := model.DefaultCardHeight
	if c.Height != nil {
		h = *c.Height
	}
	originY := float64(toolbarRows) * cellUnitsY
	sx, sy := m.vp.ToScreen(c.PositionX, c.PositionY, 0, originY)
	ex, ey := m.vp.ToScreen(c.PositionX+c.Width, c.PositionY+h, 0, originY)
	return cellRect{
		x0: int(sx / cellUnitsX),
		y0: int(sy / cellUnitsY),
		x1: int(ex / cellUnitsX),
		y1: int(ey / cellUnitsY),
	}
}

func cellToScreen(cellX, cellY int) (float64, float64) {
	return float64(cellX) * cellUnitsX, float64(cellY) * cellUnitsY
}

// overTrash reports whether a cell sits inside the trash target shown in the
// bottom-right corner during drags.
func (m appModel) overTrash(cellX, cellY int) bool {
	return cellX >= m.width-trashWidth && cellY >= m.height-statusRows-trashHeight
}
