package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pinwall/pinwall/internal/content"
	"github.com/pinwall/pinwall/internal/model"
)

// Trash target dimensions, in cells. Shown only while a drag is active.
const (
	trashWidth  = 11
	trashHeight = 2
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	toolbarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	editStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	trashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	editingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)

	typeStyles = map[model.CardType]lipgloss.Style{
		model.CardTypeText:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		model.CardTypeLink:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		model.CardTypeTodo:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		model.CardTypeImage:    lipgloss.NewStyle().Foreground(lipgloss.Color("171")),
		model.CardTypeColumn:   lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		model.CardTypeSubboard: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	}
)

type toolbarItem struct {
	label string
	t     model.CardType
}

var toolbarItems = []toolbarItem{
	{"[Text]", model.CardTypeText},
	{"[Link]", model.CardTypeLink},
	{"[Todo]", model.CardTypeTodo},
	{"[Image]", model.CardTypeImage},
	{"[Column]", model.CardTypeColumn},
	{"[Board]", model.CardTypeSubboard},
}

// toolbarItemAt resolves which toolbar item, if any, sits at a cell column.
func (m appModel) toolbarItemAt(cellX int) (model.CardType, bool) {
	x := len(m.toolbarPrefix())
	for _, it := range toolbarItems {
		if cellX >= x && cellX < x+len(it.label) {
			return it.t, true
		}
		x += len(it.label) + 1
	}
	return "", false
}

func (m appModel) toolbarPrefix() string {
	name := m.store.BoardName()
	if name == "" {
		name = m.boardID
	}
	return " " + name + "  "
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	switch m.mode {
	case modeLoading:
		return "\n  loading board…"
	case modeDead:
		return "\n  " + errorStyle.Render(m.fatalText) + "\n\n  press any key to exit"
	}

	var sb strings.Builder
	sb.WriteString(m.renderToolbar())
	sb.WriteByte('\n')
	sb.WriteString(m.renderCanvas())
	sb.WriteString(m.renderStatus())
	return sb.String()
}

func (m appModel) renderToolbar() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.toolbarPrefix()))
	used := len(m.toolbarPrefix())
	for _, it := range toolbarItems {
		if used+len(it.label)+1 > m.width {
			break
		}
		sb.WriteString(toolbarStyle.Render(it.label))
		sb.WriteByte(' ')
		used += len(it.label) + 1
	}
	return sb.String()
}

// cell is one canvas grid position: a rune plus a palette index.
type cell struct {
	r  rune
	st int
}

// renderCanvas projects the card stack onto a cell grid, lowest z first so
// higher cards overdraw lower ones.
func (m appModel) renderCanvas() string {
	rows := m.height - toolbarRows - statusRows
	if rows < 1 {
		return ""
	}

	styles := []lipgloss.Style{{}} // index 0: unstyled
	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, m.width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	editingID := m.store.EditingID()
	for _, c := range sortedByZ(m.store.Cards()) {
		st := typeStyles[c.Type]
		switch {
		case c.ID == editingID:
			st = editingStyle
		case c.ID == m.selectedID:
			st = selectedStyle
		}
		styles = append(styles, st)
		m.drawCard(grid, c, len(styles)-1, c.ID == editingID)
	}

	if m.dragging {
		styles = append(styles, trashStyle)
		m.drawTrash(grid, len(styles)-1)
	}

	var sb strings.Builder
	for y := 0; y < rows; y++ {
		sb.WriteString(renderRow(grid[y], styles))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// renderRow batches consecutive cells with the same style into one Render call.
func renderRow(row []cell, styles []lipgloss.Style) string {
	var sb strings.Builder
	var run []rune
	cur := 0
	flush := func() {
		if len(run) == 0 {
			return
		}
		if cur == 0 {
			sb.WriteString(string(run))
		} else {
			sb.WriteString(styles[cur].Render(string(run)))
		}
		run = run[:0]
	}
	for _, c := range row {
		if c.st != cur {
			flush()
			cur = c.st
		}
		run = append(run, c.r)
	}
	flush()
	return strings.TrimRight(sb.String(), " ")
}

func (m appModel) drawCard(grid [][]cell, c model.Card, st int, editing bool) {
	r := m.cardCellRect(c)
	// Shift from screen rows to canvas grid rows.
	r.y0 -= toolbarRows
	r.y1 -= toolbarRows
	if r.x1-r.x0 < 2 {
		r.x1 = r.x0 + 2
	}
	if r.y1-r.y0 < 2 {
		r.y1 = r.y0 + 2
	}

	put := func(x, y int, ch rune) {
		if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
			return
		}
		grid[y][x] = cell{r: ch, st: st}
	}

	for x := r.x0; x < r.x1; x++ {
		put(x, r.y0, '─')
		put(x, r.y1-1, '─')
	}
	for y := r.y0; y < r.y1; y++ {
		put(r.x0, y, '│')
		put(r.x1-1, y, '│')
	}
	put(r.x0, r.y0, '┌')
	put(r.x1-1, r.y0, '┐')
	put(r.x0, r.y1-1, '└')
	put(r.x1-1, r.y1-1, '┘')
	for y := r.y0 + 1; y < r.y1-1; y++ {
		for x := r.x0 + 1; x < r.x1-1; x++ {
			put(x, y, ' ')
		}
	}

	label := m.cardLabel(c, editing)
	innerW := r.x1 - r.x0 - 2
	y := r.y0 + 1
	for _, line := range strings.Split(label, "\n") {
		if y >= r.y1-1 {
			break
		}
		runes := []rune(line)
		if len(runes) > innerW {
			runes = runes[:innerW]
		}
		for i, ch := range runes {
			put(r.x0+1+i, y, ch)
		}
		y++
	}
}

// cardLabel picks the text shown inside the card frame.
func (m appModel) cardLabel(c model.Card, editing bool) string {
	if editing {
		return m.editText + "▏"
	}
	blob := c.ContentString()
	switch c.Type {
	case model.CardTypeText:
		if t, ok := content.ParseText(blob); ok {
			return t.RichTextPlain()
		}
	case model.CardTypeLink:
		if l, ok := content.ParseLink(blob); ok {
			return l.URL
		}
	}
	if c.Title != nil && *c.Title != "" {
		return *c.Title
	}
	return string(c.Type)
}

func (m appModel) drawTrash(grid [][]cell, st int) {
	label := [trashHeight]string{"╳ ╳ ╳ ╳ ╳", "  trash  "}
	baseY := len(grid) - trashHeight
	baseX := m.width - trashWidth
	for dy, line := range label {
		y := baseY + dy
		if y < 0 || y >= len(grid) {
			continue
		}
		for dx, ch := range []rune(" " + line + " ") {
			x := baseX + dx
			if x < 0 || x >= len(grid[y]) {
				continue
			}
			grid[y][x] = cell{r: ch, st: st}
		}
	}
}

func (m appModel) renderStatus() string {
	if m.mode == modeEditing {
		return m.renderEditLine()
	}

	left := m.statusText
	style := successStyle
	if m.statusIsErr {
		style = errorStyle
	}
	if left == "" {
		left = "click: select · drag: move · t/L: new card · e: edit · d: delete · r: refresh · q: quit"
		style = statusStyle
	}
	right := fmt.Sprintf(" %3.0f%% ", m.vp.Scale*100)
	pad := m.width - len(left) - len(right)
	if pad < 1 {
		if len(left) > m.width-len(right)-1 {
			left = left[:max(0, m.width-len(right)-1)]
		}
		pad = 1
	}
	return style.Render(left) + strings.Repeat(" ", pad) + statusStyle.Render(right)
}

func (m appModel) renderEditLine() string {
	before := m.editText[:m.editCursor]
	var under, after string
	if m.editCursor < len(m.editText) {
		under = string(m.editText[m.editCursor])
		after = m.editText[m.editCursor+1:]
	} else {
		under = " "
	}
	line := editStyle.Render("edit ▸ "+before) + cursorStyle.Render(under) + editStyle.Render(after)
	hint := "  (enter: save · esc: cancel)"
	return line + statusStyle.Render(hint)
}

func sortedByZ(cards []model.Card) []model.Card {
	out := append([]model.Card(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}
