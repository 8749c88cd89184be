// Command pinwall-board is a terminal client for one pinwall board: a
// pannable, zoomable canvas where cards are created, dragged, edited inline
// and deleted.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/pinwall/pinwall/internal/board"
	"github.com/pinwall/pinwall/internal/client"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "pinwall server base URL")
	boardID := flag.String("board", "", "board id to open (required)")
	logPath := flag.String("log", "", "debug log file (optional)")
	flag.Parse()

	if *boardID == "" {
		fmt.Fprintln(os.Stderr, "missing board id (--board)")
		os.Exit(1)
	}

	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	logger := zap.NewNop()
	if *logPath != "" {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{*logPath}
		cfg.ErrorOutputPaths = []string{*logPath}
		if l, err := cfg.Build(); err == nil {
			logger = l
		}
	}
	defer func() { _ = logger.Sync() }()

	notices := newNoticeFeed()
	store := board.New(client.New(*server), notices, logger)

	p := tea.NewProgram(
		initialModel(store, *boardID, notices),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// noticeFeed buffers store notifications until the event loop drains them
// into the status line.
type noticeFeed struct {
	ch chan notice
}

type notice struct {
	text  string
	isErr bool
}

func newNoticeFeed() *noticeFeed {
	return &noticeFeed{ch: make(chan notice, 16)}
}

func (f *noticeFeed) Success(msg string) { f.push(notice{text: msg}) }
func (f *noticeFeed) Error(msg string)   { f.push(notice{text: msg, isErr: true}) }

func (f *noticeFeed) push(n notice) {
	select {
	case f.ch <- n:
	default:
	}
}
