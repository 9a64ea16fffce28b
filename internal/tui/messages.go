package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/plotbench/internal/database/repository"
	"github.com/jask/plotbench/internal/pane"
	"github.com/jask/plotbench/internal/service"
	"github.com/jask/plotbench/internal/signal"
)

type StatusMsg struct {
	Text  string
	IsErr bool
}

type exportDoneMsg struct {
	snapshot repository.Snapshot
	err      error
}

type undoDoneMsg struct {
	snapshot repository.Snapshot
	found    bool
	err      error
}

type resetDoneMsg struct {
	err error
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

const exportTimeout = 5 * time.Second

// exportPaneCmd samples and stores p. It runs off the UI goroutine, so p and
// reg must be copies the UI no longer mutates.
func exportPaneCmd(e *service.Exporter, p *pane.Pane, reg *signal.Registry, d service.Domain) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		snap, err := e.ExportPane(ctx, p, reg, d)
		if err != nil {
			snap = repository.Snapshot{PaneID: p.ID, PaneTitle: p.Title}
		}
		return exportDoneMsg{snapshot: snap, err: err}
	}
}

func undoExportCmd(e *service.Exporter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		snap, found, err := e.Undo(ctx)
		return undoDoneMsg{snapshot: snap, found: found, err: err}
	}
}

func resetExportsCmd(e *service.Exporter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		return resetDoneMsg{err: e.Reset(ctx)}
	}
}
