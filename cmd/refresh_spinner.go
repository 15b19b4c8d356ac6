package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const refreshLabel = "Refreshing lists and catalog"

type refreshFinishedMsg struct {
	err error
}

// refreshProgress animates while both sources are fetched and shows how long
// the refresh has been running.
type refreshProgress struct {
	spinner spinner.Model
	refresh tea.Cmd
	started time.Time
	elapsed time.Duration
	err     error
	done    bool
}

func newRefreshProgress(ctx context.Context, refresh func(context.Context) error, now time.Time) refreshProgress {
	return refreshProgress{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("108"))),
		),
		refresh: func() tea.Msg {
			return refreshFinishedMsg{err: refresh(ctx)}
		},
		started: now,
	}
}

func (m refreshProgress) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh)
}

func (m refreshProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.elapsed = msg.Time.Sub(m.started)
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case refreshFinishedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m refreshProgress) View() string {
	if m.done {
		return ""
	}
	if m.elapsed < time.Second {
		return fmt.Sprintf("%s %s...", m.spinner.View(), refreshLabel)
	}
	return fmt.Sprintf("%s %s... %ds", m.spinner.View(), refreshLabel, int(m.elapsed/time.Second))
}

// runRefreshSpinner animates on output until refresh returns, then returns
// refresh's error. An interrupted run reports the context error.
func runRefreshSpinner(ctx context.Context, output io.Writer, refresh func(context.Context) error) error {
	p := tea.NewProgram(
		newRefreshProgress(ctx, refresh, time.Now()),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run refresh spinner: %w", err)
	}

	progress, ok := final.(refreshProgress)
	if !ok {
		return fmt.Errorf("refresh spinner ended with %T", final)
	}
	return progress.err
}
