package status

import (
	"errors"
	"fmt"
	"io"

	"github.com/bnema/tackcheck/internal/application"
	"github.com/bnema/tackcheck/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type frameMsg struct{}

// frame holds one application.State until the program asks for its view.
type frame struct {
	state  application.State
	opts   RenderOptions
	styles styles
	view   string
	drawn  bool
}

func newFrame(state application.State, opts RenderOptions) frame {
	return frame{state: state, opts: opts, styles: newStyles()}
}

func (f frame) Init() tea.Cmd {
	return func() tea.Msg { return frameMsg{} }
}

func (f frame) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(frameMsg); !ok {
		return f, nil
	}
	f.view = renderView(f.state, f.opts, f.styles)
	f.drawn = true
	return f, tea.Quit
}

func (f frame) View() string {
	if f.drawn {
		return f.view
	}
	if f.state.ListsStatus == domain.ResourceStatusLoading {
		return f.styles.empty.Render("Loading lists...")
	}
	return ""
}

// Render draws state once through a headless bubbletea program and returns
// the frame as a string.
func Render(state application.State, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newFrame(state, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("render status: %w", err)
	}

	drawn, ok := final.(frame)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}
	return drawn.View(), nil
}
