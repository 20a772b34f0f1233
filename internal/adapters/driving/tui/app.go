// Package tui implements the interactive chat terminal UI following the
// Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docuchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driving"
)

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// Messages produced by the streaming goroutine.
type (
	// deltaMsg signals the assistant reply grew; the transcript re-reads
	// service state rather than carrying the fragment itself.
	deltaMsg struct{}

	// doneMsg signals the turn finished cleanly.
	doneMsg struct{}

	// errMsg signals the turn failed.
	errMsg struct{ err error }
)

// App is the chat TUI application. One turn streams at a time; fragments
// arrive over a channel bridged into bubbletea messages.
type App struct {
	chat   driving.ChatService
	styles *styles.Styles

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	events    chan tea.Msg
	streaming bool
	cancel    context.CancelFunc

	width  int
	height int
	ready  bool
	err    error
}

// NewApp creates the chat TUI over a chat service.
func NewApp(chat driving.ChatService) *App {
	input := textarea.New()
	input.Placeholder = "Ask about the documentation…"
	input.CharLimit = 4000
	input.SetHeight(2)
	input.ShowLineNumbers = false
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		chat:    chat,
		styles:  styles.DefaultStyles(),
		input:   input,
		spinner: sp,
		events:  make(chan tea.Msg, 64),
	}
}

// Init starts the event pump.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.waitForEvent())
}

// waitForEvent bridges the streaming channel into the update loop.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-a.events
	}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.ready = true
		a.refreshTranscript()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			if a.cancel != nil {
				a.cancel()
			}
			return a, tea.Quit

		case tea.KeyCtrlN:
			if !a.streaming {
				a.chat.NewSession()
				a.err = nil
				a.refreshTranscript()
			}
			return a, nil

		case tea.KeyCtrlO:
			if !a.streaming {
				a.switchToNextSession()
			}
			return a, nil

		case tea.KeyCtrlD:
			if !a.streaming {
				state := a.chat.State()
				_ = a.chat.DeleteSession(state.ActiveID)
				a.err = nil
				a.refreshTranscript()
			}
			return a, nil

		case tea.KeyEnter:
			if !a.streaming {
				return a, a.send()
			}
			return a, nil
		}

	case deltaMsg:
		a.refreshTranscript()
		return a, a.waitForEvent()

	case doneMsg:
		a.streaming = false
		a.cancel = nil
		a.refreshTranscript()
		return a, a.waitForEvent()

	case errMsg:
		a.streaming = false
		a.cancel = nil
		a.err = msg.err
		a.refreshTranscript()
		return a, a.waitForEvent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// send launches one streaming turn on a background goroutine.
func (a *App) send() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return nil
	}
	a.input.Reset()
	a.err = nil
	a.streaming = true

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go func() {
		defer cancel()
		err := a.chat.Send(ctx, text, func(string) {
			a.events <- deltaMsg{}
		})
		if err != nil {
			a.events <- errMsg{err: err}
			return
		}
		a.events <- doneMsg{}
	}()

	return a.spinner.Tick
}

// switchToNextSession cycles through sessions in order.
func (a *App) switchToNextSession() {
	state := a.chat.State()
	if len(state.Sessions) < 2 {
		return
	}
	for i, sess := range state.Sessions {
		if sess.ID == state.ActiveID {
			next := state.Sessions[(i+1)%len(state.Sessions)]
			_ = a.chat.SwitchSession(next.ID)
			break
		}
	}
	a.err = nil
	a.refreshTranscript()
}

// layout sizes the viewport and input to the terminal.
func (a *App) layout() {
	inputHeight := a.input.Height() + 2 // border
	headerHeight := 2
	footerHeight := 1

	a.viewport = viewport.New(a.width, a.height-inputHeight-headerHeight-footerHeight)
	a.input.SetWidth(a.width - 4)
}

// refreshTranscript re-renders the active session into the viewport.
func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}

	state := a.chat.State()
	sess := state.Active()
	if sess == nil {
		return
	}

	var b strings.Builder
	for _, msg := range sess.Messages {
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(a.styles.User.Render("You"))
		case domain.RoleAssistant:
			b.WriteString(a.styles.Assistant.Render("Assistant"))
		default:
			continue
		}
		b.WriteString("\n")
		b.WriteString(wrap(msg.Content, a.viewport.Width))
		b.WriteString("\n\n")
	}
	if sess.Error != "" {
		b.WriteString(a.styles.Error.Render("Error: " + sess.Error))
		b.WriteString("\n")
	}

	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

// View renders the UI.
func (a *App) View() string {
	if !a.ready {
		return "Loading…"
	}

	state := a.chat.State()
	sess := state.Active()
	title := "docuchat"
	if sess != nil {
		title = fmt.Sprintf("docuchat — %s (%d/%d)",
			sess.Title, sessionIndex(state)+1, len(state.Sessions))
	}

	header := a.styles.Title.Render(title)
	if a.streaming {
		header += "  " + a.spinner.View() + a.styles.Muted.Render("thinking…")
	}

	footer := a.styles.Muted.Render(
		"enter send · ctrl+n new · ctrl+o next · ctrl+d delete · esc quit")
	if a.err != nil {
		footer = a.styles.Error.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.viewport.View(),
		a.styles.InputBorder.Render(a.input.View()),
		footer,
	)
}

// sessionIndex locates the active session's position.
func sessionIndex(state domain.ChatState) int {
	for i, sess := range state.Sessions {
		if sess.ID == state.ActiveID {
			return i
		}
	}
	return 0
}

// wrap soft-wraps text to the given width.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
