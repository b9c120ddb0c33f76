package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/document"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	chatView     *chat.View
	documentView *document.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// program is set while Run is active so background events can be sent in.
	mu      sync.Mutex
	program *tea.Program

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		chatView:     chat.NewView(s, km, ports.Pipeline),
		documentView: document.NewView(s, km, ports.Pipeline),
		currentView:  messages.ViewChat,
	}, nil
}

// WithContext sets the context used for pipeline calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docqa"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewDocument {
			return a, a.documentView.Init()
		}
		return a, nil

	case messages.StatusLoaded:
		a.chatView, cmd = a.chatView.Update(msg)
		a.documentView, _ = a.documentView.Update(msg)
		return a, cmd

	// Requests started in the chat finish there whatever view is showing.
	case messages.AnswerReceived, messages.NoticeReceived, messages.IngestCompleted,
		messages.ConversationCleared, messages.PromptReloaded, spinner.TickMsg:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
	}

	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocument:
		a.documentView, cmd = a.documentView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewChat:
		switch {
		case keymap.Matches(key, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(key, a.keymap.Document):
			a.currentView = messages.ViewDocument
			return a, a.documentView.Init()
		case keymap.Matches(key, a.keymap.Help):
			a.currentView = messages.ViewHelp
			return a, nil
		}
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ViewDocument:
		a.documentView, cmd = a.documentView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		if keymap.Matches(key, a.keymap.Back) || keymap.Matches(key, a.keymap.Help) {
			a.currentView = messages.ViewChat
		}
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDocument:
		return a.documentView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewChat:
	}
	return a.chatView.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Chat:
  (type)          Ask a question about the document
  enter           Send
  /ingest <path>  Load a document, replacing the current one
  /clear, ctrl+l  Clear the conversation
  pgup/pgdn       Scroll the transcript
  tab             Document and settings
  esc, ctrl+c     Quit

Retry notices appear in the status bar while an answer is pending.

` + a.styles.Help.Render("[esc] back to chat")
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))

	a.mu.Lock()
	a.program = p
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.program = nil
		a.mu.Unlock()
	}()

	_, err := p.Run()
	return err
}

// Send delivers msg to the running program. It is a no-op when the
// program is not running, and is safe to call from other goroutines.
func (a *App) Send(msg tea.Msg) {
	a.mu.Lock()
	p := a.program
	a.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// PromptReloaded reports a changed prompt template to the running program.
func (a *App) PromptReloaded(name string) {
	a.Send(messages.PromptReloaded{Name: name})
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and its views.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	a.documentView.SetDimensions(width, height)
}
