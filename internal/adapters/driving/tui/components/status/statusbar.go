// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateThinking  State = "thinking"
	StateIngesting State = "ingesting"
	StateWarning   State = "warning"
	StateError     State = "error"
)

// Bar displays the loaded document, request state and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	document   string
	chunkCount int
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateThinking:
		return s.styles.Muted.Render("Thinking...")
	case StateIngesting:
		if s.message != "" {
			return s.styles.Muted.Render(fmt.Sprintf("Ingesting %s...", s.message))
		}
		return s.styles.Muted.Render("Ingesting...")
	case StateWarning:
		return s.styles.Warning.Render(s.message)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
	}
	return s.renderDocument()
}

func (s *Bar) renderDocument() string {
	if s.document == "" {
		return s.styles.Muted.Render("No document loaded")
	}
	chunks := "chunks"
	if s.chunkCount == 1 {
		chunks = "chunk"
	}
	return s.styles.Normal.Render(fmt.Sprintf("%s · %d %s", s.document, s.chunkCount, chunks))
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.Busy() {
		bindings = s.keymap.BusyHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Busy reports whether a request is in flight.
func (s *Bar) Busy() bool {
	return s.state == StateThinking || s.state == StateIngesting
}

// SetMessage sets the message shown for warning, error and ingesting states.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDocument sets the loaded document name and its chunk count.
func (s *Bar) SetDocument(name string, chunks int) {
	s.document = name
	s.chunkCount = chunks
}

// Document returns the loaded document name.
func (s *Bar) Document() string {
	return s.document
}

// ChunkCount returns the chunk count of the loaded document.
func (s *Bar) ChunkCount() int {
	return s.chunkCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear returns to the ready state and drops the message.
// The document stays.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
