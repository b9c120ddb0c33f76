// Package document provides the view describing the indexed document
// and the active retrieval settings.
package document

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// View is the document view.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	pipeline driving.PipelineService
	ctx      context.Context

	status       *domain.PipelineStatus
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new document view.
func NewView(s *styles.Styles, km *keymap.KeyMap, pipeline driving.PipelineService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		pipeline: pipeline,
		ctx:      context.Background(),
	}
}

// WithContext sets the context for pipeline calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the pipeline status.
func (v *View) Init() tea.Cmd {
	if v.pipeline == nil {
		return nil
	}
	return func() tea.Msg {
		st, err := v.pipeline.Status(v.ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

// Update handles messages for the document view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StatusLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		st := msg.Status
		v.status = &st
		v.scrollOffset = 0
		v.err = nil
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	case key == "up":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case key == "down":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	}
	return v, nil
}

func (v *View) visibleLines() int {
	// title, separator, help and padding
	return max(1, v.height-6)
}

func (v *View) maxScrollOffset() int {
	return max(0, len(v.buildContent())-v.visibleLines())
}

func (v *View) buildContent() []string {
	if v.status == nil {
		return nil
	}
	st := v.status

	var lines []string
	if st.Document != nil {
		lines = append(lines,
			formatField("Name", st.Document.Name),
			formatField("ID", st.Document.ID),
			formatField("Characters", fmt.Sprintf("%d", st.Document.CharCount)))
		if !st.Document.IngestedAt.IsZero() {
			lines = append(lines, formatField("Ingested", st.Document.IngestedAt.Format("2006-01-02 15:04:05")))
		}
	} else {
		lines = append(lines, formatField("Name", "(none)"))
	}
	lines = append(lines,
		formatField("Chunks", fmt.Sprintf("%d", st.IndexedChunks)),
		"",
		"Settings:",
		fmt.Sprintf("  embedding: %s", st.EmbeddingModel),
		fmt.Sprintf("  llm: %s", st.LLMModel),
		fmt.Sprintf("  chunk size: %d", st.ChunkSize),
		fmt.Sprintf("  overlap: %d", st.Overlap),
		fmt.Sprintf("  top k: %d", st.TopK))

	return lines
}

func formatField(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

// View renders the document view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Document"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	case v.status == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n\n")
	default:
		lines := v.buildContent()
		visible := v.visibleLines()
		end := min(v.scrollOffset+visible, len(lines))
		for _, line := range lines[v.scrollOffset:end] {
			b.WriteString(v.renderLine(line))
			b.WriteString("\n")
		}
		if len(lines) > visible {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
				v.scrollOffset+1, end, len(lines))))
		}
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [esc/tab] back to chat"))
	return b.String()
}

func (v *View) renderLine(line string) string {
	switch {
	case line == "Settings:":
		return v.styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "  "):
		label, value, _ := strings.Cut(line, ":")
		return v.styles.Muted.Render(label+":") + v.styles.Normal.Render(value)
	case strings.Contains(line, ":"):
		label, value, _ := strings.Cut(line, ":")
		return v.styles.Subtitle.Render(label+":") + v.styles.Normal.Render(value)
	}
	return v.styles.Normal.Render(line)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Status returns the last loaded status.
func (v *View) Status() *domain.PipelineStatus {
	return v.status
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
