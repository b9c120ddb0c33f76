// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// User-facing replies for answers that carry no generated text.
const (
	NotProcessedReply = "Please process the document first."
	NoContextReply    = "No relevant context found. Try processing the document first."
	NoTextReply       = "Could not extract text. The PDF may be scanned or image-based."
)

const (
	ingestCommand = "/ingest"
	clearCommand  = "/clear"

	// header, spinner line, input box, status bar and spacing
	reservedLines = 8
	noticeBuffer  = 8
)

type entryKind int

const (
	entryQuestion entryKind = iota
	entryAnswer
	entryInfo
	entryError
)

type entry struct {
	kind    entryKind
	text    string
	sources []domain.Source
}

// View is the chat view: transcript, input line, spinner and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	statusbar  *status.Bar
	transcript viewport.Model
	spinner    spinner.Model

	pipeline driving.PipelineService
	ctx      context.Context
	readFile func(string) ([]byte, error)

	entries []entry
	notices chan string
	busy    bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, pipeline driving.PipelineService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Answer

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		statusbar:  status.NewBar(s, km),
		transcript: viewport.New(80, 16),
		spinner:    sp,
		pipeline:   pipeline,
		ctx:        context.Background(),
		readFile:   os.ReadFile,
		width:      80,
		height:     24,
	}
	if pipeline != nil {
		for _, turn := range pipeline.History() {
			v.entries = append(v.entries,
				entry{kind: entryQuestion, text: turn.Question},
				entry{kind: entryAnswer, text: turn.Answer},
			)
		}
	}
	v.refresh()
	return v
}

// WithContext sets the context for pipeline calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadStatus())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.NoticeReceived:
		if !v.busy {
			return v, nil
		}
		v.statusbar.SetState(status.StateWarning)
		v.statusbar.SetMessage(msg.Notice)
		return v, waitForNotice(v.notices)

	case messages.IngestCompleted:
		v.handleIngest(msg)
		return v, nil

	case messages.StatusLoaded:
		if msg.Err == nil {
			v.setDocument(msg.Status)
		}
		return v, nil

	case messages.ConversationCleared:
		v.entries = nil
		v.err = nil
		v.statusbar.Clear()
		v.refresh()
		return v, nil

	case messages.PromptReloaded:
		v.appendEntry(entry{kind: entryInfo, text: fmt.Sprintf("Reloaded prompt %q.", msg.Name)})
		return v, nil

	case messages.ErrorOccurred:
		v.fail(msg.Err)
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.ScrollUp):
		v.transcript.SetYOffset(v.transcript.YOffset - v.halfPage())
		return v, nil

	case keymap.Matches(key, v.keymap.ScrollDown):
		v.transcript.SetYOffset(v.transcript.YOffset + v.halfPage())
		return v, nil

	case keymap.Matches(key, v.keymap.Clear):
		if v.busy {
			return v, nil
		}
		return v, v.clearConversation()

	case keymap.Matches(key, v.keymap.Send):
		return v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the input line as a question or a chat command.
func (v *View) submit() (*View, tea.Cmd) {
	if v.busy {
		return v, nil
	}
	text := v.input.Take()
	if text == "" {
		return v, nil
	}

	switch {
	case text == clearCommand:
		return v, v.clearConversation()
	case text == ingestCommand || strings.HasPrefix(text, ingestCommand+" "):
		path := strings.TrimSpace(strings.TrimPrefix(text, ingestCommand))
		if path == "" {
			v.appendEntry(entry{kind: entryError, text: "Usage: /ingest <path>"})
			return v, nil
		}
		return v, v.startIngest(path)
	}

	v.appendEntry(entry{kind: entryQuestion, text: text})
	return v, v.startAsk(text)
}

func (v *View) startAsk(question string) tea.Cmd {
	v.busy = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	v.notices = make(chan string, noticeBuffer)
	v.refresh()
	return tea.Batch(v.spinner.Tick, v.ask(question, v.notices), waitForNotice(v.notices))
}

// ask runs the question off the UI loop. Retry notices raised while it
// waits are forwarded through ch, which is closed when Ask returns.
func (v *View) ask(question string, ch chan string) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		if v.pipeline == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoPipelineService}
		}

		ctx := driving.WithNoticeSink(v.ctx, func(notice string) {
			select {
			case ch <- notice:
			default:
			}
		})
		result, err := v.pipeline.Ask(ctx, question)
		return messages.AnswerReceived{Question: question, Result: result, Err: err}
	}
}

func waitForNotice(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		notice, ok := <-ch
		if !ok {
			return nil
		}
		return messages.NoticeReceived{Notice: notice}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.busy = false
	v.notices = nil
	v.statusbar.Clear()

	if msg.Err != nil {
		v.fail(msg.Err)
		return
	}

	switch msg.Result.Kind {
	case domain.AnswerNotProcessed:
		v.appendEntry(entry{kind: entryInfo, text: NotProcessedReply})
	case domain.AnswerNoContext:
		v.appendEntry(entry{kind: entryInfo, text: NoContextReply})
	case domain.AnswerText:
		v.appendEntry(entry{kind: entryAnswer, text: msg.Result.Text, sources: msg.Result.Sources})
	}
}

func (v *View) startIngest(path string) tea.Cmd {
	v.busy = true
	v.err = nil
	name := filepath.Base(path)
	v.statusbar.SetState(status.StateIngesting)
	v.statusbar.SetMessage(name)
	v.refresh()

	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		if v.pipeline == nil {
			return messages.IngestCompleted{Err: ErrNoPipelineService}
		}
		data, err := v.readFile(path)
		if err != nil {
			return messages.IngestCompleted{Err: fmt.Errorf("reading %s: %w", name, err)}
		}
		stats, err := v.pipeline.IngestFile(v.ctx, name, data)
		return messages.IngestCompleted{Stats: stats, Err: err}
	})
}

func (v *View) handleIngest(msg messages.IngestCompleted) {
	v.busy = false
	v.statusbar.Clear()

	if errors.Is(msg.Err, domain.ErrNoExtractableText) {
		v.appendEntry(entry{kind: entryError, text: NoTextReply})
		return
	}
	if msg.Err != nil {
		v.fail(msg.Err)
		return
	}

	v.statusbar.SetDocument(msg.Stats.FileName, msg.Stats.ChunkCount)
	v.appendEntry(entry{
		kind: entryInfo,
		text: fmt.Sprintf("Processed %s: %d characters in %d chunks.",
			msg.Stats.FileName, msg.Stats.CharCount, msg.Stats.ChunkCount),
	})
}

func (v *View) clearConversation() tea.Cmd {
	return func() tea.Msg {
		if v.pipeline != nil {
			v.pipeline.ClearHistory()
		}
		return messages.ConversationCleared{}
	}
}

func (v *View) loadStatus() tea.Cmd {
	if v.pipeline == nil {
		return nil
	}
	return func() tea.Msg {
		st, err := v.pipeline.Status(v.ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

func (v *View) setDocument(st domain.PipelineStatus) {
	switch {
	case st.Document != nil:
		v.statusbar.SetDocument(st.Document.Name, st.IndexedChunks)
	case st.IndexedChunks > 0:
		v.statusbar.SetDocument("indexed document", st.IndexedChunks)
	}
}

func (v *View) fail(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
	v.appendEntry(entry{kind: entryError, text: err.Error()})
}

func (v *View) appendEntry(e entry) {
	v.entries = append(v.entries, e)
	v.refresh()
}

// refresh re-renders the transcript and keeps the newest turn in view.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.entries) == 0 {
		return v.styles.Muted.Render("Ask a question about the loaded document. Use /ingest <path> to load one.")
	}

	wrap := lipgloss.NewStyle().Width(v.textWidth())
	blocks := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		switch e.kind {
		case entryQuestion:
			blocks = append(blocks, v.styles.Question.Render("You")+"\n"+wrap.Render(e.text))
		case entryAnswer:
			block := v.styles.Answer.Render("docqa") + "\n" + wrap.Render(e.text)
			if len(e.sources) > 0 {
				block += "\n" + v.styles.Sources.Render(formatSources(e.sources))
			}
			blocks = append(blocks, block)
		case entryInfo:
			blocks = append(blocks, v.styles.Muted.Render(wrap.Render(e.text)))
		case entryError:
			blocks = append(blocks, v.styles.Error.Render(wrap.Render(e.text)))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func formatSources(sources []domain.Source) string {
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", s.ChunkID, s.Similarity))
	}
	return "Sources: " + strings.Join(parts, ", ")
}

func (v *View) textWidth() int {
	if v.width < 20 {
		return 20
	}
	return v.width - 2
}

func (v *View) halfPage() int {
	if v.transcript.Height < 2 {
		return 1
	}
	return v.transcript.Height / 2
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 6)
	sections = append(sections, v.styles.Title.Render("docqa"), v.transcript.View())

	if v.busy {
		sections = append(sections, v.spinner.View()+v.styles.Muted.Render(" working..."))
	} else {
		sections = append(sections, "")
	}

	sections = append(sections, v.input.View(), v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.transcript.Width = width
	v.transcript.Height = max(3, height-reservedLines)
	v.refresh()
}

// Busy reports whether a question or ingestion is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Transcript returns the rendered transcript content.
func (v *View) Transcript() string {
	return v.renderTranscript()
}

// Document returns the name of the document shown in the status bar.
func (v *View) Document() string {
	return v.statusbar.Document()
}
