// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QuestionSubmitted is sent when the user sends a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the pipeline's answer back to the model.
type AnswerReceived struct {
	Question string
	Result   domain.AnswerResult
	Err      error
}

// NoticeReceived carries a transient notice, such as a retry wait,
// raised while a question is in flight.
type NoticeReceived struct {
	Notice string
}

// IngestCompleted is sent when a document has been ingested from the chat.
type IngestCompleted struct {
	Stats domain.IngestStats
	Err   error
}

// StatusLoaded carries the pipeline status.
type StatusLoaded struct {
	Status domain.PipelineStatus
	Err    error
}

// ConversationCleared is sent after the session history has been discarded.
type ConversationCleared struct{}

// PromptReloaded is sent when a prompt template changed on disk.
type PromptReloaded struct {
	Name string
}

// ErrorOccurred is sent when an error occurs.
type ErrorOccurred struct {
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question and answer view.
	ViewChat ViewType = iota
	// ViewDocument shows the indexed document and active settings.
	ViewDocument
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the view name.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewDocument:
		return "document"
	case ViewHelp:
		return "help"
	}
	return "unknown"
}
