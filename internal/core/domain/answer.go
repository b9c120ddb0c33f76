package domain

import "time"

// AnswerKind tags the outcome of asking a question.
type AnswerKind string

const (
	// AnswerNotProcessed means nothing has been ingested yet.
	AnswerNotProcessed AnswerKind = "not_processed"

	// AnswerNoContext means retrieval produced no context for the question.
	AnswerNoContext AnswerKind = "no_context"

	// AnswerText is a normal generated answer.
	AnswerText AnswerKind = "answer"
)

// String returns the string representation.
func (k AnswerKind) String() string {
	return string(k)
}

// AnswerResult is the tagged result of Pipeline.Ask.
// Text and Sources are only populated when Kind is AnswerText.
type AnswerResult struct {
	Kind    AnswerKind `json:"status"`
	Text    string     `json:"answer,omitempty"`
	Sources []Source   `json:"sources,omitempty"`

	// ContextTokens approximates the size of the context sent to the LLM.
	ContextTokens int `json:"context_tokens,omitempty"`
}

// NotProcessed returns the result for an empty index.
func NotProcessed() AnswerResult {
	return AnswerResult{Kind: AnswerNotProcessed}
}

// NoContext returns the result for a question with no retrievable context.
func NoContext() AnswerResult {
	return AnswerResult{Kind: AnswerNoContext}
}

// Answer returns a normal answer result.
func Answer(text string, sources []Source) AnswerResult {
	return AnswerResult{Kind: AnswerText, Text: text, Sources: sources}
}

// IsAnswer reports whether the result carries generated text.
func (r AnswerResult) IsAnswer() bool {
	return r.Kind == AnswerText
}

// Source identifies a chunk that contributed context to an answer.
type Source struct {
	ChunkID    string  `json:"chunk_id"`
	Similarity float64 `json:"similarity"`
}

// RetrievedContext is the joined context for a query plus what produced it.
type RetrievedContext struct {
	// Text is the retrieved chunk texts joined by a blank line, most relevant first.
	Text string

	// Sources lists the chunks in Text, in the same order.
	Sources []Source

	// Tokens is an approximate token count for Text.
	Tokens int
}

// IsEmpty reports whether no context was retrieved.
func (c RetrievedContext) IsEmpty() bool {
	return c.Text == ""
}

// ConversationTurn is one question and the answer produced for it.
type ConversationTurn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}
