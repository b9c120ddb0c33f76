package memory

import (
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure ConversationLog implements the interface.
var _ driven.ConversationLog = (*ConversationLog)(nil)

// ConversationLog keeps the session's question/answer turns.
type ConversationLog struct {
	mu    sync.Mutex
	turns []domain.ConversationTurn
	limit int
}

// NewConversationLog creates a log keeping at most limit turns.
// A limit of 0 keeps everything.
func NewConversationLog(limit int) *ConversationLog {
	return &ConversationLog{limit: limit}
}

// Append records a turn, dropping the oldest when over the limit.
func (l *ConversationLog) Append(turn domain.ConversationTurn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
	if l.limit > 0 && len(l.turns) > l.limit {
		l.turns = append([]domain.ConversationTurn(nil), l.turns[len(l.turns)-l.limit:]...)
	}
}

// Turns returns a copy of the recorded turns, oldest first.
func (l *ConversationLog) Turns() []domain.ConversationTurn {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.ConversationTurn(nil), l.turns...)
}

// Clear discards all turns.
func (l *ConversationLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}
