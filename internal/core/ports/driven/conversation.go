package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// ConversationLog is an append-only record of the current session's turns.
// The core only writes to it; front-ends read it for display.
type ConversationLog interface {
	// Append records a turn.
	Append(turn domain.ConversationTurn)

	// Turns returns a copy of all turns in order.
	Turns() []domain.ConversationTurn

	// Clear discards all turns.
	Clear()
}
