package domain

import (
	"strings"
	"time"
)

// HistoryTurnLimit bounds how many past turns are rendered into a prompt.
const HistoryTurnLimit = 4

// ConversationTurn is one completed (user, assistant) exchange.
// History is owned by the calling session; the core only ever reads it.
type ConversationTurn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	CreatedAt time.Time `json:"created_at"`
}

type History []ConversationTurn

// Format renders the last HistoryTurnLimit turns for prompting.
func (h History) Format() string {
	if len(h) == 0 {
		return "No prior conversation."
	}

	turns := h
	if len(turns) > HistoryTurnLimit {
		turns = turns[len(turns)-HistoryTurnLimit:]
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("User: ")
		b.WriteString(turn.User)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Assistant)
	}
	return b.String()
}
