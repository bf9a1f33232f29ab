package mentor

import "github.com/papercomputeco/mentor/pkg/llm"

// Session owns the conversation history of one mentoring chat. It lives as long as
// its owner keeps it and is not safe for concurrent use.
type Session struct {
	ID    string
	turns []llm.ConversationTurn
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Append adds a turn to the end of the history.
func (s *Session) Append(role llm.Role, content string) {
	s.turns = append(s.turns, llm.ConversationTurn{Role: role, Content: content})
}

// Turns returns a copy of the full history, oldest first.
func (s *Session) Turns() []llm.ConversationTurn {
	out := make([]llm.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Recent returns a copy of the last n turns.
func (s *Session) Recent(n int) []llm.ConversationTurn {
	if n <= 0 || len(s.turns) == 0 {
		return nil
	}
	start := len(s.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]llm.ConversationTurn, len(s.turns)-start)
	copy(out, s.turns[start:])
	return out
}

// Len returns the number of turns.
func (s *Session) Len() int {
	return len(s.turns)
}

// Reset clears the history.
func (s *Session) Reset() {
	s.turns = nil
}
