package llm

// ConversationTurn is one entry of a mentoring conversation history.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
