package llm

// Role identifies the author of a message or conversation turn.
type Role string

const (
	RoleUser   Role = "user"
	RoleMentor Role = "mentor"

	// RoleAssistant is the upstream name for model output on chat APIs.
	RoleAssistant Role = "assistant"
)

// Message represents a single message sent to a chat-style upstream.
type Message struct {
	Role    Role   `json:"role"`    // "user", "assistant"
	Content string `json:"content"` // The message content
}
