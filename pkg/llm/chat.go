package llm

import "time"

// ChatRequest is the non-streaming /api/chat body sent to Ollama-compatible backends.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   *bool     `json:"stream,omitempty"`
	Options  *Options  `json:"options,omitempty"`
}

// Options carries sampling settings. Nil fields are left to the backend's defaults.
type Options struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

// ChatResponse is the single reply object returned when streaming is off.
type ChatResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Message   Message   `json:"message"`
	Done      bool      `json:"done"`

	// Nanoseconds, as reported by Ollama
	TotalDuration int64 `json:"total_duration,omitempty"`
	EvalCount     int   `json:"eval_count,omitempty"`
}
