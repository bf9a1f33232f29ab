package mentor

import "github.com/papercomputeco/mentor/pkg/structure"

// Result is what every mentoring call returns. On failure Success is false, Error holds
// a readable message and Mode names the mode that failed.
type Result struct {
	Success bool `json:"success"`
	Mode    Mode `json:"mode"`

	Guidance *structure.SocraticGuidance `json:"guidance,omitempty"`
	Template *structure.SolutionTemplate `json:"template,omitempty"`
	Reply    string                      `json:"mentor_response,omitempty"`

	Error string `json:"error,omitempty"`

	// RateLimited is set when the failure came from exhausting the retry budget.
	RateLimited bool `json:"rate_limited,omitempty"`
}

// Fields returns the structured mapping of a successful result.
func (r *Result) Fields() map[string]any {
	switch {
	case r.Guidance != nil:
		return r.Guidance.Fields()
	case r.Template != nil:
		return r.Template.Fields()
	case r.Reply != "":
		return map[string]any{"mentor_response": r.Reply}
	}
	return map[string]any{}
}

func failure(mode Mode, msg string) *Result {
	return &Result{Success: false, Mode: mode, Error: msg}
}
