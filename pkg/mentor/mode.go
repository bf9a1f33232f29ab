package mentor

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/mentor/pkg/prompts"
	"github.com/papercomputeco/mentor/pkg/structure"
)

// Mode selects the prompt template and the response-structuring strategy.
type Mode int

const (
	// CriticalThinking asks Socratic questions instead of giving answers.
	CriticalThinking Mode = iota
	// SolutionFocused fills in a solution template.
	SolutionFocused
)

var modeNames = map[Mode]string{
	CriticalThinking: "critical_thinking",
	SolutionFocused:  "solution",
}

// Modes lists every mode.
func Modes() []Mode {
	return []Mode{CriticalThinking, SolutionFocused}
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the mode names used by the API and CLI.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical_thinking", "critical-thinking", "critical", "socratic":
		return CriticalThinking, nil
	case "solution", "solution_focused", "solution-focused":
		return SolutionFocused, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Request is the input of a single-shot mentoring call.
type Request struct {
	Problem      string
	Context      string
	TemplateType structure.TemplateType
}

// strategy pairs the prompt of a mode with the parser for its replies.
type strategy struct {
	prompt    func(req Request) string
	structure func(raw string, req Request, res *Result)
}

// strategies holds one entry per Mode. A new mode adds a constant, a name and an entry here.
var strategies = map[Mode]strategy{
	CriticalThinking: {
		prompt: func(req Request) string {
			return prompts.CriticalThinking(req.Problem, req.Context)
		},
		structure: func(raw string, _ Request, res *Result) {
			res.Guidance = structure.ParseSocratic(raw)
		},
	},
	SolutionFocused: {
		prompt: func(req Request) string {
			return prompts.Solution(req.Problem, req.TemplateType)
		},
		structure: func(raw string, req Request, res *Result) {
			res.Template = structure.ParseTemplate(raw, req.TemplateType)
		},
	},
}
