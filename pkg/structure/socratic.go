// Package structure turns free-text model replies into structured mentoring fields
// by searching for fixed uppercase section headers.
//
// Every function in this package is total: a missing or malformed section yields an
// empty value, never an error. When a header appears more than once, its first
// occurrence wins.
package structure

import "strings"

// Socratic section headers, in the order they are requested from the model.
const (
	HeaderGuidingQuestions  = "GUIDING QUESTIONS:"
	HeaderReflectionPrompts = "REFLECTION PROMPTS:"
	HeaderChallengePoints   = "CHALLENGE POINTS:"
	HeaderNextSteps         = "NEXT STEPS:"
)

// SocraticHeaders lists the Socratic headers in request order.
var SocraticHeaders = []string{
	HeaderGuidingQuestions,
	HeaderReflectionPrompts,
	HeaderChallengePoints,
	HeaderNextSteps,
}

// socraticBullets are stripped from the start of each Socratic line.
const socraticBullets = "-•*"

// SocraticGuidance is the structured form of a critical-thinking reply.
type SocraticGuidance struct {
	GuidingQuestions  []string `json:"guiding_questions"`
	ReflectionPrompts []string `json:"reflection_prompts"`
	ChallengePoints   []string `json:"challenge_points"`
	NextSteps         []string `json:"next_steps"`

	// Raw is the unparsed reply, kept for display when nothing could be extracted.
	Raw string `json:"raw"`
}

// Empty reports whether no Socratic section was found.
func (g *SocraticGuidance) Empty() bool {
	return len(g.GuidingQuestions) == 0 && len(g.ReflectionPrompts) == 0 &&
		len(g.ChallengePoints) == 0 && len(g.NextSteps) == 0
}

// Fields returns the mapping view of the guidance, keyed by field name.
func (g *SocraticGuidance) Fields() map[string]any {
	return map[string]any{
		"guiding_questions":  g.GuidingQuestions,
		"reflection_prompts": g.ReflectionPrompts,
		"challenge_points":   g.ChallengePoints,
		"next_steps":         g.NextSteps,
	}
}

// ParseSocratic extracts the four Socratic sections from raw.
func ParseSocratic(raw string) *SocraticGuidance {
	return &SocraticGuidance{
		GuidingQuestions:  ExtractSection(raw, HeaderGuidingQuestions),
		ReflectionPrompts: ExtractSection(raw, HeaderReflectionPrompts),
		ChallengePoints:   ExtractSection(raw, HeaderChallengePoints),
		NextSteps:         ExtractSection(raw, HeaderNextSteps),
		Raw:               raw,
	}
}

// ExtractSection returns the lines following the first occurrence of header, up to
// the first blank line. Blank lines directly after the header are skipped, and a
// whitespace-only line counts as blank. Leading bullets and surrounding whitespace
// are stripped from each line. A missing header yields an empty, non-nil slice.
func ExtractSection(raw, header string) []string {
	items := []string{}

	idx := strings.Index(raw, header)
	if idx < 0 {
		return items
	}

	body := strings.TrimLeft(raw[idx+len(header):], " \t\r\n")
	for _, line := range strings.Split(normalizeNewlines(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if item := strings.TrimSpace(strings.TrimLeft(line, socraticBullets)); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
