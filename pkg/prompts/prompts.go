// Package prompts builds the text prompts sent to the generation backend for each
// mentoring mode. The response parsers depend only on the section headers named here.
package prompts

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/mentor/pkg/llm"
	"github.com/papercomputeco/mentor/pkg/structure"
)

// DefaultHistoryWindow is how many prior turns a chat prompt includes.
const DefaultHistoryWindow = 4

// templateSections are the uppercase section headers requested per template type.
var templateSections = map[structure.TemplateType][]string{
	structure.TemplateBudget:      {"BUDGET OVERVIEW", "FUNDING SOURCES", "EXPENSE BREAKDOWN", "COST-SAVING MEASURES"},
	structure.TemplateStakeholder: {"KEY STAKEHOLDERS", "INTERESTS AND CONCERNS", "ENGAGEMENT STRATEGY", "COMMUNICATION PLAN"},
	structure.TemplateTimeline:    {"PHASES", "MILESTONES", "DEPENDENCIES", "RISK BUFFERS"},
	structure.TemplateSWOT:        {"STRENGTHS", "WEAKNESSES", "OPPORTUNITIES", "THREATS"},
	structure.TemplateActionPlan:  {"GOAL", "ACTION STEPS", "RESOURCES NEEDED", "SUCCESS MEASURES"},
}

// TemplateSections returns the section headers requested for t.
func TemplateSections(t structure.TemplateType) []string {
	if sections, ok := templateSections[t]; ok {
		return sections
	}
	return templateSections[structure.TemplateActionPlan]
}

// CriticalThinking asks for Socratic guidance under the four Socratic headers.
func CriticalThinking(problem, context string) string {
	var sb strings.Builder
	sb.WriteString("You are a Socratic mentor helping a community member think through a local problem.\n")
	sb.WriteString("Do not hand them a solution. Ask questions that help them reason about it themselves.\n\n")
	sb.WriteString("Problem: ")
	sb.WriteString(strings.TrimSpace(problem))
	sb.WriteString("\n")
	if c := strings.TrimSpace(context); c != "" {
		sb.WriteString("Context: ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	sb.WriteString("\nRespond using exactly these sections, each followed by a bulleted list and a blank line:\n\n")
	for _, header := range structure.SocraticHeaders {
		sb.WriteString(header)
		sb.WriteString("\n- ...\n\n")
	}
	return sb.String()
}

// Solution asks for a filled-in template of type t followed by an implementation guide
// and practical tips.
func Solution(problem string, t structure.TemplateType) string {
	var sb strings.Builder
	sb.WriteString("You are a solution-focused mentor helping a community member act on a local problem.\n\n")
	sb.WriteString("Problem: ")
	sb.WriteString(strings.TrimSpace(problem))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Template: %s\n\n", t)
	sb.WriteString("Fill in the template below. Write every section header in UPPERCASE followed by a colon,\n")
	sb.WriteString("then the section content on the following lines.\n\n")
	for _, section := range TemplateSections(t) {
		sb.WriteString(section)
		sb.WriteString(":\n...\n\n")
	}
	sb.WriteString(structure.HeaderImplementationGuide)
	sb.WriteString("\nA short paragraph on how to put the template into practice.\n\n")
	sb.WriteString(structure.HeaderPracticalTips)
	sb.WriteString("\n1. ...\n2. ...\n")
	return sb.String()
}

// Chat continues a conversation. history should already include the latest user
// message; only its last window turns are quoted.
func Chat(modeTag string, history []llm.ConversationTurn, window int, message string) string {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a %s mentor in an ongoing conversation about a community problem.\n", modeTag)
	sb.WriteString("Reply to the user's latest message in a few short paragraphs.\n\n")
	if len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, turn := range history {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, strings.TrimSpace(turn.Content))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(strings.TrimSpace(message))
	sb.WriteString("\n")
	return sb.String()
}
