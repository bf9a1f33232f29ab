package structure

import "strings"

// TemplateType names the kind of solution template requested from the model.
type TemplateType string

const (
	TemplateAuto        TemplateType = "auto"
	TemplateBudget      TemplateType = "budget"
	TemplateStakeholder TemplateType = "stakeholder"
	TemplateTimeline    TemplateType = "timeline"
	TemplateSWOT        TemplateType = "swot"
	TemplateActionPlan  TemplateType = "action_plan"
)

// templateKeywords is checked in order; the first category with a matching keyword wins.
var templateKeywords = []struct {
	kind     TemplateType
	keywords []string
}{
	{TemplateBudget, []string{"budget", "cost", "funding", "finance"}},
	{TemplateStakeholder, []string{"stakeholder", "community", "people"}},
	{TemplateTimeline, []string{"timeline", "schedule", "deadline"}},
	{TemplateSWOT, []string{"strength", "weakness", "opportunity", "threat"}},
}

// TemplateTypes lists the concrete template types.
func TemplateTypes() []TemplateType {
	return []TemplateType{TemplateBudget, TemplateStakeholder, TemplateTimeline, TemplateSWOT, TemplateActionPlan}
}

// ParseTemplateType maps a user-supplied name to a TemplateType. The empty string
// means TemplateAuto.
func ParseTemplateType(s string) (TemplateType, bool) {
	t := TemplateType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t == TemplateAuto {
		return TemplateAuto, true
	}
	for _, known := range TemplateTypes() {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// DetectTemplateType picks a template type from keywords in the problem description,
// falling back to TemplateActionPlan.
func DetectTemplateType(problem string) TemplateType {
	lower := strings.ToLower(problem)
	for _, category := range templateKeywords {
		for _, kw := range category.keywords {
			if strings.Contains(lower, kw) {
				return category.kind
			}
		}
	}
	return TemplateActionPlan
}

// Resolve returns t, or the detected type for problem when t is TemplateAuto or empty.
func (t TemplateType) Resolve(problem string) TemplateType {
	if t == "" || t == TemplateAuto {
		return DetectTemplateType(problem)
	}
	return t
}
