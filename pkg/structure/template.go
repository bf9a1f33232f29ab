package structure

import (
	"strings"
	"unicode"
)

// Solution template markers.
const (
	HeaderImplementationGuide = "IMPLEMENTATION GUIDE:"
	HeaderPracticalTips       = "PRACTICAL TIPS:"
)

// Section is a named block of the template region.
type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// SolutionTemplate is the structured form of a solution-focused reply.
type SolutionTemplate struct {
	TemplateType        TemplateType `json:"template_type"`
	Sections            []Section    `json:"sections"`
	ImplementationGuide string       `json:"implementation_guide"`
	Tips                []string     `json:"tips"`

	// Raw is the unparsed reply, kept for display when nothing could be extracted.
	Raw string `json:"raw"`
}

// Empty reports whether nothing structured was found.
func (t *SolutionTemplate) Empty() bool {
	return len(t.Sections) == 0 && t.ImplementationGuide == "" && len(t.Tips) == 0
}

// Section returns the section with the given title.
func (t *SolutionTemplate) Section(title string) (Section, bool) {
	for _, s := range t.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// Fields returns the mapping view of the template: one entry per section title plus
// "implementation_guide" and "tips".
func (t *SolutionTemplate) Fields() map[string]any {
	fields := make(map[string]any, len(t.Sections)+2)
	for _, s := range t.Sections {
		fields[s.Title] = s.Lines
	}
	fields["implementation_guide"] = t.ImplementationGuide
	fields["tips"] = t.Tips
	return fields
}

// ParseTemplate splits raw into the template region, the implementation guide and the
// practical tips.
func ParseTemplate(raw string, kind TemplateType) *SolutionTemplate {
	out := &SolutionTemplate{
		TemplateType: kind,
		Sections:     []Section{},
		Tips:         []string{},
		Raw:          raw,
	}

	templateRegion, rest, found := strings.Cut(raw, HeaderImplementationGuide)
	out.Sections = parseSections(templateRegion)
	if !found {
		return out
	}

	guide, tips, _ := strings.Cut(rest, HeaderPracticalTips)
	out.ImplementationGuide = strings.TrimSpace(guide)
	out.Tips = ParseListItems(tips)
	return out
}

// parseSections walks the template region line by line. An uppercase line containing a
// colon opens a section; later non-blank lines belong to it verbatim, indentation
// included. Lines before the first header are dropped. A repeated title keeps the
// position of its first occurrence and collects the lines of every occurrence.
func parseSections(region string) []Section {
	sections := []Section{}
	index := map[string]int{}
	current := -1

	for _, line := range strings.Split(normalizeNewlines(region), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if isSectionHeader(trimmed) {
			title, rest, _ := strings.Cut(trimmed, ":")
			title = strings.TrimSpace(title)

			pos, seen := index[title]
			if !seen {
				pos = len(sections)
				index[title] = pos
				sections = append(sections, Section{Title: title, Lines: []string{}})
			}
			current = pos

			if rest = strings.TrimSpace(rest); rest != "" {
				sections[current].Lines = append(sections[current].Lines, rest)
			}
			continue
		}

		if current >= 0 {
			sections[current].Lines = append(sections[current].Lines, line)
		}
	}
	return sections
}

// isSectionHeader reports whether line has a colon, at least one cased letter and no
// lowercase letters.
func isSectionHeader(line string) bool {
	if !strings.Contains(line, ":") {
		return false
	}

	cased := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
