// Package render turns mentor results into markdown and, on a terminal, into styled
// output through glamour.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/papercomputeco/mentor/pkg/mentor"
	"github.com/papercomputeco/mentor/pkg/structure"
)

const defaultWidth = 80

// Renderer writes results to out. When out is a terminal the markdown is rendered by
// glamour and word-wrapped to the terminal width; otherwise it is written as is.
// Escape sequences in model output are always stripped.
type Renderer struct {
	out io.Writer
	md  *glamour.TermRenderer

	errorStyle lipgloss.Style
	modeStyle  lipgloss.Style
}

// New builds a Renderer for out.
func New(out io.Writer) (*Renderer, error) {
	r := &Renderer{out: out}

	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return r, nil
	}

	width := defaultWidth
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		width = w
	}

	// NO_COLOR and CLICOLOR_FORCE are honoured by the environment profile.
	profile := termenv.NewOutput(f).EnvColorProfile()

	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	r.md = md

	styles := lipgloss.NewRenderer(f)
	styles.SetColorProfile(profile)
	r.errorStyle = styles.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9"))
	r.modeStyle = styles.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)

	return r, nil
}

// Styled reports whether output goes through the terminal renderer.
func (r *Renderer) Styled() bool {
	return r.md != nil
}

// Result writes res.
func (r *Renderer) Result(res *mentor.Result) error {
	if !res.Success {
		return r.line(r.errorLine(res))
	}

	text := ansi.Strip(Markdown(res))
	if r.md == nil {
		_, err := io.WriteString(r.out, text)
		return err
	}

	if _, err := fmt.Fprintln(r.out, r.modeStyle.Render(res.Mode.String())); err != nil {
		return err
	}
	out, err := r.md.Render(text)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(r.out, out)
	return err
}

// Notice writes a one-line informational message.
func (r *Renderer) Notice(msg string) error {
	return r.line(msg)
}

func (r *Renderer) errorLine(res *mentor.Result) string {
	msg := fmt.Sprintf("error (%s): %s", res.Mode, ansi.Strip(res.Error))
	if r.md == nil {
		return msg
	}
	return r.errorStyle.Render(msg)
}

func (r *Renderer) line(s string) error {
	_, err := fmt.Fprintln(r.out, s)
	return err
}

// Markdown formats a successful result as a markdown document. A failed result is
// rendered as a single error line.
func Markdown(res *mentor.Result) string {
	var b strings.Builder

	switch {
	case !res.Success:
		fmt.Fprintf(&b, "**Error:** %s\n", res.Error)
	case res.Guidance != nil:
		writeGuidance(&b, res.Guidance)
	case res.Template != nil:
		writeTemplate(&b, res.Template)
	default:
		b.WriteString(strings.TrimSpace(res.Reply))
		b.WriteString("\n")
	}

	return b.String()
}

func writeGuidance(b *strings.Builder, g *structure.SocraticGuidance) {
	if g.Empty() {
		writeRaw(b, g.Raw)
		return
	}

	writeList(b, "Guiding Questions", g.GuidingQuestions)
	writeList(b, "Reflection Prompts", g.ReflectionPrompts)
	writeList(b, "Challenge Points", g.ChallengePoints)
	writeList(b, "Next Steps", g.NextSteps)
}

func writeTemplate(b *strings.Builder, t *structure.SolutionTemplate) {
	if t.Empty() {
		writeRaw(b, t.Raw)
		return
	}

	fmt.Fprintf(b, "# %s template\n\n", titleCase(string(t.TemplateType)))
	for _, s := range t.Sections {
		writeList(b, titleCase(s.Title), bulletless(s.Lines))
	}
	if t.ImplementationGuide != "" {
		fmt.Fprintf(b, "## Implementation Guide\n\n%s\n\n", t.ImplementationGuide)
	}
	writeList(b, "Practical Tips", t.Tips)
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// bulletless strips list markers that section lines keep from the raw reply.
func bulletless(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if item := structure.ParseListItem(l); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func writeRaw(b *strings.Builder, raw string) {
	b.WriteString(strings.TrimSpace(raw))
	b.WriteString("\n")
}

// titleCase turns "ACTION PLAN" or "action_plan" into "Action Plan".
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		w = strings.ToLower(w)
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
