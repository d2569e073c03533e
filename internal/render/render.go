// Package render formats an Insight for terminal display. Markdown output
// goes through glamour for styled terminal rendering, with a plain-text
// fallback when the renderer cannot initialize or the user asks for it.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/normanking/docsight/internal/insight"
)

// Mode selects the output format.
type Mode int

const (
	ModeStyled Mode = iota
	ModePlain
	ModeJSON
)

// Styles defines the header styling for the report banner.
type Styles struct {
	Title lipgloss.Style
	Meta  lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		Meta: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// Renderer turns insights into terminal output.
type Renderer struct {
	mode   Mode
	width  int
	styles Styles
}

// New creates a renderer for the given mode.
func New(mode Mode) *Renderer {
	return &Renderer{
		mode:   mode,
		width:  100,
		styles: defaultStyles(),
	}
}

// SetWidth sets the wrap width for styled output.
func (r *Renderer) SetWidth(w int) {
	if w > 0 {
		r.width = w
	}
}

// Report formats the insight for the given source (path or owner/repo).
// Provider names the backend that produced the insight, or "heuristic".
func (r *Renderer) Report(in *insight.Insight, source, provider string) (string, error) {
	switch r.mode {
	case ModeJSON:
		out, err := json.MarshalIndent(in, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode insight: %w", err)
		}
		return string(out) + "\n", nil
	case ModePlain:
		return r.markdown(in, source, provider), nil
	default:
		return r.styled(in, source, provider), nil
	}
}

func (r *Renderer) styled(in *insight.Insight, source, provider string) string {
	body := r.markdown(in, source, provider)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(terminalStyle()),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return body
	}
	rendered, err := renderer.Render(body)
	if err != nil {
		return body
	}

	header := r.styles.Title.Render("docsight") + "  " +
		r.styles.Meta.Render(fmt.Sprintf("%s · %s", source, provider))
	return header + "\n" + strings.TrimRight(rendered, "\n") + "\n"
}

// markdown builds the raw markdown report shared by styled and plain modes.
func (r *Renderer) markdown(in *insight.Insight, source, provider string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", source)
	fmt.Fprintf(&b, "**Complexity:** %s · **Source:** %s\n\n", in.Complexity, provider)
	fmt.Fprintf(&b, "%s\n", in.Summary)

	writeList(&b, "Key Features", in.KeyFeatures)
	writeList(&b, "Technologies", in.Technologies)
	writeList(&b, "Use Cases", in.UseCases)
	writeList(&b, "Main Sections", in.MainSections)

	fmt.Fprintf(&b, "\n## Recommendation\n\n%s\n", in.Recommendation)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// terminalStyle picks a glamour style matching the terminal background.
func terminalStyle() string {
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
