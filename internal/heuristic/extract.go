package heuristic

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/normanking/docsight/internal/insight"
)

// extractTechnologies scans every recognizer family over the content and
// unions the matches. The declared primary language, when known, is always
// first. Deduplication is case-insensitive and order-preserving.
func (a *Analyzer) extractTechnologies(content, primaryLanguage string) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(label string) {
		key := strings.ToLower(label)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, label)
	}

	if primaryLanguage != "" {
		add(primaryLanguage)
	}
	for _, fam := range a.lib.TechFamilies {
		for _, t := range fam.Terms {
			if t.Pattern.MatchString(content) {
				add(t.Label)
			}
		}
	}
	return out
}

// harvestList finds a header whose text contains one of the given names and
// collects the bullet items that follow it, stopping at the next header.
// Items are capped at eight to keep the field renderable.
func (a *Analyzer) harvestList(content string, headers []string) []string {
	lines := strings.Split(content, "\n")
	var items []string
	collecting := false

	for _, line := range lines {
		if m := a.lib.MarkdownHeader.FindStringSubmatch(line); m != nil {
			if collecting {
				break
			}
			collecting = headerMatches(m[1], headers)
			continue
		}
		if !collecting {
			continue
		}
		if m := a.lib.BulletItem.FindStringSubmatch(line); m != nil {
			item := cleanItem(m[1])
			if item != "" {
				items = append(items, item)
				if len(items) == 8 {
					break
				}
			}
		}
	}
	return items
}

// harvestSections collects markdown header texts as the section outline,
// deduplicated and capped at ten.
func (a *Analyzer) harvestSections(content string) []string {
	var sections []string
	seen := make(map[string]bool)
	for _, m := range a.lib.MarkdownHeader.FindAllStringSubmatch(content, -1) {
		title := cleanItem(m[1])
		key := strings.ToLower(title)
		if title == "" || seen[key] {
			continue
		}
		seen[key] = true
		sections = append(sections, title)
		if len(sections) == 10 {
			break
		}
	}
	return sections
}

func headerMatches(header string, names []string) bool {
	h := strings.ToLower(header)
	for _, name := range names {
		if strings.Contains(h, name) {
			return true
		}
	}
	return false
}

// cleanItem strips markdown emphasis and link syntax from a harvested line.
func cleanItem(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`")
	if i := strings.Index(s, "]("); i > 0 && strings.HasPrefix(s, "[") {
		if j := strings.Index(s[i:], ")"); j > 0 {
			s = s[1:i] + s[i+j+1:]
		}
	}
	return strings.TrimSpace(s)
}

// wordCount counts whitespace-separated words.
func wordCount(s string) int {
	return len(strings.Fields(s))
}

// excerpt returns the first n runes of the content with whitespace collapsed,
// suffixed with an ellipsis when truncated. Markdown header markers are kept:
// they are part of what the source literally says.
func excerpt(s string, n int) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	runes := []rune(collapsed)
	if len(runes) <= n {
		return collapsed
	}
	cut := n
	for cut > 0 && !unicode.IsSpace(runes[cut-1]) && cut > n-20 {
		cut--
	}
	if cut == 0 || cut <= n-20 {
		cut = n
	}
	return strings.TrimSpace(string(runes[:cut])) + "..."
}

// stripMarker removes the extraction marker line so excerpts show the real
// document text.
func stripMarker(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, insight.ExtractionMarker, ""))
}

// humanSize renders a byte count in a compact form.
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
