package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal
	// background queries, so styles are always explicit.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownStyle follows the editor's theme preference so the summary stays
// readable when the theme is forced to light on a dark-reporting terminal.
func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("COLREV_SETTINGS_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if style == "dark" {
		cfg = styles.DarkStyleConfig
	}
	zero := uint(0)
	cfg.Document.Margin = &zero
	return cfg
}

// projectMarkdown is the read-only summary drawn behind the settings modal.
func (m *Model) projectMarkdown() string {
	p := m.project
	if p == nil {
		return "# No project loaded\n\nNo `project` section was found in `" + m.store.SettingsPath() + "`."
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Untitled project"
	}

	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "_none_"
		}
		b.WriteString("- **" + label + ":** " + value + "\n")
	}
	row("Review type", p.ReviewType)
	row("Authors", strings.Join(p.Authors, ", "))
	row("Keywords", strings.Join(p.Keywords, ", "))
	row("ID pattern", p.IDPattern)
	row("Share status requirement", p.ShareStatReq)
	if p.Protocol != nil {
		row("Protocol", *p.Protocol)
	}
	if p.CurationURL != nil {
		row("Curation URL", *p.CurationURL)
	}
	row("Delay automated processing", strconv.FormatBool(p.DelayAutomatedProcessing))
	row("Curated masterdata", strconv.FormatBool(p.CuratedMasterdata))
	if len(p.CuratedFields) > 0 {
		row("Curated fields", strings.Join(p.CuratedFields, ", "))
	}
	b.WriteString("\nPress `e` to edit the project settings.\n")
	return b.String()
}
