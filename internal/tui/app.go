package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"colrev-settings/internal/modal"
	"colrev-settings/internal/model"
	"colrev-settings/internal/overlay"
	"colrev-settings/internal/schema"
	"colrev-settings/internal/settingsform"
	"colrev-settings/internal/store"
	"colrev-settings/internal/theme"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type keyMap struct {
	Edit      key.Binding
	Save      key.Binding
	Reload    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// Options configures the editor.
type Options struct {
	// Dir is the CoLRev repository holding settings.json.
	Dir string
	// SchemaPath is the settings schema document; empty means no enum options.
	SchemaPath string
	// Theme is "light", "dark" or "auto".
	Theme string
}

// Model owns the project value. The settings form only proposes new values
// through onChange; every proposal is echoed back to it.
type Model struct {
	store      store.Store
	schemaPath string

	project *model.Project
	saved   *model.Project
	enums   *schema.Source
	dirty   bool

	surface  *overlay.Surface
	form     *settingsform.Form
	settings *modal.Controller

	width  int
	height int

	status    string
	statusErr bool

	keys keyMap
}

// New loads the repository's project and schema and returns the editor.
// Load failures are reported in the status line, not returned.
func New(opts Options) *Model {
	m := &Model{
		store:      store.Store{Dir: opts.Dir},
		schemaPath: strings.TrimSpace(opts.SchemaPath),
		surface:    overlay.NewSurface(),
		keys:       defaultKeyMap(),
	}
	m.form = settingsform.New(m.onChange)
	m.settings = modal.New(m.surface, modal.Config{
		Title:   "Project settings",
		OnClose: m.onSettingsClosed,
	}, m.form)
	m.reload()
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

// Project returns the current (possibly unsaved) project.
func (m *Model) Project() *model.Project { return m.project }

func (m *Model) Dirty() bool { return m.dirty }

func (m *Model) Status() string { return m.status }

func (m *Model) SettingsVisible() bool { return m.settings.Visible() }

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	logger().Warn("error", "err", err)
}

func (m *Model) onChange(next model.Project) {
	m.project = &next
	m.dirty = true
	m.form.SetProject(m.project, m.enums)
}

func (m *Model) onSettingsClosed() {
	m.surface.Detach(m.settings.Handle())
	if m.dirty {
		m.setStatus("Settings closed (unsaved changes)")
		return
	}
	m.setStatus("Settings closed")
}

// reload replaces the project and schema with freshly loaded values. The new
// references make the form discard any local state.
func (m *Model) reload() {
	var errs []error

	p, err := m.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist), errors.Is(err, store.ErrNoProjectSection):
		p = nil
		errs = append(errs, fmt.Errorf("no project in %s", m.store.SettingsPath()))
	default:
		p = nil
		errs = append(errs, err)
	}

	var enums *schema.Source
	if m.schemaPath != "" {
		enums, err = schema.Load(m.schemaPath)
		if err != nil {
			enums = nil
			errs = append(errs, err)
		}
	}

	m.project = p
	m.enums = enums
	m.saved = nil
	if p != nil {
		saved := *p
		m.saved = &saved
	}
	m.dirty = false
	m.form.SetProject(m.project, m.enums)

	if err := errors.Join(errs...); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Loaded " + m.store.SettingsPath())
}

func (m *Model) save() {
	if m.project == nil {
		m.setError(errors.New("nothing to save: no project loaded"))
		return
	}
	if !m.dirty {
		m.setStatus("No changes")
		return
	}
	if err := m.store.Save(*m.project); err != nil {
		m.setError(fmt.Errorf("save: %w", err))
		return
	}

	n, err := m.recordHistory()
	saved := *m.project
	m.saved = &saved
	m.dirty = false
	if err != nil {
		m.setError(fmt.Errorf("saved, but history failed: %w", err))
		return
	}
	m.setStatus(fmt.Sprintf("Saved (%d %s changed)", n, plural(n, "field", "fields")))
}

func (m *Model) recordHistory() (int, error) {
	if m.saved == nil {
		return 0, nil
	}
	ctx := context.Background()
	h, err := m.store.OpenHistory(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = h.Close() }()
	return h.Record(ctx, *m.saved, *m.project, time.Now())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (m *Model) openSettings() tea.Cmd {
	m.settings.Mount()
	return m.form.Focus(m.form.Focused())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.surface.SetSize(msg.Width, m.bodyHeight())
		m.form.SetWidth(modal.ContentWidth(msg.Width))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.settings.Visible() {
			return m, m.settings.Update(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Edit):
			return m, m.openSettings()
		case key.Matches(msg, m.keys.Save):
			m.save()
		case key.Matches(msg, m.keys.Reload):
			discarded := m.dirty
			m.reload()
			if discarded && !m.statusErr {
				m.setStatus("Reloaded (unsaved changes discarded)")
			}
		}
		return m, nil
	}

	if m.settings.Visible() {
		return m, m.settings.Update(msg)
	}
	return m, nil
}

func (m *Model) bodyHeight() int {
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	bg := renderMarkdown(m.projectMarkdown(), w-2)
	bg = lipgloss.NewStyle().Padding(0, 1).Render(bg)

	body := m.surface.Compose(bg)
	if m.height > 0 {
		body = fitLines(body, m.bodyHeight())
	}
	return body + "\n" + m.statusLine(w)
}

// fitLines pads or clips s to exactly n lines.
func fitLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statusLine(w int) string {
	var parts []string
	if m.dirty {
		parts = append(parts, theme.ButtonPrimary().Render("modified"))
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, theme.Error().Render(m.status))
		} else {
			parts = append(parts, m.status)
		}
	}
	left := strings.Join(parts, " ")

	var help []string
	if m.settings.Visible() {
		help = append(help, "ctrl+w: close")
	} else {
		for _, b := range []key.Binding{m.keys.Edit, m.keys.Save, m.keys.Reload, m.keys.Quit} {
			h := b.Help()
			help = append(help, h.Key+": "+h.Desc)
		}
	}
	right := theme.MutedText().Render(strings.Join(help, "  "))

	gap := w - xansi.StringWidth(left) - xansi.StringWidth(right)
	if gap < 1 {
		return xansi.Truncate(left+" "+right, w, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}
