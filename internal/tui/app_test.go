package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colrev-settings/internal/settingsform"
	"colrev-settings/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

const testSettings = `{
    "project": {
        "title": "Digital work review",
        "authors": ["Jane Doe"],
        "keywords": [],
        "protocol": null,
        "review_type": "literature_review",
        "id_pattern": "THREE_AUTHORS_YEAR",
        "share_stat_req": "none",
        "delay_automated_processing": false,
        "curation_url": null,
        "curated_masterdata": false,
        "curated_fields": []
    },
    "sources": []
}
`

const testSchema = `{"definitions":{"ProjectSettings":{"properties":{
  "id_pattern":{"enum":["THREE_AUTHORS_YEAR","THREE_AUTHORS_YEAR_TITLE"]},
  "share_stat_req":{"enum":["none","processed","screened","completed"]}
}}}}`

func newTestModel(t *testing.T) (*Model, string) {
	t.Helper()
	t.Setenv("COLREV_SETTINGS_THEME", "light")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, store.SettingsFileName), []byte(testSettings), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	schemaPath := filepath.Join(dir, "settings.schema.json")
	if err := os.WriteFile(schemaPath, []byte(testSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	m := New(Options{Dir: dir, SchemaPath: schemaPath})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return m, dir
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var last tea.Cmd
	for _, msg := range msgs {
		_, last = m.Update(msg)
	}
	return last
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_LoadsProjectAndSchema(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Project() == nil || m.Project().Title != "Digital work review" {
		t.Fatalf("expected project loaded, got %+v", m.Project())
	}
	if m.statusErr {
		t.Fatalf("unexpected error status: %q", m.Status())
	}
	if got := m.form.Options(settingsform.FieldShareStatReq); len(got) != 4 {
		t.Fatalf("expected 4 share_stat_req options, got %v", got)
	}
	if m.form.Project() != m.Project() {
		t.Fatalf("expected the form to hold the parent's project")
	}
}

func TestEdit_OpensSettingsOnSurface(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, runes("e"))

	if !m.SettingsVisible() {
		t.Fatalf("expected settings modal visible")
	}
	if m.surface.Len() != 1 {
		t.Fatalf("expected one overlay instance, got %d", m.surface.Len())
	}
	view := xansi.Strip(m.View())
	if !strings.Contains(view, "Project settings") || !strings.Contains(view, "ID Pattern") {
		t.Fatalf("expected modal in view, got:\n%s", view)
	}
}

func TestTyping_EchoesProjectBackToForm(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, runes("e"))
	m.form.Focus(settingsform.FieldTitle)

	send(m, runes("!"), runes("q"))

	if got := m.Project().Title; got != "Digital work review!q" {
		t.Fatalf("expected typed title, got %q", got)
	}
	if !m.Dirty() {
		t.Fatalf("expected dirty after edit")
	}
	if m.form.Project() != m.Project() {
		t.Fatalf("expected each edit echoed to the form")
	}
	if !m.SettingsVisible() {
		t.Fatalf("expected q to be typed, not to quit or close")
	}
}

func TestToggle_UpdatesProject(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, runes("e"))
	m.form.Focus(settingsform.FieldDelayAutomatedProcessing)

	send(m, runes(" "))

	if !m.Project().DelayAutomatedProcessing {
		t.Fatalf("expected delay_automated_processing true")
	}
	if !m.form.Mirror().DelayAutomatedProcessing {
		t.Fatalf("expected form switch true")
	}
}

func TestClose_DetachesAndKeepsEdits(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, runes("e"))
	m.form.Focus(settingsform.FieldTitle)
	send(m, runes("!"))

	send(m, tea.KeyMsg{Type: tea.KeyCtrlW})

	if m.SettingsVisible() {
		t.Fatalf("expected modal hidden")
	}
	if m.surface.Len() != 0 {
		t.Fatalf("expected overlay detached after close, got %d", m.surface.Len())
	}
	if m.Status() != "Settings closed (unsaved changes)" {
		t.Fatalf("unexpected status %q", m.Status())
	}
	if m.Project().Title != "Digital work review!" {
		t.Fatalf("expected edits kept after close, got %q", m.Project().Title)
	}

	// Reopening creates a fresh overlay under the same handle.
	send(m, runes("e"))
	if !m.SettingsVisible() || m.surface.Len() != 1 {
		t.Fatalf("expected modal reopened")
	}
}

func TestEsc_DoesNotCloseSettings(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, runes("e"))
	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.SettingsVisible() {
		t.Fatalf("expected esc to leave the modal open")
	}
}

func TestSave_WritesSettingsAndHistory(t *testing.T) {
	m, dir := newTestModel(t)
	send(m, runes("e"))
	m.form.Focus(settingsform.FieldCuratedMasterdata)
	send(m, runes(" "), tea.KeyMsg{Type: tea.KeyCtrlW})

	send(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.Dirty() {
		t.Fatalf("expected clean after save, status %q", m.Status())
	}
	if m.Status() != "Saved (1 field changed)" {
		t.Fatalf("unexpected status %q", m.Status())
	}

	s := store.Store{Dir: dir}
	p, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !p.CuratedMasterdata {
		t.Fatalf("expected curated_masterdata saved")
	}

	ctx := context.Background()
	h, err := s.OpenHistory(ctx)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer h.Close()
	changes, err := h.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(changes) != 1 || changes[0].Field != "curated_masterdata" {
		t.Fatalf("unexpected history: %+v", changes)
	}

	send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Status() != "No changes" {
		t.Fatalf("expected no-op save, got %q", m.Status())
	}
}

func TestReload_ResyncsFormAndDiscardsEdits(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.Project()

	send(m, runes("e"))
	m.form.Focus(settingsform.FieldDelayAutomatedProcessing)
	send(m, runes(" "), tea.KeyMsg{Type: tea.KeyCtrlW})

	send(m, tea.KeyMsg{Type: tea.KeyCtrlR})

	if m.Project() == before {
		t.Fatalf("expected a new project value after reload")
	}
	if m.Project().DelayAutomatedProcessing || m.form.Mirror().DelayAutomatedProcessing {
		t.Fatalf("expected reload to discard the unsaved toggle")
	}
	if m.form.Project() != m.Project() {
		t.Fatalf("expected form resynced to the reloaded project")
	}
	if m.Status() != "Reloaded (unsaved changes discarded)" {
		t.Fatalf("unexpected status %q", m.Status())
	}
}

func TestMissingSettings_ShowsInertForm(t *testing.T) {
	t.Setenv("COLREV_SETTINGS_THEME", "light")
	m := New(Options{Dir: t.TempDir()})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})

	if m.Project() != nil {
		t.Fatalf("expected no project")
	}
	if !m.statusErr {
		t.Fatalf("expected an error status")
	}

	send(m, runes("e"))
	send(m, runes("x"))
	if m.Dirty() {
		t.Fatalf("expected inert form without a project")
	}
	if !strings.Contains(xansi.Strip(m.View()), "No project loaded.") {
		t.Fatalf("expected empty-form note in view")
	}

	send(m, tea.KeyMsg{Type: tea.KeyCtrlW}, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.statusErr {
		t.Fatalf("expected save without a project to report an error")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	if !isQuit(send(m, runes("q"))) {
		t.Fatalf("expected q to quit when no modal is open")
	}
	send(m, runes("e"))
	if !isQuit(send(m, tea.KeyMsg{Type: tea.KeyCtrlC})) {
		t.Fatalf("expected ctrl+c to quit with the modal open")
	}
}

func TestView_FitsWindowHeight(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	send(m, runes("e"))

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
}
