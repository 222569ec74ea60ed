package modal

import (
	"strings"
	"testing"

	"colrev-settings/internal/overlay"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type fakeContent struct {
	msgs []tea.Msg
	view string
}

func (f *fakeContent) Update(msg tea.Msg) tea.Cmd {
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeContent) View() string { return f.view }

type counters struct {
	next  int
	ok    int
	close int
}

func newTestModal(t *testing.T, cfg Config) (*Controller, *overlay.Surface, *counters, *fakeContent) {
	t.Helper()
	c := &counters{}
	cfg.OnNext = func() { c.next++ }
	cfg.OnOk = func() { c.ok++ }
	cfg.OnClose = func() { c.close++ }
	s := overlay.NewSurface()
	s.SetSize(100, 30)
	content := &fakeContent{view: "BODY"}
	return New(s, cfg, content), s, c, content
}

func TestMount_ShowsExactlyOneInstance(t *testing.T) {
	m, s, _, _ := newTestModal(t, Config{Title: "Project"})
	m.Mount()
	m.Mount()

	if s.Len() != 1 {
		t.Fatalf("expected exactly one overlay instance, got %d", s.Len())
	}
	inst, ok := s.Instance(m.Handle())
	if !ok || !inst.Visible() {
		t.Fatalf("expected instance shown after mount")
	}
	if shows, _ := inst.Transitions(); shows != 1 {
		t.Fatalf("expected one show transition, got %d", shows)
	}
	opts := inst.Options()
	if opts.Backdrop != overlay.BackdropStatic || opts.Keyboard {
		t.Fatalf("expected static backdrop with keyboard disabled, got %+v", opts)
	}
}

func TestClose_HidesThenNotifies(t *testing.T) {
	cfg := Config{Title: "Project"}
	s := overlay.NewSurface()
	var m *Controller
	visibleAtNotify := true
	cfg.OnClose = func() {
		inst, _ := s.Instance(m.Handle())
		visibleAtNotify = inst.Visible()
	}
	m = New(s, cfg, &fakeContent{})
	m.Mount()
	m.Close()

	if visibleAtNotify {
		t.Fatalf("expected overlay hidden before onClose runs")
	}
}

func TestClose_TwiceNotifiesOnce(t *testing.T) {
	m, s, c, _ := newTestModal(t, Config{Title: "Project"})
	m.Mount()

	m.Close()
	m.Close()

	if c.close != 1 {
		t.Fatalf("expected one onClose, got %d", c.close)
	}
	inst, _ := s.Instance(m.Handle())
	if _, hides := inst.Transitions(); hides != 1 {
		t.Fatalf("expected one hide transition, got %d", hides)
	}
	if s.Len() != 1 {
		t.Fatalf("expected close to reuse the instance, got %d instances", s.Len())
	}
}

func TestClose_WithoutInstanceStillNotifies(t *testing.T) {
	m, _, c, _ := newTestModal(t, Config{})
	m.Close()
	if c.close != 1 {
		t.Fatalf("expected onClose when no overlay is registered, got %d", c.close)
	}
}

func TestRemount_ReusesInstanceAcrossCycles(t *testing.T) {
	m, s, c, _ := newTestModal(t, Config{})
	m.Mount()
	m.Close()
	m.Mount()
	m.Close()

	if s.Len() != 1 {
		t.Fatalf("expected one instance across cycles, got %d", s.Len())
	}
	if c.close != 2 {
		t.Fatalf("expected one notification per explicit close, got %d", c.close)
	}
}

func TestNext_DisabledHasNoEffect(t *testing.T) {
	m, _, c, _ := newTestModal(t, Config{IsShowNext: true, IsNextEnabled: false})
	m.Mount()

	m.Next()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})

	if c.next != 0 {
		t.Fatalf("expected onNext not called, got %d", c.next)
	}
	if !m.Visible() {
		t.Fatalf("expected modal still visible")
	}
}

func TestNext_EnabledCallsOnNextWithoutClosing(t *testing.T) {
	m, _, c, _ := newTestModal(t, Config{IsShowNext: true, IsNextEnabled: true})
	m.Mount()

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})

	if c.next != 1 {
		t.Fatalf("expected onNext once, got %d", c.next)
	}
	if !m.Visible() || c.close != 0 {
		t.Fatalf("expected next to leave the modal open")
	}
}

func TestNext_HiddenButtonHasNoEffect(t *testing.T) {
	m, _, c, _ := newTestModal(t, Config{IsShowNext: false, IsNextEnabled: true})
	m.Mount()
	m.Next()
	if c.next != 0 {
		t.Fatalf("expected onNext not called for a hidden button, got %d", c.next)
	}
}

func TestOk_NoCallExpected(t *testing.T) {
	m, _, c, _ := newTestModal(t, Config{IsShowOk: true, IsOkEnabled: true})
	m.Mount()

	m.Ok()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})

	if c.ok != 0 {
		t.Fatalf("Ok has no wired handler; expected no onOk call, got %d", c.ok)
	}
	if c.close != 0 || !m.Visible() {
		t.Fatalf("expected Ok to leave the modal open")
	}
}

func TestUpdate_CloseAndCancelKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlW, tea.KeyCtrlG} {
		m, _, c, _ := newTestModal(t, Config{})
		m.Mount()
		m.Update(tea.KeyMsg{Type: k})
		m.Update(tea.KeyMsg{Type: k})
		if c.close != 1 {
			t.Fatalf("key %v: expected one onClose, got %d", k, c.close)
		}
		if m.Visible() {
			t.Fatalf("key %v: expected modal hidden", k)
		}
	}
}

func TestUpdate_EscDoesNotCloseAndReachesContent(t *testing.T) {
	m, _, c, content := newTestModal(t, Config{})
	m.Mount()

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	if c.close != 0 || !m.Visible() {
		t.Fatalf("expected esc to leave the modal open")
	}
	if len(content.msgs) != 2 {
		t.Fatalf("expected esc and rune forwarded to content, got %d msgs", len(content.msgs))
	}
}

func TestRender_ComposedOntoSurfaceNotParentView(t *testing.T) {
	m, s, _, _ := newTestModal(t, Config{Title: "Project settings", IsShowNext: true, IsShowOk: true})

	if got := s.Compose("parent"); got != "parent" {
		t.Fatalf("expected nothing drawn before mount, got %q", got)
	}

	m.Mount()
	out := xansi.Strip(s.Compose(strings.Repeat("\n", 29)))
	for _, want := range []string{"Project settings", "BODY", "Cancel", "Next", "Ok", "×"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in composed surface, got:\n%s", want, out)
		}
	}

	m.Close()
	if strings.Contains(xansi.Strip(s.Compose("parent")), "BODY") {
		t.Fatalf("expected modal gone from the surface after close")
	}
}

func TestRender_HidesUnshownButtons(t *testing.T) {
	m, s, _, _ := newTestModal(t, Config{Title: "T"})
	m.Mount()
	out := xansi.Strip(s.Compose(""))
	if strings.Contains(out, "Next") || strings.Contains(out, " Ok ") {
		t.Fatalf("expected Next/Ok hidden, got:\n%s", out)
	}
}
