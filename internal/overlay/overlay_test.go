package overlay

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestCreate_NeverDuplicates(t *testing.T) {
	s := NewSurface()
	h := NewHandle()

	a := s.Create(h, Options{Backdrop: BackdropStatic}, nil)
	b := s.Create(h, Options{Backdrop: BackdropDismissible, Keyboard: true}, nil)
	if a != b {
		t.Fatalf("expected Create to return the registered instance")
	}
	if a.Options().Backdrop != BackdropStatic || a.Options().Keyboard {
		t.Fatalf("expected original options to be kept, got %+v", a.Options())
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 instance, got %d", s.Len())
	}
}

func TestInstance_ShowHideAreIdempotent(t *testing.T) {
	s := NewSurface()
	inst := s.Create(NewHandle(), Options{}, nil)

	inst.Hide()
	inst.Show()
	inst.Show()
	inst.Hide()
	inst.Hide()

	shows, hides := inst.Transitions()
	if shows != 1 || hides != 1 {
		t.Fatalf("expected one real transition each way, got shows=%d hides=%d", shows, hides)
	}
	if inst.Visible() {
		t.Fatalf("expected instance hidden")
	}
}

func TestInstance_LookupMisses(t *testing.T) {
	s := NewSurface()
	if _, ok := s.Instance(NewHandle()); ok {
		t.Fatalf("expected lookup of unknown handle to miss")
	}
}

func TestDetach_OnlyDropsHiddenInstances(t *testing.T) {
	s := NewSurface()
	h := NewHandle()
	inst := s.Create(h, Options{}, nil)
	inst.Show()

	if s.Detach(h) {
		t.Fatalf("expected Detach to refuse a visible instance")
	}
	if !inst.Visible() {
		t.Fatalf("Detach must not hide")
	}
	inst.Hide()
	if !s.Detach(h) {
		t.Fatalf("expected Detach to drop a hidden instance")
	}
	if _, ok := s.Instance(h); ok {
		t.Fatalf("expected instance to be gone")
	}
}

func TestCompose_NoVisibleInstanceReturnsBackground(t *testing.T) {
	s := NewSurface()
	s.Create(NewHandle(), Options{}, func(int) string { return "BOX" })
	if got := s.Compose("bg"); got != "bg" {
		t.Fatalf("expected background unchanged, got %q", got)
	}
}

func TestCompose_PlacesBoxCenteredOverBackground(t *testing.T) {
	s := NewSurface()
	s.SetSize(10, 3)
	inst := s.Create(NewHandle(), Options{Backdrop: BackdropDismissible}, func(int) string { return "XX" })
	inst.Show()

	bg := strings.Join([]string{"0123456789", "abcdefghij", "ABCDEFGHIJ"}, "\n")
	out := strings.Split(xansi.Strip(s.Compose(bg)), "\n")
	if len(out) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(out), out)
	}
	if out[0] != "0123456789" || out[2] != "ABCDEFGHIJ" {
		t.Fatalf("expected untouched rows around the box, got %q", out)
	}
	if out[1] != "abcdXXghij" {
		t.Fatalf("expected box centered on middle row, got %q", out[1])
	}
}

func TestCompose_TopmostDrawnLast(t *testing.T) {
	s := NewSurface()
	s.SetSize(4, 1)
	a := s.Create(NewHandle(), Options{}, func(int) string { return "AAAA" })
	b := s.Create(NewHandle(), Options{}, func(int) string { return "BB" })
	a.Show()
	b.Show()

	if top, ok := s.Top(); !ok || top != b {
		t.Fatalf("expected b on top")
	}
	if got := xansi.Strip(s.Compose("....")); got != "ABBA" {
		t.Fatalf("expected b drawn over a, got %q", got)
	}
}
