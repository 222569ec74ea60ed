package overlay

import (
	"strings"

	"colrev-settings/internal/theme"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Surface is the render target overlays are drawn onto, outside the view tree
// of whichever component owns them. Hosts compose it over their own view.
type Surface struct {
	instances map[Handle]*Instance
	// Creation order; later instances stack on top.
	order []Handle

	width  int
	height int
}

func NewSurface() *Surface {
	return &Surface{instances: map[Handle]*Instance{}}
}

func (s *Surface) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *Surface) Size() (width, height int) { return s.width, s.height }

// Instance looks up the instance registered for h.
func (s *Surface) Instance(h Handle) (*Instance, bool) {
	inst, ok := s.instances[h]
	return inst, ok
}

// Create registers a new hidden instance for h. If one is already registered
// it is returned unchanged; instances are never duplicated.
func (s *Surface) Create(h Handle, opts Options, render RenderFunc) *Instance {
	if inst, ok := s.instances[h]; ok {
		return inst
	}
	inst := &Instance{handle: h, opts: opts, render: render}
	s.instances[h] = inst
	s.order = append(s.order, h)
	logger().Debug("create", "handle", string(h), "static", opts.Backdrop == BackdropStatic, "keyboard", opts.Keyboard)
	return inst
}

// Detach drops a hidden instance from the surface. Visible instances are kept:
// detaching is not a way to hide.
func (s *Surface) Detach(h Handle) bool {
	inst, ok := s.instances[h]
	if !ok || inst.visible {
		return false
	}
	delete(s.instances, h)
	for i, oh := range s.order {
		if oh == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered instances, hidden ones included.
func (s *Surface) Len() int { return len(s.instances) }

// Visible returns the shown instances, bottom first.
func (s *Surface) Visible() []*Instance {
	var out []*Instance
	for _, h := range s.order {
		if inst := s.instances[h]; inst != nil && inst.visible {
			out = append(out, inst)
		}
	}
	return out
}

// Top returns the topmost shown instance.
func (s *Surface) Top() (*Instance, bool) {
	vis := s.Visible()
	if len(vis) == 0 {
		return nil, false
	}
	return vis[len(vis)-1], true
}

// Compose draws every shown instance centered over background.
func (s *Surface) Compose(background string) string {
	vis := s.Visible()
	if len(vis) == 0 {
		return background
	}

	w, h := s.width, s.height
	bgLines := strings.Split(background, "\n")
	if w <= 0 {
		for _, l := range bgLines {
			if lw := xansi.StringWidth(l); lw > w {
				w = lw
			}
		}
		if w <= 0 {
			w = 80
		}
	}
	if h <= 0 {
		h = len(bgLines)
	}
	for len(bgLines) < h {
		bgLines = append(bgLines, "")
	}

	dim := false
	for _, inst := range vis {
		if inst.opts.Backdrop == BackdropStatic {
			dim = true
			break
		}
	}
	if dim {
		for i, l := range bgLines {
			bgLines[i] = dimBackground(l)
		}
	}

	for _, inst := range vis {
		if inst.render == nil {
			continue
		}
		bgLines = placeOver(bgLines, inst.render(w), w)
	}
	return strings.Join(bgLines, "\n")
}

// dimBackground strips inner styles first so they cannot override the scrim.
func dimBackground(s string) string {
	if s == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(theme.Scrim).Render(xansi.Strip(s))
}

func placeOver(bg []string, box string, width int) []string {
	boxLines := strings.Split(box, "\n")
	bw := lipgloss.Width(box)
	bh := len(boxLines)

	top := (len(bg) - bh) / 2
	if top < 0 {
		top = 0
	}
	left := (width - bw) / 2
	if left < 0 {
		left = 0
	}

	for i, bl := range boxLines {
		row := top + i
		for row >= len(bg) {
			bg = append(bg, "")
		}
		line := bg[row]
		lw := xansi.StringWidth(line)

		leftPart := xansi.Truncate(line, left, "")
		if pad := left - xansi.StringWidth(leftPart); pad > 0 {
			leftPart += strings.Repeat(" ", pad)
		}
		rightPart := ""
		if lw > left+bw {
			rightPart = xansi.Cut(line, left+bw, lw)
		}
		bg[row] = leftPart + "\x1b[0m" + bl + "\x1b[0m" + rightPart
	}
	return bg
}
