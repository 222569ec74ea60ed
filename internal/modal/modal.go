// Package modal wraps arbitrary content in an overlay window with a title,
// a close button and a footer of Cancel / Next / Ok actions.
//
// The overlay itself is an imperative widget (overlay.Instance) registered on
// an injected overlay.Surface. A Controller never holds the instance: it looks
// it up by its handle each time it needs it. Mount acquires and shows it;
// only an explicit close hides it. Discarding a Controller hides nothing.
package modal

import (
	"log/slog"
	"strings"

	"colrev-settings/internal/overlay"
	"colrev-settings/internal/theme"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Content is what a modal shows in its body.
type Content interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Config is the declarative side of a modal, supplied by its parent.
type Config struct {
	Title string

	IsShowNext    bool
	IsNextEnabled bool
	IsShowOk      bool
	IsOkEnabled   bool

	OnNext func()
	// OnOk is accepted but not wired to the Ok button: activating Ok does
	// nothing.
	OnOk    func()
	OnClose func()
}

// Options every modal overlay is created with.
var overlayOptions = overlay.Options{
	Backdrop: overlay.BackdropStatic,
	Keyboard: false,
}

type keyMap struct {
	Close  key.Binding
	Cancel key.Binding
	Next   key.Binding
	Ok     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Close:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close")),
		Cancel: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "cancel")),
		Next:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next")),
		Ok:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "ok")),
	}
}

// Controller is one modal.
type Controller struct {
	handle  overlay.Handle
	surface *overlay.Surface
	cfg     Config
	content Content
	keys    keyMap
}

// New returns an unmounted modal that will render onto surface.
func New(surface *overlay.Surface, cfg Config, content Content) *Controller {
	return &Controller{
		handle:  overlay.NewHandle(),
		surface: surface,
		cfg:     cfg,
		content: content,
		keys:    defaultKeyMap(),
	}
}

func (c *Controller) Handle() overlay.Handle { return c.handle }

func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) Content() Content { return c.content }

// SetConfig replaces the declarative configuration (a parent re-render).
func (c *Controller) SetConfig(cfg Config) { c.cfg = cfg }

func (c *Controller) SetContent(content Content) { c.content = content }

func (c *Controller) lookup() (*overlay.Instance, bool) {
	if c.surface == nil {
		return nil, false
	}
	return c.surface.Instance(c.handle)
}

// Mount looks up this modal's overlay, creating it on first use, and shows it.
func (c *Controller) Mount() {
	if c.surface == nil {
		return
	}
	inst, ok := c.lookup()
	if !ok {
		inst = c.surface.Create(c.handle, overlayOptions, c.render)
	}
	inst.Show()
	logger().Debug("mounted", "handle", string(c.handle), "title", c.cfg.Title)
}

// Visible reports whether this modal's overlay is currently shown.
func (c *Controller) Visible() bool {
	inst, ok := c.lookup()
	return ok && inst.Visible()
}

// Close hides the overlay and then notifies the parent.
//
// A close on an overlay that is already hidden is a no-op, so a repeated
// close yields a single notification. When no overlay is registered at all
// the parent is still notified.
func (c *Controller) Close() {
	inst, ok := c.lookup()
	if ok {
		if !inst.Visible() {
			return
		}
		inst.Hide()
	}
	logger().Debug("closed", "handle", string(c.handle), "registered", ok)
	if c.cfg.OnClose != nil {
		c.cfg.OnClose()
	}
}

// Next invokes OnNext when the Next button is shown and enabled. It does not
// change visibility.
func (c *Controller) Next() {
	if !c.cfg.IsShowNext || !c.cfg.IsNextEnabled {
		return
	}
	if c.cfg.OnNext != nil {
		c.cfg.OnNext()
	}
}

// Ok is the Ok button's activation. It has no handler.
func (c *Controller) Ok() {}

// Update routes a message to the modal. Footer and close bindings are handled
// here; everything else goes to the content. esc never closes the modal.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if !c.Visible() {
		return nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, c.keys.Close), key.Matches(km, c.keys.Cancel):
			c.Close()
			return nil
		case key.Matches(km, c.keys.Next):
			c.Next()
			return nil
		case key.Matches(km, c.keys.Ok):
			if c.cfg.IsShowOk && c.cfg.IsOkEnabled {
				c.Ok()
			}
			return nil
		}
		if km.Type == tea.KeyEsc {
			if inst, ok := c.lookup(); ok && inst.Options().Keyboard {
				c.Close()
				return nil
			}
		}
	}
	if c.content == nil {
		return nil
	}
	return c.content.Update(msg)
}

// bodyWidth mirrors the overlay's box: at most 72 columns, leaving margins on
// narrow terminals.
func bodyWidth(surfaceW int) int {
	w := surfaceW - 8
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// ContentWidth is the width available to the content on a surface surfaceW
// columns wide.
func ContentWidth(surfaceW int) int {
	return bodyWidth(surfaceW) - 2
}

// render draws the modal box. It is called by the surface, not by the
// parent's view.
func (c *Controller) render(surfaceW int) string {
	w := bodyWidth(surfaceW)

	titleSt := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ModalHeaderFg).
		Background(theme.ModalHeaderBg).
		Padding(0, 1)
	closeBtn := theme.Button().Render("×")
	titleW := w - lipgloss.Width(closeBtn)
	header := lipgloss.JoinHorizontal(lipgloss.Top, titleSt.Width(titleW).Render(c.cfg.Title), closeBtn)

	body := ""
	if c.content != nil {
		body = c.content.View()
	}
	body = lipgloss.NewStyle().Width(w).Padding(1, 1).Render(body)

	footer := lipgloss.NewStyle().Width(w).Align(lipgloss.Right).Padding(0, 1).Render(c.footer())
	help := theme.MutedText().Width(w).Padding(0, 1).Render(c.helpLine())

	box := strings.Join([]string{header, body, footer, help}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Background(theme.SurfaceBg).
		Render(box)
}

func (c *Controller) footer() string {
	sep := " "
	btns := []string{theme.Button().Render("Cancel")}
	if c.cfg.IsShowNext {
		btns = append(btns, sep, buttonStyle(c.cfg.IsNextEnabled).Render("Next"))
	}
	if c.cfg.IsShowOk {
		btns = append(btns, sep, buttonStyle(c.cfg.IsOkEnabled).Render("Ok"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, btns...)
}

func buttonStyle(enabled bool) lipgloss.Style {
	if enabled {
		return theme.ButtonPrimary()
	}
	return theme.ButtonDisabled()
}

func (c *Controller) helpLine() string {
	bindings := []key.Binding{c.keys.Cancel, c.keys.Close}
	if c.cfg.IsShowNext && c.cfg.IsNextEnabled {
		bindings = append(bindings, c.keys.Next)
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "   ")
}

func logger() *slog.Logger {
	return slog.Default().With("component", "modal")
}
