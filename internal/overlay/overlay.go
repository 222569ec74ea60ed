// Package overlay provides the imperative overlay widget used by modals and the
// render surface that overlays are drawn onto.
//
// An Instance is looked up by its Handle, the way a DOM modal instance is looked
// up from its element. Show and Hide are idempotent. Nothing here hides an
// instance implicitly: visibility only changes through explicit calls.
package overlay

import (
	"log/slog"

	"github.com/google/uuid"
)

// Handle identifies one overlay instance on a Surface.
type Handle string

// NewHandle returns a fresh, unique handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

type Backdrop int

const (
	// BackdropDismissible leaves the background as is.
	BackdropDismissible Backdrop = iota
	// BackdropStatic dims the background while the overlay is shown.
	BackdropStatic
)

type Options struct {
	Backdrop Backdrop
	// Keyboard allows esc to hide the overlay. Hosts check this before
	// reacting to esc; the instance itself never handles keys.
	Keyboard bool
}

// RenderFunc renders an overlay's content for the given surface width.
type RenderFunc func(width int) string

// Instance is one overlay.
type Instance struct {
	handle  Handle
	opts    Options
	render  RenderFunc
	visible bool

	shows int
	hides int
}

func (i *Instance) Handle() Handle   { return i.handle }
func (i *Instance) Options() Options { return i.opts }
func (i *Instance) Visible() bool    { return i.visible }

// Transitions returns how many times the instance actually changed to shown
// and to hidden.
func (i *Instance) Transitions() (shows, hides int) { return i.shows, i.hides }

// Show makes the instance visible. Showing a visible instance is a no-op.
func (i *Instance) Show() {
	if i.visible {
		return
	}
	i.visible = true
	i.shows++
	logger().Debug("show", "handle", string(i.handle))
}

// Hide makes the instance invisible. Hiding a hidden instance is a no-op.
func (i *Instance) Hide() {
	if !i.visible {
		return
	}
	i.visible = false
	i.hides++
	logger().Debug("hide", "handle", string(i.handle))
}

func logger() *slog.Logger {
	return slog.Default().With("component", "overlay")
}
