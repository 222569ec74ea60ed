// Package settingsform renders a project's settings as a form and reports
// every edit as a complete replacement project.
//
// The form never owns the project. The parent hands it a *model.Project and
// an optional *schema.Source; whenever either pointer changes the form
// discards its local state and rebuilds it from the new values. Each edit
// calls onChange exactly once with a shallow copy of the current project that
// differs in one field. The form does not apply the edit to itself: the parent
// is expected to echo the new project back through SetProject. A parent that
// ignores onChange leaves the form showing values it does not hold.
package settingsform

import (
	"log/slog"

	"colrev-settings/internal/fieldlist"
	"colrev-settings/internal/model"
	"colrev-settings/internal/schema"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	OptionNext key.Binding
	OptionPrev key.Binding
	Toggle     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		OptionNext: key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("←/→", "choose")),
		OptionPrev: key.NewBinding(key.WithKeys("left", "h")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
	}
}

// Form is the settings form.
type Form struct {
	project  *model.Project
	enums    *schema.Source
	onChange func(model.Project)

	mirror              Mirror
	idPatternOptions    []string
	shareStatReqOptions []string

	inputs [fieldCount]textinput.Model
	// texts holds the exact value behind each text input. The input shows
	// tabs and newlines as spaces, so keystrokes are spliced into this value.
	texts [fieldCount]string
	lists  [fieldCount]*fieldlist.Editor

	focus Field
	width int
	keys  keyMap
}

// New returns an empty form reporting edits to onChange.
func New(onChange func(model.Project)) *Form {
	f := &Form{
		onChange:            onChange,
		idPatternOptions:    []string{},
		shareStatReqOptions: []string{},
		keys:                defaultKeyMap(),
	}
	for i := Field(0); i < fieldCount; i++ {
		switch i.kind() {
		case kindText:
			in := textinput.New()
			in.Prompt = ""
			in.CharLimit = 0
			f.inputs[i] = in
		case kindList:
			field := i
			f.lists[i] = fieldlist.New(i.String(), func(items []string) {
				f.ReplaceList(field, items)
			})
		}
	}
	f.SetWidth(60)
	f.applyFocus()
	return f
}

// SetProject hands the form the parent's current project and schema. When
// either pointer differs from the last call the form resynchronizes and
// reports true.
func (f *Form) SetProject(p *model.Project, enums *schema.Source) bool {
	if p == f.project && enums == f.enums {
		return false
	}
	f.project = p
	f.enums = enums
	f.resync()
	return true
}

func (f *Form) resync() {
	f.mirror = mirrorOf(f.project)
	f.idPatternOptions = f.enums.Enum(schema.FieldIDPattern)
	f.shareStatReqOptions = f.enums.Enum(schema.FieldShareStatReq)

	for i := Field(0); i < fieldCount; i++ {
		switch i.kind() {
		case kindText:
			f.texts[i] = f.mirror.text(i)
			f.inputs[i].SetValue(f.texts[i])
		case kindList:
			f.lists[i].SetItems(listOf(f.project, i))
		}
	}
	logger().Debug("resync", "loaded", f.project != nil, "idPatternOptions", len(f.idPatternOptions), "shareStatReqOptions", len(f.shareStatReqOptions))
}

// Project returns the project last handed to SetProject.
func (f *Form) Project() *model.Project { return f.project }

// Mirror returns the form's local copy of the scalar fields.
func (f *Form) Mirror() Mirror { return f.mirror }

// Options returns the choices offered for an enumerated field, in schema
// order.
func (f *Form) Options(field Field) []string {
	switch field {
	case FieldIDPattern:
		return f.idPatternOptions
	case FieldShareStatReq:
		return f.shareStatReqOptions
	}
	return nil
}

// Value returns what a text control currently displays.
func (f *Form) Value(field Field) string {
	if !field.valid() || field.kind() != kindText {
		return ""
	}
	return f.inputs[field].Value()
}

// Edit applies a raw value to a text or enumerated field and reports the
// resulting project. It is a no-op without a project.
func (f *Form) Edit(field Field, raw string) {
	if f.project == nil || !field.valid() {
		return
	}
	next := *f.project
	switch field {
	case FieldTitle:
		next.Title = raw
	case FieldProtocol:
		next.Protocol = coerceText(field, raw)
	case FieldReviewType:
		next.ReviewType = raw
	case FieldIDPattern:
		next.IDPattern = raw
	case FieldShareStatReq:
		next.ShareStatReq = raw
	case FieldCurationURL:
		next.CurationURL = coerceText(field, raw)
	default:
		return
	}
	f.emit(field, next)
}

// Toggle inverts a boolean field. The form's own copy flips at once, before
// the parent echoes the new project.
func (f *Form) Toggle(field Field) {
	if f.project == nil {
		return
	}
	next := *f.project
	switch field {
	case FieldDelayAutomatedProcessing:
		v := !f.mirror.DelayAutomatedProcessing
		f.mirror.DelayAutomatedProcessing = v
		next.DelayAutomatedProcessing = v
	case FieldCuratedMasterdata:
		v := !f.mirror.CuratedMasterdata
		f.mirror.CuratedMasterdata = v
		next.CuratedMasterdata = v
	default:
		return
	}
	f.emit(field, next)
}

// ReplaceList sets a list field to items.
func (f *Form) ReplaceList(field Field, items []string) {
	if f.project == nil {
		return
	}
	next := *f.project
	switch field {
	case FieldAuthors:
		next.Authors = items
	case FieldKeywords:
		next.Keywords = items
	case FieldCuratedFields:
		next.CuratedFields = items
	default:
		return
	}
	f.emit(field, next)
}

func (f *Form) emit(field Field, next model.Project) {
	logger().Debug("edit", "field", field.String())
	if f.onChange != nil {
		f.onChange(next)
	}
}

// Focused returns the field that receives keys.
func (f *Form) Focused() Field { return f.focus }

// Focus moves keyboard focus to field.
func (f *Form) Focus(field Field) tea.Cmd {
	if !field.valid() {
		return nil
	}
	f.focus = field
	return f.applyFocus()
}

func (f *Form) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := Field(0); i < fieldCount; i++ {
		switch i.kind() {
		case kindText:
			if i == f.focus {
				cmd = f.inputs[i].Focus()
			} else {
				f.inputs[i].Blur()
			}
		case kindList:
			if i == f.focus {
				f.lists[i].Focus()
			} else {
				f.lists[i].Blur()
			}
		}
	}
	return cmd
}

func (f *Form) moveFocus(delta int) tea.Cmd {
	n := int(fieldCount)
	next := (int(f.focus) + delta + n) % n
	return f.Focus(Field(next))
}

// cycle picks the neighbouring option of an enumerated field. A current value
// missing from the options starts from either end.
func (f *Form) cycle(field Field, delta int) {
	opts := f.Options(field)
	if len(opts) == 0 {
		return
	}
	cur := f.mirror.text(field)
	idx := -1
	for i, o := range opts {
		if o == cur {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(opts) - 1
	default:
		idx = (idx + delta + len(opts)) % len(opts)
	}
	f.Edit(field, opts[idx])
}

// Update handles a message. Without a project the controls are inert.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		// Cursor blink and similar ticks.
		if f.focus.kind() == kindText {
			var cmd tea.Cmd
			f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
			return cmd
		}
		return nil
	}
	if f.project == nil {
		return nil
	}

	field := f.focus
	if field.kind() == kindList {
		if handled, cmd := f.lists[field].Update(km); handled {
			return cmd
		}
	}

	switch {
	case key.Matches(km, f.keys.Next):
		return f.moveFocus(1)
	case key.Matches(km, f.keys.Prev):
		return f.moveFocus(-1)
	}

	switch field.kind() {
	case kindText:
		before := f.inputs[field].Value()
		var cmd tea.Cmd
		f.inputs[field], cmd = f.inputs[field].Update(km)
		if after := f.inputs[field].Value(); after != before {
			f.texts[field] = spliceEdit(f.texts[field], before, after)
			f.Edit(field, f.texts[field])
		}
		return cmd
	case kindSelect:
		switch {
		case key.Matches(km, f.keys.OptionNext):
			f.cycle(field, 1)
		case key.Matches(km, f.keys.OptionPrev):
			f.cycle(field, -1)
		}
	case kindSwitch:
		if key.Matches(km, f.keys.Toggle) {
			f.Toggle(field)
		}
	}
	return nil
}

func logger() *slog.Logger {
	return slog.Default().With("component", "settingsform")
}
