// Package fieldlist implements an editor for an ordered list of strings
// (authors, keywords, curated fields).
//
// The editor is controlled: it renders whatever list the parent last handed to
// SetItems and reports every change as a complete replacement list through the
// onChange callback. It never mutates the slice it was given.
package fieldlist

import (
	"strings"

	"colrev-settings/internal/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeBulk
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Bulk     key.Binding
	Submit   key.Binding
	Apply    key.Binding
	Cancel   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Add:      key.NewBinding(key.WithKeys("a", "+"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K/J", "move")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down")),
		Bulk:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bulk edit")),
		Submit:   key.NewBinding(key.WithKeys("enter")),
		Apply:    key.NewBinding(key.WithKeys("ctrl+s")),
		Cancel:   key.NewBinding(key.WithKeys("esc")),
	}
}

// Editor edits one list-valued field.
type Editor struct {
	title    string
	items    []string
	onChange func([]string)

	cursor  int
	mode    mode
	editIdx int
	focused bool
	width   int

	input textinput.Model
	bulk  textarea.Model
	keys  keyMap
}

// New returns an editor titled title that reports changes to onChange.
func New(title string, onChange func([]string)) *Editor {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 512

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(6)

	return &Editor{
		title:    title,
		onChange: onChange,
		editIdx:  -1,
		width:    48,
		input:    in,
		bulk:     ta,
		keys:     defaultKeyMap(),
	}
}

func (e *Editor) Title() string { return e.title }

// SetItems replaces the displayed list with the parent's current value.
func (e *Editor) SetItems(items []string) {
	e.items = items
	if e.cursor >= len(e.items) {
		e.cursor = len(e.items) - 1
	}
	if e.cursor < 0 {
		e.cursor = 0
	}
}

// Items returns the list last handed to SetItems. Callers must not modify it.
func (e *Editor) Items() []string { return e.items }

func (e *Editor) Cursor() int { return e.cursor }

// Editing reports whether an add, edit or bulk prompt is open.
func (e *Editor) Editing() bool { return e.mode != modeBrowse }

func (e *Editor) Focus() { e.focused = true }

func (e *Editor) Blur() {
	e.focused = false
	e.closePrompt()
}

func (e *Editor) SetWidth(w int) {
	if w < 16 {
		w = 16
	}
	e.width = w
	e.input.Width = w - 4
	e.bulk.SetWidth(w - 2)
}

// Add appends v. Blank values are ignored.
func (e *Editor) Add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	next := make([]string, 0, len(e.items)+1)
	next = append(next, e.items...)
	next = append(next, v)
	e.cursor = len(next) - 1
	e.emit(next)
}

// Replace sets the value at i. A blank value removes the entry.
func (e *Editor) Replace(i int, v string) {
	if i < 0 || i >= len(e.items) {
		return
	}
	v = strings.TrimSpace(v)
	if v == "" {
		e.Remove(i)
		return
	}
	next := append([]string(nil), e.items...)
	next[i] = v
	e.emit(next)
}

func (e *Editor) Remove(i int) {
	if i < 0 || i >= len(e.items) {
		return
	}
	next := make([]string, 0, len(e.items)-1)
	next = append(next, e.items[:i]...)
	next = append(next, e.items[i+1:]...)
	e.emit(next)
}

// Move swaps the entry at i with its neighbour at i+delta.
func (e *Editor) Move(i, delta int) {
	j := i + delta
	if i < 0 || i >= len(e.items) || j < 0 || j >= len(e.items) || i == j {
		return
	}
	next := append([]string(nil), e.items...)
	next[i], next[j] = next[j], next[i]
	e.cursor = j
	e.emit(next)
}

// ReplaceAll replaces the whole list; blank entries are dropped.
func (e *Editor) ReplaceAll(items []string) {
	next := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			next = append(next, it)
		}
	}
	e.emit(next)
}

func (e *Editor) emit(next []string) {
	if e.onChange != nil {
		e.onChange(next)
	}
}

func (e *Editor) openPrompt(m mode) tea.Cmd {
	e.mode = m
	switch m {
	case modeAdd:
		e.editIdx = -1
		e.input.SetValue("")
		return e.input.Focus()
	case modeEdit:
		e.editIdx = e.cursor
		e.input.SetValue(e.items[e.cursor])
		e.input.CursorEnd()
		return e.input.Focus()
	case modeBulk:
		e.bulk.SetValue(strings.Join(e.items, "\n"))
		return e.bulk.Focus()
	}
	return nil
}

func (e *Editor) closePrompt() {
	e.mode = modeBrowse
	e.editIdx = -1
	e.input.Blur()
	e.bulk.Blur()
}

// Update handles a message while the editor is focused. It reports whether the
// message was consumed; unconsumed navigation keys let the host move focus on.
func (e *Editor) Update(msg tea.Msg) (bool, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}

	switch e.mode {
	case modeAdd, modeEdit:
		switch {
		case key.Matches(km, e.keys.Cancel):
			e.closePrompt()
			return true, nil
		case key.Matches(km, e.keys.Submit):
			v := e.input.Value()
			if e.mode == modeAdd {
				e.closePrompt()
				e.Add(v)
			} else {
				idx := e.editIdx
				e.closePrompt()
				e.Replace(idx, v)
			}
			return true, nil
		}
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(km)
		return true, cmd

	case modeBulk:
		switch {
		case key.Matches(km, e.keys.Cancel):
			e.closePrompt()
			return true, nil
		case key.Matches(km, e.keys.Apply):
			lines := strings.Split(e.bulk.Value(), "\n")
			e.closePrompt()
			e.ReplaceAll(lines)
			return true, nil
		}
		var cmd tea.Cmd
		e.bulk, cmd = e.bulk.Update(km)
		return true, cmd
	}

	switch {
	case key.Matches(km, e.keys.Up):
		if e.cursor <= 0 {
			return false, nil
		}
		e.cursor--
		return true, nil
	case key.Matches(km, e.keys.Down):
		if e.cursor >= len(e.items)-1 {
			return false, nil
		}
		e.cursor++
		return true, nil
	case key.Matches(km, e.keys.Add):
		return true, e.openPrompt(modeAdd)
	case key.Matches(km, e.keys.Edit):
		if len(e.items) == 0 {
			return true, e.openPrompt(modeAdd)
		}
		return true, e.openPrompt(modeEdit)
	case key.Matches(km, e.keys.Delete):
		e.Remove(e.cursor)
		return true, nil
	case key.Matches(km, e.keys.MoveUp):
		e.Move(e.cursor, -1)
		return true, nil
	case key.Matches(km, e.keys.MoveDown):
		e.Move(e.cursor, 1)
		return true, nil
	case key.Matches(km, e.keys.Bulk):
		return true, e.openPrompt(modeBulk)
	}
	return false, nil
}

func (e *Editor) View() string {
	label := theme.Label()
	if e.focused {
		label = theme.LabelFocused()
	}
	lines := []string{label.Render(e.title)}

	rowW := e.width - 2
	if e.mode == modeBulk {
		lines = append(lines, e.bulk.View())
		lines = append(lines, theme.MutedText().Render("one entry per line   ctrl+s: apply   esc: cancel"))
		return strings.Join(lines, "\n")
	}

	if len(e.items) == 0 && e.mode != modeAdd {
		lines = append(lines, theme.MutedText().Render("  (none)"))
	}
	for i, it := range e.items {
		if e.mode == modeEdit && i == e.editIdx {
			lines = append(lines, "  "+theme.ControlFocused().Width(rowW).Render(e.input.View()))
			continue
		}
		prefix := "  "
		st := lipgloss.NewStyle().Foreground(theme.SurfaceFg)
		if e.focused && i == e.cursor {
			prefix = "› "
			st = st.Foreground(theme.SelectedFg).Background(theme.SelectedBg)
		}
		lines = append(lines, prefix+st.Render(it))
	}
	if e.mode == modeAdd {
		lines = append(lines, "+ "+theme.ControlFocused().Width(rowW).Render(e.input.View()))
	}
	if e.focused {
		lines = append(lines, theme.MutedText().Render(e.helpLine()))
	}
	return strings.Join(lines, "\n")
}

func (e *Editor) helpLine() string {
	if e.mode == modeAdd || e.mode == modeEdit {
		return "  enter: save   esc: cancel"
	}
	parts := []string{}
	for _, b := range []key.Binding{e.keys.Add, e.keys.Edit, e.keys.Delete, e.keys.MoveUp, e.keys.Bulk} {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return "  " + strings.Join(parts, "   ")
}
