package settingsform

import (
	"strconv"
	"strings"

	"colrev-settings/internal/theme"

	"github.com/charmbracelet/lipgloss"
)

func (f *Form) SetWidth(w int) {
	if w < 24 {
		w = 24
	}
	f.width = w
	for i := Field(0); i < fieldCount; i++ {
		switch i.kind() {
		case kindText:
			// Control style pads one column on each side.
			f.inputs[i].Width = w - 3
		case kindList:
			f.lists[i].SetWidth(w)
		}
	}
}

func (f *Form) View() string {
	var blocks []string
	if f.project == nil {
		blocks = append(blocks, theme.MutedText().Render("No project loaded."))
	}
	for i := Field(0); i < fieldCount; i++ {
		blocks = append(blocks, f.viewField(i))
	}
	if f.project != nil {
		blocks = append(blocks, theme.MutedText().Render(f.helpLine()))
	}
	return strings.Join(blocks, "\n\n")
}

func (f *Form) labelStyle(field Field) lipgloss.Style {
	if f.project != nil && field == f.focus {
		return theme.LabelFocused()
	}
	return theme.Label()
}

func (f *Form) controlStyle(field Field) lipgloss.Style {
	if f.project != nil && field == f.focus {
		return theme.ControlFocused().Width(f.width)
	}
	return theme.Control().Width(f.width)
}

func (f *Form) viewField(field Field) string {
	spec := fieldSpecs[field]
	switch spec.kind {
	case kindList:
		return f.lists[field].View()
	case kindSwitch:
		box := "[ ]"
		if f.mirror.flag(field) {
			box = "[x]"
		}
		return f.labelStyle(field).Render(box + " " + spec.label)
	}

	lines := []string{f.labelStyle(field).Render(spec.label)}
	switch spec.kind {
	case kindText:
		lines = append(lines, f.controlStyle(field).Render(f.inputs[field].View()))
	case kindSelect:
		lines = append(lines, f.controlStyle(field).Render(f.selectText(field)))
	}
	if spec.help != "" && f.project != nil && field == f.focus {
		lines = append(lines, theme.MutedText().Render(spec.help))
	}
	return strings.Join(lines, "\n")
}

// selectText renders an enumerated control. A value that is not among the
// options is shown as is, with nothing highlighted.
func (f *Form) selectText(field Field) string {
	opts := f.Options(field)
	cur := f.mirror.text(field)
	idx := -1
	for i, o := range opts {
		if o == cur {
			idx = i
			break
		}
	}

	switch {
	case idx >= 0:
		return "‹ " + cur + " ›  " + theme.MutedText().Render(fmtPos(idx+1, len(opts)))
	case cur != "":
		return "‹ " + theme.MutedText().Render(cur+" (not in schema)") + " ›"
	case len(opts) == 0:
		return theme.MutedText().Render("no options")
	}
	return "‹ " + theme.MutedText().Render("—") + " ›"
}

func fmtPos(i, n int) string {
	return strconv.Itoa(i) + "/" + strconv.Itoa(n)
}

func (f *Form) helpLine() string {
	bindings := f.keys.Next.Help().Key + ": " + f.keys.Next.Help().Desc
	switch f.focus.kind() {
	case kindSelect:
		h := f.keys.OptionNext.Help()
		bindings += "   " + h.Key + ": " + h.Desc
	case kindSwitch:
		h := f.keys.Toggle.Help()
		bindings += "   " + h.Key + ": " + h.Desc
	}
	return bindings
}
