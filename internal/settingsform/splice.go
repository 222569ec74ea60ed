package settingsform

import (
	"unicode"
	"unicode/utf8"
)

// spliceEdit applies the change from before to after, both as shown by a text
// input, to raw, the stored value the input was showing. Runes of raw that the
// input rewrites or drops keep their original bytes outside the edited span.
// When raw cannot be matched to before, after is returned.
func spliceEdit(raw, before, after string) string {
	if raw == before {
		return after
	}
	b, a := []rune(before), []rune(after)

	p := 0
	for p < len(b) && p < len(a) && b[p] == a[p] {
		p++
	}
	s := 0
	for s < len(b)-p && s < len(a)-p && b[len(b)-1-s] == a[len(a)-1-s] {
		s++
	}

	offsets, ok := alignShown(raw, b)
	if !ok {
		return after
	}
	return raw[:offsets[p]] + string(a[p:len(a)-s]) + raw[offsets[len(b)-s]:]
}

// alignShown maps each rune of shown to the byte offset in raw where the raw
// text it stands for starts. The final entry is the offset after the last
// matched rune.
func alignShown(raw string, shown []rune) ([]int, bool) {
	offsets := make([]int, 0, len(shown)+1)
	i := 0
	for _, c := range shown {
		for i < len(raw) {
			r, size := utf8.DecodeRuneInString(raw[i:])
			if r == c || !droppedByInput(r) {
				break
			}
			i += size
		}
		if i >= len(raw) {
			return nil, false
		}
		offsets = append(offsets, i)

		r, size := utf8.DecodeRuneInString(raw[i:])
		switch {
		case r == c:
			i += size
		case c == ' ' && r == '\r' && i+1 < len(raw) && raw[i+1] == '\n':
			i += 2
		case c == ' ' && (r == '\t' || r == '\n' || r == '\r'):
			i += size
		default:
			return nil, false
		}
	}
	return append(offsets, i), true
}

// droppedByInput reports runes a text input removes from its value: control
// characters other than tab and line breaks, and invalid encodings.
func droppedByInput(r rune) bool {
	if r == utf8.RuneError {
		return true
	}
	return unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r'
}
