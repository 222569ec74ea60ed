// Package theme holds the palette and the terminal color preferences shared
// by the settings editor's components.
//
// The UI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).
package theme

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	Muted     lipgloss.TerminalColor = ac("240", "243")
	SurfaceBg lipgloss.TerminalColor = ac("255", "235")
	SurfaceFg lipgloss.TerminalColor = ac("235", "252")

	// Slightly elevated surface for controls/inputs so they remain visible on light terminals.
	ControlBg lipgloss.TerminalColor = ac("252", "235")
	InputBg   lipgloss.TerminalColor = ac("254", "234")

	SelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	SelectedFg lipgloss.TerminalColor = ac("235", "255")

	Accent   lipgloss.TerminalColor = ac("27", "62")
	AccentFg lipgloss.TerminalColor = ac("255", "235")

	ErrorFg lipgloss.TerminalColor = ac("160", "203")

	ModalHeaderBg lipgloss.TerminalColor = ControlBg
	ModalHeaderFg lipgloss.TerminalColor = SurfaceFg

	// Scrim drawn over the background while a static-backdrop overlay is shown.
	Scrim lipgloss.TerminalColor = ac("250", "241")
)

func MutedText() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(Muted))
}

func Label() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SurfaceFg).Bold(true)
}

func LabelFocused() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Accent).Bold(true)
}

func Control() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SurfaceFg).Background(InputBg).Padding(0, 1)
}

func ControlFocused() lipgloss.Style {
	return Control().Foreground(SelectedFg).Background(SelectedBg)
}

func Button() lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(SurfaceFg).
		Background(ControlBg)
}

func ButtonPrimary() lipgloss.Style {
	return Button().Foreground(AccentFg).Background(Accent).Bold(true)
}

func ButtonDisabled() lipgloss.Style {
	return faintIfDark(Button().Foreground(Muted))
}

func Error() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ErrorFg)
}

// ApplyColorProfile sets Lip Gloss's color profile for the interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can
// accidentally disable colors in a TUI. We only honor NO_COLOR and otherwise
// follow the terminal's capabilities.
func ApplyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector reports.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// ApplyBackground configures Lip Gloss's background detection.
//
// Priority:
// 1) pref ("light", "dark" or "auto"; usually COLREV_SETTINGS_THEME or the config file)
// 2) COLORFGBG heuristic (format like "15;0" = fg;bg)
func ApplyBackground(pref string) {
	switch strings.ToLower(strings.TrimSpace(pref)) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		bgStr := strings.TrimSpace(parts[len(parts)-1])
		if bg, err := strconv.Atoi(bgStr); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
