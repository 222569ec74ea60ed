package tui

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"colrev-settings/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive editor and blocks until it exits.
func Run(opts Options) error {
	theme.ApplyColorProfile()
	theme.ApplyBackground(opts.Theme)

	restore, err := setupLogging()
	if err != nil {
		return err
	}
	defer restore()

	m := New(opts)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// setupLogging routes slog to COLREV_SETTINGS_DEBUG_LOG, or discards it. The
// terminal belongs to the program while it runs.
func setupLogging() (func(), error) {
	prev := slog.Default()
	path := strings.TrimSpace(os.Getenv("COLREV_SETTINGS_DEBUG_LOG"))
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() { slog.SetDefault(prev) }, nil
	}
	f, err := tea.LogToFile(path, "colrev-settings")
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() {
		slog.SetDefault(prev)
		_ = f.Close()
	}, nil
}

func logger() *slog.Logger {
	return slog.Default().With("component", "tui")
}
