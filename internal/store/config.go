package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type GlobalConfig struct {
	// LastSchema is the schema document used when --schema is not given.
	LastSchema string `json:"lastSchema,omitempty"`

	// TUI holds optional user preferences for the interactive editor.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is "light", "dark" or "auto".
	Theme string `json:"theme,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.colrev-settings).
	if v := strings.TrimSpace(os.Getenv("COLREV_SETTINGS_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".colrev-settings"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// Theme returns the configured TUI theme, or "".
func (c *GlobalConfig) Theme() string {
	if c == nil || c.TUI == nil {
		return ""
	}
	return strings.TrimSpace(c.TUI.Theme)
}
