package cli

import (
	"context"
	"os"
	"strings"

	"colrev-settings/internal/schema"
	"colrev-settings/internal/store"
	"colrev-settings/internal/tui"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the project settings interactively (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(app)
		},
	}
}

func runEdit(app *App) error {
	s, err := resolveStore(app)
	if err != nil {
		return err
	}
	rememberSchema(app)
	return tui.Run(tui.Options{
		Dir:        s.Dir,
		SchemaPath: resolveSchemaPath(app),
		Theme:      themePreference(),
	})
}

// themePreference prefers COLREV_SETTINGS_THEME over the global config.
func themePreference() string {
	if v := strings.TrimSpace(os.Getenv("COLREV_SETTINGS_THEME")); v != "" {
		return v
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return ""
	}
	return cfg.Theme()
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the project section of settings.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return err
			}
			p, err := loadProject(s)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"data": p,
				"meta": map[string]any{"path": s.SettingsPath()},
			})
		},
	}
}

func newEnumsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enums",
		Short: "Print the id_pattern and share_stat_req options offered by the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, path, err := loadSchema(app)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string][]string{
					schema.FieldIDPattern:    src.Enum(schema.FieldIDPattern),
					schema.FieldShareStatReq: src.Enum(schema.FieldShareStatReq),
				},
				"meta": map[string]any{"schema": path},
			})
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recently saved settings changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			h, err := s.OpenHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = h.Close() }()

			changes, err := h.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if changes == nil {
				changes = []store.Change{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": changes,
				"meta": map[string]any{"count": len(changes), "limit": limit},
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of changes to print")

	return cmd
}
