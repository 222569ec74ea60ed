package cli

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"colrev-settings/internal/format"
	"colrev-settings/internal/model"
	"colrev-settings/internal/schema"
	"colrev-settings/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	SchemaPath string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "colrev-settings",
		Short:        "Edit the project settings of a CoLRev repository",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Edit settings.json of the enclosing repository
  colrev-settings

  # Offer id_pattern / share_stat_req choices from a schema
  colrev-settings --schema settings.schema.json

  # Scriptable commands
  colrev-settings show --pretty
  colrev-settings enums --schema settings.schema.json
  colrev-settings history --limit 5
  colrev-settings docs keys --raw
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive editor.
			if len(args) == 0 {
				return runEdit(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})))
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("COLREV_DIR", ""), "CoLRev repository holding settings.json (default: enclosing repository of the working directory)")
	cmd.PersistentFlags().StringVar(&app.SchemaPath, "schema", envOr("COLREV_SCHEMA", ""), "Settings schema (JSON or YAML) providing id_pattern and share_stat_req options")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("COLREV_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newEnumsCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func resolveStore(app *App) (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
	}
	return store.Store{Dir: dir}, nil
}

// resolveSchemaPath returns --schema, or the last schema remembered in the
// global config when it still exists.
func resolveSchemaPath(app *App) string {
	if p := strings.TrimSpace(app.SchemaPath); p != "" {
		return p
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		slog.Warn("config unreadable", "err", err)
		return ""
	}
	if cfg.LastSchema == "" {
		return ""
	}
	if _, err := os.Stat(cfg.LastSchema); err != nil {
		return ""
	}
	return cfg.LastSchema
}

// rememberSchema stores an explicitly given schema path for later runs.
func rememberSchema(app *App) {
	p := strings.TrimSpace(app.SchemaPath)
	if p == "" {
		return
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		slog.Warn("config unreadable", "err", err)
		return
	}
	if cfg.LastSchema == p {
		return
	}
	cfg.LastSchema = p
	if err := store.SaveConfig(cfg); err != nil {
		slog.Warn("config not saved", "err", err)
	}
}

func loadProject(s store.Store) (*model.Project, error) {
	p, err := s.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, store.ErrNoProjectSection) {
			return nil, errNotFound("project", s.SettingsPath())
		}
		return nil, err
	}
	return p, nil
}

func loadSchema(app *App) (*schema.Source, string, error) {
	path := resolveSchemaPath(app)
	if path == "" {
		return nil, "", errors.New("no schema: pass --schema or set COLREV_SCHEMA")
	}
	src, err := schema.Load(path)
	if err != nil {
		return nil, path, err
	}
	return src, path, nil
}
