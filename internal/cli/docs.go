package cli

import (
	"fmt"
	"strings"

	"colrev-settings/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show help for the settings editor (key bindings, project fields)",
		Long: strings.TrimSpace(`
Without a topic, lists the help pages. With a topic, prints that page as a
{"data": ...} envelope, or as plain markdown with --raw.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": docs.List()})
			}

			topic, ok := docs.Lookup(args[0])
			if !ok {
				return errNotFound(
					fmt.Sprintf("help topic %q", args[0]),
					"the editor's help (topics: "+strings.Join(docs.Names(), ", ")+")",
				)
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), topic.Markdown)
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": topic})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the page as plain markdown")

	return cmd
}
