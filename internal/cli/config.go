package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelf-cli/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.JSON {
				return writeJSON(cmd, map[string]any{"data": app.cfg})
			}
			out := cmd.OutOrStdout()
			path := app.ConfigPath
			if path == "" {
				if p, err := config.DefaultPath(); err == nil {
					path = p
				}
			}
			fmt.Fprintf(out, "config file:  %s\n", path)
			fmt.Fprintf(out, "data dir:     %s\n", app.cfg.DataDir)
			fmt.Fprintf(out, "log level:    %s\n", app.cfg.Log.Level)
			fmt.Fprintf(out, "log file:     %s\n", app.cfg.Log.File)
			fmt.Fprintf(out, "search slugs: %v\n", app.cfg.Search.IncludeURLIDs)
			return nil
		},
	}
	return cmd
}
