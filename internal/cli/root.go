package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shelf-cli/internal/backend"
	"shelf-cli/internal/chats"
	"shelf-cli/internal/config"
	"shelf-cli/internal/logging"
	"shelf-cli/internal/model"
	"shelf-cli/internal/tui"
)

type App struct {
	ConfigPath string
	DataDir    string
	JSON       bool

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "shelf",
		Short:        "Browse, rename and delete your saved chats",
		SilenceUsage: true,
		Example: `  # Start the interactive chat browser
  shelf

  # Scriptable commands
  shelf list --query blog
  shelf rename <chat-id> "New name"
  shelf delete <chat-id> --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("SHELF_CONFIG", ""), "Path to config file (default: ~/.config/shelf/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", envOr("SHELF_DATA_DIR", ""), "Path to data dir (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "JSON output for scriptable commands")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newLinkCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func (app *App) load() error {
	path := app.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if app.DataDir != "" {
		// Keep a derived log path inside the overridden data dir; an
		// explicitly configured one stays where it is.
		if cfg.Log.File == config.DefaultLogFile(cfg.DataDir) {
			cfg.Log.File = config.DefaultLogFile(app.DataDir)
		}
		cfg.DataDir = app.DataDir
	}
	app.cfg = cfg

	log, err := logging.New(cfg.Log)
	if err != nil {
		// A broken log path should not make the CLI unusable.
		fmt.Fprintln(os.Stderr, "warning: logging disabled:", err)
		log = logging.Nop()
	}
	app.log = log
	return nil
}

// openStore opens the local chat store and ensures a session exists.
func openStore(ctx context.Context, app *App) (*backend.Store, *model.Session, error) {
	st, err := backend.Open(ctx, app.cfg.DataDir, app.log)
	if err != nil {
		return nil, nil, err
	}
	session, err := st.EnsureSession(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, session, nil
}

func runTUI(app *App) error {
	ctx := context.Background()
	st, session, err := openStore(ctx, app)
	if err != nil {
		return err
	}
	defer st.Close()

	return tui.Run(tui.Deps{
		Client:        st,
		Session:       session,
		Active:        chats.NewActiveChatStore(),
		Log:           app.log,
		IncludeURLIDs: app.cfg.Search.IncludeURLIDs,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
