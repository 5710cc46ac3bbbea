package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the data directory, database and session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			checks := map[string]any{}

			dataDir := app.cfg.DataDir
			checks["dataDir"] = dataDir
			if st, err := os.Stat(dataDir); err != nil {
				checks["dataDirOK"] = false
			} else {
				checks["dataDirOK"] = st.IsDir()
			}

			dbPath := filepath.Join(dataDir, "shelf.sqlite")
			if _, err := os.Stat(dbPath); err == nil {
				checks["database"] = dbPath
			}

			st, session, err := openStore(ctx, app)
			if err != nil {
				checks["openOK"] = false
				checks["openError"] = err.Error()
			} else {
				defer st.Close()
				checks["openOK"] = true
				checks["sessionID"] = session.ID
				items, listErr := st.ListChats(ctx, session)
				checks["listOK"] = listErr == nil
				if listErr == nil {
					checks["chats"] = len(items)
				}
			}

			if app.JSON {
				return writeJSON(cmd, map[string]any{"data": checks})
			}
			for _, k := range []string{"dataDir", "dataDirOK", "database", "openOK", "openError", "sessionID", "listOK", "chats"} {
				if v, ok := checks[k]; ok {
					fmt.Fprintf(out, "%-10s %v\n", k, v)
				}
			}
			if ok, _ := checks["openOK"].(bool); !ok {
				return fmt.Errorf("store is not usable")
			}
			return nil
		},
	}
	return cmd
}
