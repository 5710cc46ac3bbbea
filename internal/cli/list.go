package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shelf-cli/internal/chats"
	"shelf-cli/internal/model"
)

func newListCmd(app *App) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved chats, newest first, grouped by date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, session, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			items, err := st.ListChats(ctx, session)
			if err != nil {
				return writeErr(cmd, err)
			}

			fields := []chats.FieldFn{chats.DescriptionField}
			if app.cfg.Search.IncludeURLIDs {
				fields = append(fields, chats.URLIDField)
			}
			items = chats.Filter(items, query, fields...)
			bins := chats.BinByDate(items, time.Now())

			if app.JSON {
				return writeJSON(cmd, map[string]any{"data": bins})
			}

			if len(bins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chats found.")
				return nil
			}
			out := cmd.OutOrStdout()
			for i, b := range bins {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%d)\n", b.Category, len(b.Items))
				for _, it := range b.Items {
					fmt.Fprintf(out, "  %-14s %s\n", it.Key(), displayDescription(it))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter chats by description substring")
	return cmd
}

func displayDescription(it model.ChatItem) string {
	if it.Description != "" {
		return it.Description
	}
	return chats.FallbackDescription
}
