package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelf-cli/internal/model"
)

func newLinkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage the deployment project connected to a chat",
	}
	cmd.AddCommand(newLinkSetCmd(app))
	cmd.AddCommand(newLinkShowCmd(app))
	return cmd
}

func newLinkSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <chat-id> <team-slug> <project-slug>",
		Short: "Connect a chat to a deployment project",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, session, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			chatID := strings.TrimSpace(args[0])
			items, err := st.ListChats(ctx, session)
			if err != nil {
				return writeErr(cmd, err)
			}
			item, ok := findChat(items, chatID)
			if !ok {
				return writeErr(cmd, errNotFound("chat", chatID))
			}
			if err := st.LinkProject(ctx, item.Key(), args[1], args[2]); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to %s/%s\n", item.Key(), args[1], args[2])
			return nil
		},
	}
	return cmd
}

func newLinkShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <chat-id>",
		Short: "Show the project connected to a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, session, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			chatID := strings.TrimSpace(args[0])
			link, err := st.LookupLinkedProject(ctx, session, chatID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.JSON {
				return writeJSON(cmd, map[string]any{"data": link})
			}
			if link.Kind != model.LinkConnected {
				fmt.Fprintln(cmd.OutOrStdout(), "No connected project.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", link.TeamSlug, link.ProjectSlug)
			return nil
		},
	}
	return cmd
}
