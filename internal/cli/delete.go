package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shelf-cli/internal/chats"
	"shelf-cli/internal/model"
)

func newDeleteCmd(app *App) *cobra.Command {
	var alsoProject bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a chat, optionally cascading to its connected project",
		Args:  cobra.ExactArgs(1),
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

			// Same lifecycle as the TUI: confirm, resolve the link, then
			// send one request. The coordinator enforces that the cascade
			// flag only goes out for a connected project.
			coord := chats.NewCoordinator(chats.CoordinatorConfig{
				Notify: func(msg string) { fmt.Fprintln(cmd.ErrOrStderr(), msg) },
			})
			coord.RequestDelete(item)

			link, lookupErr := st.LookupLinkedProject(ctx, session, item.Key())
			coord.ResolveLink(item.Key(), link, lookupErr)
			if lookupErr != nil {
				app.log.Warn("linked project lookup failed",
					zap.String("chat", item.Key()), zap.Error(lookupErr))
			}

			if alsoProject {
				if coord.Link().Kind != model.LinkConnected {
					fmt.Fprintln(cmd.ErrOrStderr(), "Chat has no connected project; deleting the chat only.")
				}
				coord.ToggleAlsoDelete()
			}

			if !yes {
				if !confirmPrompt(cmd, &promptInfo{Item: item, Link: coord.Link(), AlsoDelete: coord.AlsoDelete()}) {
					coord.Cancel()
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			req, ok := coord.Confirm(session)
			if !ok {
				return writeErr(cmd, errors.New("no session; sign in first"))
			}
			result := st.DeleteChat(ctx, req)
			settlement := coord.Settle(result)
			if settlement.Failed {
				return errors.New(settlement.Err)
			}

			if app.JSON {
				return writeJSON(cmd, map[string]any{
					"data": map[string]any{
						"id":             req.ChatID,
						"deletedProject": req.AlsoDeleteExternal,
					},
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted", req.ChatID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&alsoProject, "also-delete-project", false, "Also delete the connected project, if any")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func findChat(items []model.ChatItem, id string) (model.ChatItem, bool) {
	for _, it := range items {
		if it.Key() == id || it.ID == id || it.URLID == id {
			return it, true
		}
	}
	return model.ChatItem{}, false
}

func confirmPrompt(cmd *cobra.Command, p *promptInfo) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Delete %q? This cannot be undone.\n", displayDescription(p.Item))
	if p.AlsoDelete && p.Link.Kind == model.LinkConnected {
		fmt.Fprintf(out, "The connected project %s/%s will be deleted too.\n", p.Link.TeamSlug, p.Link.ProjectSlug)
	}
	fmt.Fprint(out, "Type y to confirm: ")

	r := bufio.NewReader(cmd.InOrStdin())
	line, err := r.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

type promptInfo struct {
	Item       model.ChatItem
	Link       model.LinkedProject
	AlsoDelete bool
}
