package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shelf-cli/internal/model"
)

func newNewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [description]",
		Short: "Create a chat",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, session, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			var description string
			if len(args) == 1 {
				description = strings.TrimSpace(args[0])
			}
			item := model.ChatItem{
				InitialID:   uuid.NewString(),
				Description: description,
				CreatedAt:   time.Now().UTC(),
			}
			if description != "" {
				item.URLID = slugify(description)
			}
			if err := st.CreateChat(ctx, session, item); err != nil {
				return writeErr(cmd, err)
			}

			if app.JSON {
				return writeJSON(cmd, map[string]any{"data": item})
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.InitialID)
			return nil
		},
	}
	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <chat-id> <description>",
		Short: "Change a chat's description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, session, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			chatID := strings.TrimSpace(args[0])
			description := strings.TrimSpace(args[1])
			if err := st.UpdateDescription(ctx, session, chatID, description); err != nil {
				return writeErr(cmd, err)
			}
			if app.JSON {
				return writeJSON(cmd, map[string]any{
					"data": map[string]string{"id": chatID, "description": description},
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Renamed", chatID)
			return nil
		},
	}
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			if err := st.ClearSession(ctx); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
	return cmd
}

// slugify builds a URL-friendly slug from a description.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
