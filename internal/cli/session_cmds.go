package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lenslink/moderation-service/internal/gate"
)

func newLoginCommand(app *App) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token issued by the identity service",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.Client.Login(cmd.Context(), token)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "logged in as %s (%s)\n", user.ID, user.Role)
			if user.Restricted {
				fmt.Fprintln(app.Out, gate.RestrictionNotice(user.RestrictionReason))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the cached account and whether it may act",
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh {
				if _, err := app.Client.RefreshSession(cmd.Context()); err != nil {
					return err
				}
			}
			if err := app.guard(gate.Route{Name: "whoami"}); err != nil {
				return err
			}
			return app.print(app.Sessions.Current().User)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-read the account from the server first")
	return cmd
}
