package cli

import (
	"github.com/spf13/cobra"

	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/gate"
)

var (
	adminRoute         = gate.Route{Name: "users", RequiredRoles: []domain.Role{domain.RoleAdmin}}
	statsRoute         = gate.Route{Name: "stats", RequiredRoles: []domain.Role{domain.RoleAdmin}}
	notificationsRoute = gate.Route{Name: "notifications"}
)

func newUsersCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage account restrictions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "restricted",
		Short: "List restricted accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.guard(adminRoute); err != nil {
				return err
			}
			users, err := app.Client.ListRestrictedUsers(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(users)
		},
	}, &cobra.Command{
		Use:   "unrestrict <user-id>",
		Short: "Clear an account restriction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.guard(adminRoute); err != nil {
				return err
			}
			user, err := app.Client.Unrestrict(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.print(user)
		},
	})
	return cmd
}

func newStatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show moderation counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.guard(statsRoute); err != nil {
				return err
			}
			stats, err := app.Client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(stats)
		},
	}
}

func newNotificationsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "List moderation outcomes addressed to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.guard(notificationsRoute); err != nil {
				return err
			}
			list, err := app.Client.Notifications(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(list)
		},
	}
}
