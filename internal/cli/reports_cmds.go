package cli

import (
	"github.com/spf13/cobra"

	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/gate"
)

var (
	submitRoute  = gate.Route{Name: "reports submit", RequiredRoles: []domain.Role{domain.RoleUser}}
	pendingRoute = gate.Route{Name: "reports pending", RequiredRoles: []domain.Role{domain.RoleAdmin}}
	resolveRoute = gate.Route{Name: "reports resolve", RequiredRoles: []domain.Role{domain.RoleAdmin}}
	historyRoute = gate.Route{Name: "reports history", RequiredRoles: []domain.Role{domain.RoleAdmin}}
)

func newReportsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "File and adjudicate reports",
	}
	cmd.AddCommand(
		newReasonsCommand(app),
		newSubmitCommand(app),
		newPendingCommand(app),
		newResolveCommand(app),
		newHistoryCommand(app),
	)
	return cmd
}

func newReasonsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reasons",
		Short: "List the selectable report reasons",
		RunE: func(cmd *cobra.Command, args []string) error {
			reasons, err := app.Client.ListReasons(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(reasons)
		},
	}
}

func newSubmitCommand(app *App) *cobra.Command {
	var (
		photographerID string
		reason         string
		description    string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Report a photographer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.guard(submitRoute); err != nil {
				return err
			}
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}
			report, err := app.Client.SubmitReport(cmd.Context(), photographerID, domain.ReportReason(reason), desc)
			if err != nil {
				return err
			}
			return app.print(report)
		},
	}
	cmd.Flags().StringVar(&photographerID, "photographer", "", "photographer user id")
	cmd.Flags().StringVar(&reason, "reason", "", "one of `modctl reports reasons`")
	cmd.Flags().StringVar(&description, "description", "", "optional details")
	_ = cmd.MarkFlagRequired("photographer")
	return cmd
}

func newPendingCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List pending reports, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.guard(pendingRoute); err != nil {
				return err
			}
			reports, err := app.Client.ListPendingReports(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(reports)
		},
	}
}

func newResolveCommand(app *App) *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "resolve <report-id>",
		Short: "Dismiss a report, or restrict or delete the photographer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.guard(resolveRoute); err != nil {
				return err
			}
			result, err := app.Client.ResolveReport(cmd.Context(), args[0], domain.ModerationAction(action))
			if err != nil {
				return err
			}
			return app.print(result)
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "dismiss, restrict or delete")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newHistoryCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <photographer-id>",
		Short: "Show a photographer's profile, content and report history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.guard(historyRoute); err != nil {
				return err
			}
			view, err := app.Client.PhotographerFullView(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.print(view)
		},
	}
}
