// Package cli implements the modctl command tree.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lenslink/moderation-service/internal/client"
	"github.com/lenslink/moderation-service/internal/config"
	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/gate"
	"github.com/lenslink/moderation-service/internal/session"
)

// App carries what every command needs once flags are parsed.
type App struct {
	Sessions *session.Manager
	Client   *client.Client
	Out      io.Writer
}

type rootOptions struct {
	apiURL      string
	sessionFile string
	verbose     bool
}

// NewRootCommand builds the modctl command tree. When store is nil the
// session lives in the configured session file.
func NewRootCommand(store session.Store) *cobra.Command {
	opts := &rootOptions{}
	app := &App{}

	root := &cobra.Command{
		Use:           "modctl",
		Short:         "Moderation console for the photographer marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadClient()
			if opts.apiURL != "" {
				cfg.BaseURL = opts.apiURL
			}
			if opts.sessionFile != "" {
				cfg.SessionFile = opts.sessionFile
			}

			logger := zap.NewNop()
			if opts.verbose {
				dev, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = dev
			}

			sessionStore := store
			if sessionStore == nil {
				sessionStore = session.NewFileStore(cfg.SessionFile)
			}
			app.Sessions = session.NewManager(sessionStore)
			if err := app.Sessions.Init(); err != nil {
				logger.Warn("could not read session; continuing logged out", zap.Error(err))
			}
			app.Client = client.New(cfg, app.Sessions, client.WithLogger(logger))
			app.Out = cmd.OutOrStdout()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "moderation API base URL (default $MODCTL_API_URL)")
	root.PersistentFlags().StringVar(&opts.sessionFile, "session-file", "", "session file path (default $MODCTL_SESSION_FILE)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log client diagnostics to stderr")

	root.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newReportsCommand(app),
		newUsersCommand(app),
		newStatsCommand(app),
		newNotificationsCommand(app),
	)
	return root
}

// ErrAccessDenied wraps every local gate rejection.
var ErrAccessDenied = errors.New("access denied")

// guard runs the access gate for route against the cached session.
func (a *App) guard(route gate.Route) error {
	decision := gate.CheckAccess(a.Sessions.Current(), route)
	switch decision.Target {
	case gate.TargetLogin:
		return fmt.Errorf("%w: not logged in, run `modctl login --token <token>`", ErrAccessDenied)
	case gate.TargetRestrictedNotice:
		return fmt.Errorf("%w: %s", ErrAccessDenied, decision.Notice)
	case gate.TargetHome:
		return fmt.Errorf("%w: %s requires role %s", ErrAccessDenied, route.Name, joinRoles(route.RequiredRoles))
	}
	return nil
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinRoles(roles []domain.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return strings.Join(names, " or ")
}
