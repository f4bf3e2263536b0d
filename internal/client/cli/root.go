// Package cli implements bookingctl, the command-line front end of the booking API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oksasatya/booking-api/internal/client"
)

const (
	keyAPIURL      = "api_url"
	keySessionFile = "session_file"
	keyTimeout     = "timeout"

	defaultAPIURL  = "http://localhost:8080/api"
	defaultTimeout = 15 * time.Second
)

// App carries the state shared by every command of one invocation.
type App struct {
	v       *viper.Viper
	api     *client.API
	session *client.Session
	users   *client.Users
	in      *bufio.Reader
}

// NewRootCmd builds the command tree. Configuration comes from flags, then
// BOOKING_* environment variables, then defaults.
func NewRootCmd() *cobra.Command {
	app := &App{v: viper.New()}

	root := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Command-line client for the booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("api-url", defaultAPIURL, "base URL of the API, including /api")
	pf.String("session-file", defaultSessionFile(), "where the session is stored")
	pf.Duration("timeout", defaultTimeout, "HTTP timeout")
	for flag, key := range map[string]string{"api-url": keyAPIURL, "session-file": keySessionFile, "timeout": keyTimeout} {
		_ = app.v.BindPFlag(key, pf.Lookup(flag))
	}
	app.v.SetEnvPrefix("BOOKING")
	app.v.AutomaticEnv()

	root.AddCommand(
		app.loginCmd(),
		app.signupCmd(),
		app.logoutCmd(),
		app.refreshCmd(),
		app.whoamiCmd(),
		app.passwdCmd(),
		app.usersCmd(),
	)
	return root
}

// Execute runs bookingctl and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

func (a *App) init(cmd *cobra.Command) error {
	timeout := a.v.GetDuration(keyTimeout)
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	a.api = client.NewAPI(a.v.GetString(keyAPIURL), timeout)
	a.session = client.NewSession(a.api, client.NewFilePersister(a.v.GetString(keySessionFile)))
	a.users = client.NewUsers(a.api, a.session)
	a.in = bufio.NewReader(cmd.InOrStdin())
	if err := a.session.Hydrate(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: ignoring unreadable session:", err)
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".bookingctl-session.json"
	}
	return filepath.Join(dir, "bookingctl", "session.json")
}
