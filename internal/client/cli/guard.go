package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oksasatya/booking-api/internal/client"
	"github.com/oksasatya/booking-api/internal/domain/entity"
)

var (
	errNotSignedIn  = errors.New("not signed in, run `bookingctl login` first")
	errNotPermitted = errors.New("not available for your role")
	errNotHydrated  = errors.New("session is not loaded")
)

type runE func(cmd *cobra.Command, args []string) error

// guarded runs fn only when the session passes the route guard for roles.
// A nil set admits any signed-in user.
func (a *App) guarded(roles entity.RoleSet, fn runE) runE {
	return func(cmd *cobra.Command, args []string) error {
		switch d := client.Decide(a.session, roles); d.Outcome {
		case client.Loading:
			return errNotHydrated
		case client.Redirect:
			return errNotSignedIn
		case client.NotFound:
			return fmt.Errorf("%s: %w", cmd.CommandPath(), errNotPermitted)
		}
		return fn(cmd, args)
	}
}

// storeError prefers the message a store recorded over the raw error.
func storeError(msg string, err error) error {
	if msg != "" {
		return errors.New(msg)
	}
	return err
}

func printUser(w io.Writer, u entity.PublicUser) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Created:\t%s\n", u.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

func printUsers(w io.Writer, users []entity.PublicUser) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	_ = tw.Flush()
}
