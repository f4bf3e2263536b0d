package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/booking-api/internal/client"
)

func (a *App) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			var err error
			if email, err = a.valueOr(out, email, "Email", false); err != nil {
				return err
			}
			if password, err = a.valueOr(out, password, "Password", true); err != nil {
				return err
			}
			if err := a.session.Login(cmd.Context(), email, password); err != nil {
				return storeError(a.session.Err(), err)
			}
			a.greet(cmd)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func (a *App) signupCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			var err error
			if name, err = a.valueOr(out, name, "Name", false); err != nil {
				return err
			}
			if email, err = a.valueOr(out, email, "Email", false); err != nil {
				return err
			}
			if password, err = a.valueOr(out, password, "Password", true); err != nil {
				return err
			}
			if err := a.session.Signup(cmd.Context(), name, email, password); err != nil {
				return storeError(a.session.Err(), err)
			}
			a.greet(cmd)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func (a *App) greet(cmd *cobra.Command) {
	u := a.session.State().User
	if u == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s> (%s)\n", u.Name, u.Email, u.Role)
	fmt.Fprintf(cmd.OutOrStdout(), "Home: %s\n", client.LandingRoute(u))
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the refresh token and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.State().IsAuthenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			err := a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			return nil
		},
	}
}

func (a *App) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Get a new access token",
		Args:  cobra.NoArgs,
		RunE: a.guarded(nil, func(cmd *cobra.Command, _ []string) error {
			if err := a.session.RefreshToken(cmd.Context()); err != nil {
				return storeError(a.session.Err(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Access token refreshed")
			return nil
		}),
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: a.guarded(nil, func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Reload(cmd.Context()); err != nil {
				return storeError(client.ErrorMessage(err, ""), err)
			}
			u := a.session.State().User
			printUser(cmd.OutOrStdout(), *u)
			fmt.Fprintf(cmd.OutOrStdout(), "Home: %s\n", client.LandingRoute(u))
			return nil
		}),
	}
}

func (a *App) passwdCmd() *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: a.guarded(nil, func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			var err error
			if current, err = a.valueOr(out, current, "Current password", true); err != nil {
				return err
			}
			if next, err = a.valueOr(out, next, "New password", true); err != nil {
				return err
			}
			msg, err := a.api.ChangePassword(cmd.Context(), a.session.Token(), current, next)
			if err != nil {
				return storeError(client.ErrorMessage(err, "Password change failed"), err)
			}
			fmt.Fprintln(out, msg)
			return nil
		}),
	}
	cmd.Flags().StringVar(&current, "current", "", "current password (prompted when empty)")
	cmd.Flags().StringVar(&next, "new", "", "new password (prompted when empty)")
	return cmd
}
