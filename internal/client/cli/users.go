package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oksasatya/booking-api/internal/client"
	"github.com/oksasatya/booking-api/internal/domain/entity"
)

var adminOnly = entity.NewRoleSet(entity.RoleAdmin)

func (a *App) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin)",
	}
	cmd.AddCommand(
		a.usersListCmd(),
		a.usersGetCmd(),
		a.usersFindCmd(),
		a.usersCreateCmd(),
		a.usersUpdateCmd(),
		a.usersDeleteCmd(),
		a.usersSearchCmd(),
	)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

func (a *App) usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: a.guarded(adminOnly, func(cmd *cobra.Command, _ []string) error {
			users, err := a.users.GetAll(cmd.Context())
			if err != nil {
				return storeError(a.users.Err(), err)
			}
			printUsers(cmd.OutOrStdout(), users)
			fmt.Fprintf(cmd.OutOrStdout(), "%d user(s)\n", a.users.Total())
			return nil
		}),
	}
}

func (a *App) usersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(adminOnly, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.users.GetByID(cmd.Context(), id)
			if err != nil {
				return storeError(a.users.Err(), err)
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		}),
	}
}

func (a *App) usersFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <email>",
		Short: "Show the user with an email address",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(adminOnly, func(cmd *cobra.Command, args []string) error {
			u, err := a.users.GetByEmail(cmd.Context(), args[0])
			if err != nil {
				return storeError(a.users.Err(), err)
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		}),
	}
}

func (a *App) usersCreateCmd() *cobra.Command {
	var in client.NewUser
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: a.guarded(adminOnly, func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Password, err = a.valueOr(cmd.OutOrStdout(), in.Password, "Password", true); err != nil {
				return err
			}
			u, err := a.users.Create(cmd.Context(), in)
			if err != nil {
				return storeError(a.users.Err(), err)
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "display name")
	f.StringVar(&in.Email, "email", "", "account email")
	f.StringVar(&in.Password, "password", "", "initial password (prompted when empty)")
	f.StringVar(&in.Role, "role", "", "admin or user (default user)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *App) usersUpdateCmd() *cobra.Command {
	var name, email, password, role string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's name, email, password or role",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(adminOnly, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch client.UserPatch
			f := cmd.Flags()
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("email") {
				patch.Email = &email
			}
			if f.Changed("password") {
				patch.Password = &password
			}
			if f.Changed("role") {
				patch.Role = &role
			}
			if patch == (client.UserPatch{}) {
				return errors.New("nothing to update, pass at least one of --name, --email, --password, --role")
			}
			u, err := a.users.Update(cmd.Context(), id, patch)
			if err != nil {
				return storeError(a.users.Err(), err)
			}
			if id == a.session.UserID() {
				patch.Password = nil
				_ = a.session.UpdateUser(patch)
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new display name")
	f.StringVar(&email, "email", "", "new email")
	f.StringVar(&password, "password", "", "new password")
	f.StringVar(&role, "role", "", "new role (admin or user)")
	return cmd
}

func (a *App) usersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(adminOnly, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.users.Delete(cmd.Context(), id); err != nil {
				return storeError(a.users.Err(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d deleted\n", id)
			return nil
		}),
	}
}

func (a *App) usersSearchCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search users by name or email",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(adminOnly, func(cmd *cobra.Command, args []string) error {
			users, err := a.users.Search(cmd.Context(), args[0], size)
			if err != nil {
				return storeError(a.users.Err(), err)
			}
			printUsers(cmd.OutOrStdout(), users)
			return nil
		}),
	}
	cmd.Flags().IntVar(&size, "size", 20, "maximum number of hits")
	return cmd
}
