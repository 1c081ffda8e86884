package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/service"
)

func newUserCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd(e), newUserStaffCmd(e, true), newUserStaffCmd(e, false))
	return cmd
}

func authService(e *env) service.AuthService {
	return service.NewAuthService(repository.NewPgUserRepository(e.pool), e.cfg.StaffUsernames)
}

func newUserCreateCmd(e *env) *cobra.Command {
	var (
		email    string
		password string
		staff    bool
	)
	cmd := &cobra.Command{
		Use:     "create <username>",
		Short:   "Create an account",
		Example: `  dirctl user create alice --email alice@example.com --password 's3cret-pass' --staff`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := authService(e).CreateUser(cmd.Context(), args[0], email, password, staff)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, staff=%t)\n", u.Username, u.ID, u.IsStaff)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().BoolVar(&staff, "staff", false, "grant dashboard access")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// signOut ends every session of username so a revoked flag takes effect
// immediately.
func signOut(ctx context.Context, e *env, username string) error {
	users := repository.NewPgUserRepository(e.pool)
	u, err := users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	sessions := service.NewSessionService(repository.NewPgSessionRepository(e.pool), users, e.cfg.SessionTTL)
	if err := sessions.DeleteAllSessions(ctx, u.ID); err != nil {
		return fmt.Errorf("end sessions: %w", err)
	}
	return nil
}

// newUserStaffCmd builds "promote" (grant) or "demote" (revoke).
func newUserStaffCmd(e *env, grant bool) *cobra.Command {
	use, short := "demote <username>", "Revoke dashboard access"
	if grant {
		use, short = "promote <username>", "Grant dashboard access"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authService(e).SetStaff(cmd.Context(), args[0], grant); err != nil {
				return fmt.Errorf("set staff: %w", err)
			}
			if !grant {
				if err := signOut(cmd.Context(), e, args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s staff=%t\n", args[0], grant)
			return nil
		},
	}
}
