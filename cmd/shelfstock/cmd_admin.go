package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shelfstock/internal/admin"
)

// shelfstock login <name> <password>
func newLoginCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "login <name> <password>",
		Short: "Check a login; prints {\"valid\": true|false}",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := get().users.Verify(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"valid": ok})
		},
	}
}

var errResetNotConfirmed = errors.New("reset deletes data; pass --yes to confirm")

// shelfstock reset --yes [--users]
func newResetCmd(get appFunc) *cobra.Command {
	var yes, users bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the whole catalog, and optionally every login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errResetNotConfirmed
			}
			a := get()

			steps := []admin.Step{{Name: "catalog", Run: a.inv.ClearCatalog}}
			if users {
				steps = append(steps,
					admin.Step{Name: "users", Run: a.users.DeleteAll},
					admin.Step{Name: "seed login", Run: func(ctx context.Context) error {
						_, err := a.users.SeedDefault(ctx, a.cfg.Auth.SeedUser, a.cfg.Auth.SeedPassword)
						return err
					}},
				)
			}

			if err := admin.Reset(cmd.Context(), steps); err != nil {
				return err
			}
			names := make([]string, len(steps))
			for i, s := range steps {
				names[i] = s.Name
			}
			return printJSON(cmd.OutOrStdout(), map[string][]string{"reset": names})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	cmd.Flags().BoolVar(&users, "users", false, "also delete logins and re-seed the default one")
	return cmd
}
