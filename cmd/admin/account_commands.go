package main

import (
	"fmt"
	"strings"

	"bailemos/internal/models"

	"github.com/spf13/cobra"
)

func newPromoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := ctx.adminService()
			if err != nil {
				return err
			}
			user, err := admin.SetRole(cmd.Context(), args[0], models.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", user.Name, user.Email)
			return nil
		},
	}
}

func newDemoteCommand(ctx *commandContext) *cobra.Command {
	var roleFlag string

	cmd := &cobra.Command{
		Use:   "demote <email>",
		Short: "Move an admin back to a regular role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.Role(strings.ToLower(strings.TrimSpace(roleFlag)))
			if role == models.RoleAdmin || !role.Valid() {
				return fmt.Errorf("invalid role %q (want dancer, academy or establishment)", roleFlag)
			}
			admin, err := ctx.adminService()
			if err != nil {
				return err
			}
			user, err := admin.SetRole(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now a %s\n", user.Name, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleFlag, "role", string(models.RoleDancer), "Role to assign")
	return cmd
}

func newListAdminsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list-admins",
		Short: "List admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := ctx.adminService()
			if err != nil {
				return err
			}
			admins, err := admin.Admins(cmd.Context())
			if err != nil {
				return err
			}
			if len(admins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No admin users found")
				return nil
			}

			rows := make([][]string, 0, len(admins))
			for _, a := range admins {
				root := ""
				if a.IsRootAdmin {
					root = "yes"
				}
				rows = append(rows, []string{a.ID, a.Name, a.Email, root})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Email", "Root"}, rows, nil))
			return nil
		},
	}
}
