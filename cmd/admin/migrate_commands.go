package main

import (
	"fmt"
	"strconv"

	"bailemos/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Create tables and apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			all, err := database.LoadMigrations()
			if err != nil {
				return err
			}
			applied, err := database.AppliedMigrations(cmd.Context(), db)
			if err != nil {
				return err
			}
			done := make(map[int]bool, len(applied))
			for _, v := range applied {
				done[v] = true
			}

			rows := make([][]string, 0, len(all))
			for _, m := range all {
				state := "pending"
				if done[m.Version] {
					state = "applied"
				}
				rows = append(rows, []string{fmt.Sprintf("%06d", m.Version), m.Name, state})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Version", "Name", "State"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down <version>",
		Short: "Roll back one applied SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			db, err := ctx.database()
			if err != nil {
				return err
			}
			if err := database.RollbackMigration(cmd.Context(), db, version); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back migration %d\n", version)
			return nil
		},
	})

	return migrateCmd
}
