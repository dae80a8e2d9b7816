package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bailemos/internal/models"
	"bailemos/internal/repository"

	"github.com/spf13/cobra"
)

func newEnrollmentsCommand(ctx *commandContext) *cobra.Command {
	enrollmentsCmd := &cobra.Command{
		Use:   "enrollments",
		Short: "Inspect academy enrollment queues",
	}
	enrollmentsCmd.AddCommand(newEnrollmentsListCommand(ctx))
	return enrollmentsCmd
}

func newEnrollmentsListCommand(ctx *commandContext) *cobra.Command {
	var academyRef string
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an academy's enrollments",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status *models.EnrollmentStatus
			if s := strings.ToLower(strings.TrimSpace(statusFlag)); s != "" {
				st := models.EnrollmentStatus(s)
				if !st.Valid() {
					return fmt.Errorf("invalid status %q (want pending, approved or rejected)", statusFlag)
				}
				status = &st
			}

			db, err := ctx.database()
			if err != nil {
				return err
			}
			academy, err := resolveAcademy(cmd.Context(), repository.NewUserRepository(db), academyRef)
			if err != nil {
				return err
			}

			enrollments, err := repository.NewEnrollmentRepository(db).ListByAcademy(cmd.Context(), academy.ID, status)
			if err != nil {
				return err
			}
			if len(enrollments) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No enrollments for %s\n", academy.Name)
				return nil
			}

			rows := make([][]string, 0, len(enrollments))
			for _, e := range enrollments {
				reviewed := "-"
				if e.ReviewedAt != nil {
					reviewed = e.ReviewedAt.Format(time.DateTime)
				}
				rows = append(rows, []string{
					e.ID, e.FullName, e.Email, string(e.Status),
					e.CreatedAt.Format(time.DateTime), reviewed,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Applicant", "Email", "Status", "Submitted", "Reviewed"},
				rows, nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&academyRef, "academy", "", "Academy id or email")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (pending, approved, rejected)")
	_ = cmd.MarkFlagRequired("academy")
	return cmd
}

func newOverviewCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show enrollment counts per academy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			admin, err := ctx.adminService()
			if err != nil {
				return err
			}
			overview, err := admin.EnrollmentOverview(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if len(overview) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No enrollments yet")
				return nil
			}

			rows := make([][]string, 0, len(overview))
			for _, row := range overview {
				rows = append(rows, []string{
					row.Academy.Name,
					row.AcademyID,
					strconv.FormatInt(row.Pending, 10),
					strconv.FormatInt(row.Approved, 10),
					strconv.FormatInt(row.Rejected, 10),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Academy", "ID", "Pending", "Approved", "Rejected"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum academies to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Academies to skip")
	return cmd
}

func newStudentsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "students <academy>",
		Short: "List an academy's roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			users := repository.NewUserRepository(db)
			academy, err := resolveAcademy(cmd.Context(), users, args[0])
			if err != nil {
				return err
			}
			students, err := users.ListStudents(cmd.Context(), academy.ID)
			if err != nil {
				return err
			}
			if len(students) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no students\n", academy.Name)
				return nil
			}

			rows := make([][]string, 0, len(students))
			for _, s := range students {
				rows = append(rows, []string{s.ID, s.Name, s.Email, s.Phone})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Email", "Phone"}, rows, nil))
			return nil
		},
	}
}

// resolveAcademy accepts an academy id or login email.
func resolveAcademy(ctx context.Context, users repository.UserRepository, ref string) (*models.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("academy id or email is required")
	}

	var academy *models.User
	var err error
	if strings.Contains(ref, "@") {
		academy, err = users.GetByEmail(ctx, ref)
		if err == nil && academy == nil {
			return nil, fmt.Errorf("no account with email %s", ref)
		}
	} else {
		academy, err = users.GetByID(ctx, strings.ToLower(ref))
	}
	if err != nil {
		return nil, err
	}
	if academy.Role != models.RoleAcademy {
		return nil, fmt.Errorf("%s is a %s account, not an academy", ref, academy.Role)
	}
	return academy, nil
}
