package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"bailemos/internal/models"

	"gorm.io/gorm"
)

// AcademyEnrollmentRow is one academy's enrollment counts for operator listings.
type AcademyEnrollmentRow struct {
	AcademyID string      `json:"academyId"`
	Pending   int64       `json:"pending"`
	Approved  int64       `json:"approved"`
	Rejected  int64       `json:"rejected"`
	Academy   models.User `json:"academy"`
}

// AdminAcademyDetail aggregates everything operators look at for one academy.
type AdminAcademyDetail struct {
	Academy     models.User         `json:"academy"`
	Enrollments []models.Enrollment `json:"enrollments"`
	Students    []models.User       `json:"students"`
	Classes     []models.DanceClass `json:"classes"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// AdminService provides operator queries and account management.
type AdminService struct {
	db *gorm.DB
}

// NewAdminService returns a new AdminService.
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// EnrollmentOverview returns per-academy enrollment counts, busiest review
// queues first.
func (s *AdminService) EnrollmentOverview(ctx context.Context, limit, offset int) ([]AcademyEnrollmentRow, error) {
	type rawRow struct {
		AcademyID string
		Pending   int64
		Approved  int64
		Rejected  int64
	}

	var rows []rawRow
	if err := s.db.WithContext(ctx).
		Table("enrollments").
		Select(`academy_id,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS pending,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS approved,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS rejected`,
			models.EnrollmentStatusPending, models.EnrollmentStatusApproved, models.EnrollmentStatusRejected).
		Group("academy_id").
		Order("pending DESC, academy_id ASC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.AcademyID)
	}

	byID := map[string]models.User{}
	if len(ids) > 0 {
		var academies []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&academies).Error; err != nil {
			return nil, err
		}
		for _, a := range academies {
			byID[a.ID] = a
		}
	}

	resp := make([]AcademyEnrollmentRow, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, AcademyEnrollmentRow{
			AcademyID: row.AcademyID,
			Pending:   row.Pending,
			Approved:  row.Approved,
			Rejected:  row.Rejected,
			Academy:   byID[row.AcademyID],
		})
	}
	return resp, nil
}

// AcademyDetail loads an academy with its enrollments, roster and classes.
// Secondary lookups that fail are reported as warnings.
func (s *AdminService) AcademyDetail(ctx context.Context, academyID string) (*AdminAcademyDetail, error) {
	var academy models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND role = ?", academyID, models.RoleAcademy).First(&academy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Academy", academyID)
		}
		return nil, err
	}

	detail := &AdminAcademyDetail{Academy: academy}

	if err := s.db.WithContext(ctx).
		Where("academy_id = ?", academyID).
		Order("created_at DESC").
		Limit(200).
		Find(&detail.Enrollments).Error; err != nil {
		slog.WarnContext(ctx, "failed to load enrollments for academy", "academy_id", academyID, "err", err)
		detail.Warnings = append(detail.Warnings, "Partial data: Enrollments could not be loaded.")
	}

	if err := s.db.WithContext(ctx).
		Joins("JOIN academy_students ON academy_students.user_id = users.id").
		Where("academy_students.academy_id = ?", academyID).
		Order("users.name ASC").
		Find(&detail.Students).Error; err != nil {
		slog.WarnContext(ctx, "failed to load students for academy", "academy_id", academyID, "err", err)
		detail.Warnings = append(detail.Warnings, "Partial data: Students could not be loaded.")
	}

	if err := s.db.WithContext(ctx).
		Where("academy_id = ?", academyID).
		Order("created_at DESC").
		Find(&detail.Classes).Error; err != nil {
		slog.WarnContext(ctx, "failed to load classes for academy", "academy_id", academyID, "err", err)
		detail.Warnings = append(detail.Warnings, "Partial data: Classes could not be loaded.")
	}

	return detail, nil
}

// SetRole changes an account's role by email. Demoting to a non-admin role is
// refused for the root admin.
func (s *AdminService) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("role must be one of dancer, establishment, academy, admin")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", email)
		}
		return nil, err
	}
	if user.Role == role {
		return &user, nil
	}
	if user.IsRootAdmin && role != models.RoleAdmin {
		return nil, models.NewForbiddenError("The root admin cannot be demoted")
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return &user, nil
}

// Admins lists every admin account.
func (s *AdminService) Admins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}
