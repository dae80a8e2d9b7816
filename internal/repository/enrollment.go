package repository

import (
	"context"
	"errors"
	"time"

	"bailemos/internal/models"
	"bailemos/internal/observability"

	"gorm.io/gorm"
)

// ReviewInput describes a pending -> approved|rejected transition.
type ReviewInput struct {
	EnrollmentID string
	AcademyID    string
	Status       models.EnrollmentStatus
	ReviewerID   string
	ReviewedAt   time.Time
}

// EnrollmentRepository defines persistence operations for enrollments.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	SetVoucherPath(ctx context.Context, id, path string) error
	Delete(ctx context.Context, id string) error
	FindActive(ctx context.Context, academyID, userID string) (*models.Enrollment, error)
	GetForAcademy(ctx context.Context, academyID, id string) (*models.Enrollment, error)
	ListByAcademy(ctx context.Context, academyID string, status *models.EnrollmentStatus) ([]models.Enrollment, error)
	LatestForApplicant(ctx context.Context, academyID, userID string) (*models.Enrollment, error)
	LatestApprovedForUser(ctx context.Context, userID string) (*models.Enrollment, error)
	Review(ctx context.Context, in ReviewInput) (*models.Enrollment, error)
}

type enrollmentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewEnrollmentRepository returns a new EnrollmentRepository implementation.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db, log: observability.NewRepoLogger("enrollments")}
}

// Create inserts a new enrollment. A clash with the active-applicant unique
// index is reported as a conflict.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	defer observability.TrackQuery("create", "enrollments")()
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Already enrolled or enrollment pending for this academy")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": enrollment.ID, "academy_id": enrollment.AcademyID})
	return nil
}

func (r *enrollmentRepository) SetVoucherPath(ctx context.Context, id, path string) error {
	res := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"voucher_path": path, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "set_voucher_path")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Enrollment", id)
	}
	return nil
}

// Delete removes an enrollment whose submission could not be completed.
func (r *enrollmentRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	return nil
}

// FindActive returns the pending or approved enrollment for the pair, or nil, nil.
func (r *enrollmentRepository) FindActive(ctx context.Context, academyID, userID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("academy_id = ? AND user_id = ? AND status IN ?", academyID, userID, models.ActiveEnrollmentStatuses).
		Order("created_at DESC").
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) GetForAcademy(ctx context.Context, academyID, id string) (*models.Enrollment, error) {
	defer observability.TrackQuery("get", "enrollments")()
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND academy_id = ?", id, academyID).
		First(&enrollment).Error
	if err != nil {
		return nil, findErr(err, "Enrollment", id)
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) ListByAcademy(ctx context.Context, academyID string, status *models.EnrollmentStatus) ([]models.Enrollment, error) {
	defer observability.TrackQuery("list", "enrollments")()
	q := r.db.WithContext(ctx).Preload("User").Where("academy_id = ?", academyID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var enrollments []models.Enrollment
	if err := q.Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return enrollments, nil
}

// LatestForApplicant returns the most recently updated enrollment of any
// status for the pair, or nil, nil.
func (r *enrollmentRepository) LatestForApplicant(ctx context.Context, academyID, userID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("academy_id = ? AND user_id = ?", academyID, userID).
		Order("updated_at DESC").
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &enrollment, nil
}

// LatestApprovedForUser returns the user's most recently updated approved
// enrollment with its academy loaded, or nil, nil.
func (r *enrollmentRepository) LatestApprovedForUser(ctx context.Context, userID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Academy").
		Where("user_id = ? AND status = ?", userID, models.EnrollmentStatusApproved).
		Order("updated_at DESC").
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &enrollment, nil
}

// Review applies a decision to a pending enrollment. The status change is a
// conditional update on status = pending; an approval adds the applicant to
// the academy's students set in the same transaction.
func (r *enrollmentRepository) Review(ctx context.Context, in ReviewInput) (*models.Enrollment, error) {
	defer observability.TrackQuery("review", "enrollments")()
	var updated models.Enrollment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Enrollment{}).
			Where("id = ? AND academy_id = ? AND status = ?", in.EnrollmentID, in.AcademyID, models.EnrollmentStatusPending).
			Updates(map[string]interface{}{
				"status":      in.Status,
				"reviewed_at": in.ReviewedAt,
				"reviewed_by": in.ReviewerID,
				"updated_at":  in.ReviewedAt,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewInvalidStateError("Enrollment is not pending")
		}

		if err := tx.Preload("User").Where("id = ?", in.EnrollmentID).First(&updated).Error; err != nil {
			return models.NewInternalError(err)
		}

		if in.Status == models.EnrollmentStatusApproved && updated.UserID != nil {
			if err := addStudent(tx, in.AcademyID, *updated.UserID); err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "review")
		return nil, err
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"id": in.EnrollmentID, "status": in.Status})
	return &updated, nil
}
