package repository

import (
	"context"
	"testing"
	"time"

	"bailemos/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApplication(academyID string, userID *string) *models.Enrollment {
	return &models.Enrollment{
		AcademyID: academyID,
		UserID:    userID,
		FullName:  "Ana Ruiz",
		Phone:     "+34600000000",
		Email:     "ana@example.com",
		IDNumber:  "X1234567",
		Status:    models.EnrollmentStatusPending,
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

type enrollmentFixture struct {
	db      *gorm.DB
	repo    EnrollmentRepository
	academy *models.User
	dancer  *models.User
}

func newEnrollmentFixture(t *testing.T) enrollmentFixture {
	db := newTestDB(t)
	return enrollmentFixture{
		db:      db,
		repo:    NewEnrollmentRepository(db),
		academy: createUser(t, db, models.RoleAcademy, "club@example.com"),
		dancer:  createUser(t, db, models.RoleDancer, "ana@example.com"),
	}
}

func TestEnrollmentRepository_CreateRejectsSecondActive(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	first := newApplication(f.academy.ID, &f.dancer.ID)
	require.NoError(t, f.repo.Create(ctx, first))
	assert.NotEmpty(t, first.ID)

	err := f.repo.Create(ctx, newApplication(f.academy.ID, &f.dancer.ID))
	requireCode(t, err, models.CodeConflict)

	active, err := f.repo.FindActive(ctx, f.academy.ID, f.dancer.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)
}

func TestEnrollmentRepository_AnonymousApplicationsAreNotDeduplicated(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Create(ctx, newApplication(f.academy.ID, nil)))
	require.NoError(t, f.repo.Create(ctx, newApplication(f.academy.ID, nil)))

	all, err := f.repo.ListByAcademy(ctx, f.academy.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEnrollmentRepository_ReviewApproveAddsStudent(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	e := newApplication(f.academy.ID, &f.dancer.ID)
	require.NoError(t, f.repo.Create(ctx, e))

	at := time.Now().UTC().Truncate(time.Second)
	updated, err := f.repo.Review(ctx, ReviewInput{
		EnrollmentID: e.ID,
		AcademyID:    f.academy.ID,
		Status:       models.EnrollmentStatusApproved,
		ReviewerID:   f.academy.ID,
		ReviewedAt:   at,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusApproved, updated.Status)
	require.NotNil(t, updated.ReviewedAt)
	assert.True(t, updated.ReviewedAt.Equal(at))
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, f.academy.ID, *updated.ReviewedBy)
	require.NotNil(t, updated.User)
	assert.Equal(t, f.dancer.ID, updated.User.ID)

	var members int64
	require.NoError(t, f.db.Model(&models.AcademyStudent{}).
		Where("academy_id = ? AND user_id = ?", f.academy.ID, f.dancer.ID).
		Count(&members).Error)
	assert.EqualValues(t, 1, members)

	_, err = f.repo.Review(ctx, ReviewInput{
		EnrollmentID: e.ID,
		AcademyID:    f.academy.ID,
		Status:       models.EnrollmentStatusRejected,
		ReviewerID:   f.academy.ID,
		ReviewedAt:   at,
	})
	requireCode(t, err, models.CodeInvalidState)

	approved, err := f.repo.LatestApprovedForUser(ctx, f.dancer.ID)
	require.NoError(t, err)
	require.NotNil(t, approved)
	require.NotNil(t, approved.Academy)
	assert.Equal(t, f.academy.ID, approved.Academy.ID)
}

func TestEnrollmentRepository_ReviewApproveExistingStudentIsNotDuplicated(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	require.NoError(t, addStudent(f.db, f.academy.ID, f.dancer.ID))

	e := newApplication(f.academy.ID, &f.dancer.ID)
	require.NoError(t, f.repo.Create(ctx, e))

	updated, err := f.repo.Review(ctx, ReviewInput{
		EnrollmentID: e.ID,
		AcademyID:    f.academy.ID,
		Status:       models.EnrollmentStatusApproved,
		ReviewerID:   f.academy.ID,
		ReviewedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusApproved, updated.Status)

	var members int64
	require.NoError(t, f.db.Model(&models.AcademyStudent{}).
		Where("academy_id = ? AND user_id = ?", f.academy.ID, f.dancer.ID).
		Count(&members).Error)
	assert.EqualValues(t, 1, members)
}

func TestEnrollmentRepository_RejectFreesTheSlot(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	e := newApplication(f.academy.ID, &f.dancer.ID)
	require.NoError(t, f.repo.Create(ctx, e))
	_, err := f.repo.Review(ctx, ReviewInput{
		EnrollmentID: e.ID,
		AcademyID:    f.academy.ID,
		Status:       models.EnrollmentStatusRejected,
		ReviewerID:   f.academy.ID,
		ReviewedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	var members int64
	require.NoError(t, f.db.Model(&models.AcademyStudent{}).Count(&members).Error)
	assert.Zero(t, members)

	active, err := f.repo.FindActive(ctx, f.academy.ID, f.dancer.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	again := newApplication(f.academy.ID, &f.dancer.ID)
	require.NoError(t, f.repo.Create(ctx, again))

	latest, err := f.repo.LatestForApplicant(ctx, f.academy.ID, f.dancer.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, models.EnrollmentStatusPending, latest.Status)

	pending := models.EnrollmentStatusPending
	onlyPending, err := f.repo.ListByAcademy(ctx, f.academy.ID, &pending)
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, again.ID, onlyPending[0].ID)
}

func TestEnrollmentRepository_GetForAcademyIsScoped(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()
	other := createUser(t, f.db, models.RoleAcademy, "other@example.com")

	e := newApplication(f.academy.ID, &f.dancer.ID)
	require.NoError(t, f.repo.Create(ctx, e))

	got, err := f.repo.GetForAcademy(ctx, f.academy.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	_, err = f.repo.GetForAcademy(ctx, other.ID, e.ID)
	requireCode(t, err, models.CodeNotFound)

	_, err = f.repo.Review(ctx, ReviewInput{
		EnrollmentID: e.ID,
		AcademyID:    other.ID,
		Status:       models.EnrollmentStatusApproved,
		ReviewerID:   other.ID,
		ReviewedAt:   time.Now().UTC(),
	})
	requireCode(t, err, models.CodeInvalidState)
}

func TestEnrollmentRepository_SetVoucherPath(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	e := newApplication(f.academy.ID, nil)
	require.NoError(t, f.repo.Create(ctx, e))
	require.NoError(t, f.repo.SetVoucherPath(ctx, e.ID, "uploads/enrollments/"+e.ID+".png"))

	got, err := f.repo.GetForAcademy(ctx, f.academy.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/enrollments/"+e.ID+".png", got.VoucherPath)

	requireCode(t, f.repo.SetVoucherPath(ctx, "missing", "x"), models.CodeNotFound)

	require.NoError(t, f.repo.Delete(ctx, e.ID))
	_, err = f.repo.GetForAcademy(ctx, f.academy.ID, e.ID)
	requireCode(t, err, models.CodeNotFound)
}

func TestEnrollmentRepository_ReviewRollsBackWhenNotPending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "enrollments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Review(context.Background(), ReviewInput{
		EnrollmentID: "e-1",
		AcademyID:    "a-1",
		Status:       models.EnrollmentStatusApproved,
		ReviewerID:   "a-1",
		ReviewedAt:   time.Now().UTC(),
	})
	requireCode(t, err, models.CodeInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
