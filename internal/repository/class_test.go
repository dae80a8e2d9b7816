package repository

import (
	"context"
	"testing"

	"bailemos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRepository_BookingLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	academy := createUser(t, db, models.RoleAcademy, "club@example.com")
	dancer := createUser(t, db, models.RoleDancer, "ana@example.com")

	class := &models.DanceClass{
		AcademyID: academy.ID,
		Name:      "Salsa On1",
		Level:     models.ClassLevelBeginner,
		Schedule:  "Mon 19:00",
		Price:     12,
	}
	require.NoError(t, repo.Create(ctx, class))

	got, err := repo.GetByID(ctx, class.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Academy)
	assert.Equal(t, academy.ID, got.Academy.ID)

	listed, err := repo.List(ctx, academy.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	none, err := repo.FindActiveBooking(ctx, class.ID, dancer.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	booking := &models.Booking{ClassID: class.ID, DancerID: dancer.ID, AcademyID: academy.ID, DanceRole: models.DanceRoleLeader}
	require.NoError(t, repo.Book(ctx, booking))

	active, err := repo.FindActiveBooking(ctx, class.ID, dancer.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, models.BookingStatusActive, active.Status)
	assert.Equal(t, models.PaymentStatusPaid, active.PaymentStatus)

	var members int64
	require.NoError(t, db.Model(&models.AcademyStudent{}).Where("academy_id = ?", academy.ID).Count(&members).Error)
	assert.EqualValues(t, 1, members)

	mine, err := repo.ListBookingsByDancer(ctx, dancer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Class)
	assert.Equal(t, "Salsa On1", mine[0].Class.Name)

	cancelled, err := repo.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	_, err = repo.CancelBooking(ctx, booking.ID)
	requireCode(t, err, models.CodeInvalidState)

	byClass, err := repo.ListBookingsByClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Len(t, byClass, 1)

	_, err = repo.GetBooking(ctx, "missing")
	requireCode(t, err, models.CodeNotFound)
}
