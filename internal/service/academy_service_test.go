package service

import (
	"context"
	"testing"

	"bailemos/internal/cache"
	"bailemos/internal/models"
	"bailemos/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAcademyService(t *testing.T) (*AcademyService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAcademyService(repository.NewUserRepository(db), repository.NewClassRepository(db)), db
}

func salsaClass() CreateClassInput {
	return CreateClassInput{Name: "Salsa On1", Level: models.ClassLevelBeginner, Schedule: "Mon 19:00", Price: 40}
}

func TestAcademyService_CreateClass(t *testing.T) {
	t.Parallel()
	svc, db := newAcademyService(t)
	academy := seedUser(t, db, models.RoleAcademy)
	owner := Caller{ID: academy.ID, Role: models.RoleAcademy}
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		cases := map[string]func(*CreateClassInput){
			"missing name":   func(in *CreateClassInput) { in.Name = " " },
			"unknown level":  func(in *CreateClassInput) { in.Level = "Expert" },
			"negative price": func(in *CreateClassInput) { in.Price = -1 },
			"no schedule":    func(in *CreateClassInput) { in.Schedule = "" },
		}
		for name, mutate := range cases {
			mutate := mutate
			t.Run(name, func(t *testing.T) {
				in := salsaClass()
				mutate(&in)
				_, err := svc.CreateClass(ctx, owner, in)
				assertValidationError(t, err)
			})
		}
	})

	t.Run("dancers cannot create", func(t *testing.T) {
		_, err := svc.CreateClass(ctx, Caller{ID: dancerID, Role: models.RoleDancer}, salsaClass())
		assertForbiddenError(t, err)
	})

	t.Run("created and listed", func(t *testing.T) {
		class, err := svc.CreateClass(ctx, owner, salsaClass())
		require.NoError(t, err)
		assert.Equal(t, academy.ID, class.AcademyID)

		own, err := svc.ListClasses(ctx, owner, "")
		require.NoError(t, err)
		require.Len(t, own, 1)

		byQuery, err := svc.ListClasses(ctx, Caller{ID: dancerID, Role: models.RoleDancer}, academy.ID)
		require.NoError(t, err)
		assert.Len(t, byQuery, 1)

		other := seedUser(t, db, models.RoleAcademy)
		_, err = svc.CreateClass(ctx, Caller{ID: other.ID, Role: models.RoleAcademy}, salsaClass())
		require.NoError(t, err)
		all, err := svc.ListClasses(ctx, Caller{ID: dancerID, Role: models.RoleDancer}, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestAcademyService_Bookings(t *testing.T) {
	t.Parallel()
	svc, db := newAcademyService(t)
	academy := seedUser(t, db, models.RoleAcademy)
	dancer := seedUser(t, db, models.RoleDancer)
	owner := Caller{ID: academy.ID, Role: models.RoleAcademy}
	me := Caller{ID: dancer.ID, Role: models.RoleDancer}
	ctx := context.Background()

	class, err := svc.CreateClass(ctx, owner, salsaClass())
	require.NoError(t, err)

	_, err = svc.BookClass(ctx, owner, BookClassInput{ClassID: class.ID})
	assertForbiddenError(t, err)

	_, err = svc.BookClass(ctx, me, BookClassInput{ClassID: "3f1e4c8e-0000-4000-8000-000000000000"})
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.BookClass(ctx, me, BookClassInput{ClassID: class.ID, DanceRole: "lead"})
	assertValidationError(t, err)

	booking, err := svc.BookClass(ctx, me, BookClassInput{ClassID: class.ID, DanceRole: models.DanceRoleLeader})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, booking.PaymentStatus)
	assert.Equal(t, models.BookingStatusActive, booking.Status)
	assert.Equal(t, academy.ID, booking.AcademyID)

	_, err = svc.BookClass(ctx, me, BookClassInput{ClassID: class.ID})
	assertValidationError(t, err)
	assert.Contains(t, err.Error(), "Already booked this class")

	students, err := repository.NewUserRepository(db).ListStudents(ctx, academy.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, dancer.ID, students[0].ID)

	mine, err := svc.MyBookings(ctx, me)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	roster, err := svc.ClassBookings(ctx, owner, class.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
	_, err = svc.ClassBookings(ctx, me, class.ID)
	assertForbiddenError(t, err)

	intruder := seedUser(t, db, models.RoleDancer)
	_, err = svc.CancelBooking(ctx, Caller{ID: intruder.ID, Role: models.RoleDancer}, booking.ID)
	assertForbiddenError(t, err)

	cancelled, err := svc.CancelBooking(ctx, me, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	_, err = svc.CancelBooking(ctx, me, booking.ID)
	assertCode(t, err, models.CodeInvalidState)

	again, err := svc.BookClass(ctx, me, BookClassInput{ClassID: class.ID})
	require.NoError(t, err)
	assert.NotEqual(t, booking.ID, again.ID)
}

func TestAcademyService_ScheduleAndPrices(t *testing.T) {
	t.Parallel()
	svc, db := newAcademyService(t)
	academy := seedUser(t, db, models.RoleAcademy)
	dancer := seedUser(t, db, models.RoleDancer)
	owner := Caller{ID: academy.ID, Role: models.RoleAcademy}
	admin := Caller{ID: "root", Role: models.RoleAdmin}
	ctx := context.Background()

	schedule, err := svc.GetSchedule(ctx, owner, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSchedule(), schedule)

	_, err = svc.GetSchedule(ctx, Caller{ID: dancer.ID, Role: models.RoleDancer}, academy.ID)
	assertForbiddenError(t, err)

	_, err = svc.PutSchedule(ctx, owner, academy.ID, models.WeeklySchedule{"fun": {Open: true}})
	assertValidationError(t, err)
	_, err = svc.PutSchedule(ctx, owner, academy.ID, models.WeeklySchedule{"mon": {Open: true, OpenTime: "25:00"}})
	assertValidationError(t, err)

	updated, err := svc.PutSchedule(ctx, admin, academy.ID, models.WeeklySchedule{"fri": {Open: true, CloseTime: "23:30"}})
	require.NoError(t, err)
	assert.Equal(t, models.DaySchedule{Open: true, OpenTime: "09:00", CloseTime: "23:30"}, updated["fri"])
	assert.False(t, updated["mon"].Open)

	schedule, err = svc.GetSchedule(ctx, owner, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, schedule)

	_, err = svc.PutSchedule(ctx, admin, dancer.ID, models.WeeklySchedule{})
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.PutPrices(ctx, owner, academy.ID, []models.PriceOption{{Type: "group", MonthlyPrice: 10, ClassesPerWeek: 1}})
	assertValidationError(t, err)
	_, err = svc.PutPrices(ctx, owner, academy.ID, []models.PriceOption{{Type: models.PriceTypeCouples, MonthlyPrice: 10, ClassesPerWeek: 8}})
	assertValidationError(t, err)

	prices, err := svc.PutPrices(ctx, owner, academy.ID, []models.PriceOption{
		{Type: models.PriceTypeIndividual, MonthlyPrice: 45, ClassesPerWeek: 2},
		{Type: models.PriceTypePrivate, MonthlyPrice: 0, ClassesPerWeek: 1},
	})
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.NotEmpty(t, prices[0].ID)

	got, err := svc.GetPrices(ctx, owner, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, prices, got)

	detail, err := svc.GetAcademy(ctx, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, academy.Name, detail.Name)
	assert.Equal(t, prices, detail.Prices)
	assert.True(t, detail.Schedule["fri"].Open)

	_, err = svc.GetAcademy(ctx, dancer.ID)
	assertCode(t, err, models.CodeNotFound)
}

// Not parallel: swaps the package-wide redis client.
func TestAcademyService_CacheInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	svc, db := newAcademyService(t)
	academy := seedUser(t, db, models.RoleAcademy)
	owner := Caller{ID: academy.ID, Role: models.RoleAcademy}
	ctx := context.Background()

	list, err := svc.ListAcademies(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(cache.AcademyListKey))

	_, err = svc.GetAcademy(ctx, academy.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.AcademyKey(academy.ID)))

	// A stale cached list is served until a write invalidates it.
	seedUser(t, db, models.RoleAcademy)
	list, err = svc.ListAcademies(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.PutPrices(ctx, owner, academy.ID, []models.PriceOption{
		{Type: models.PriceTypeIndividual, MonthlyPrice: 30, ClassesPerWeek: 1},
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.AcademyListKey))
	assert.False(t, mr.Exists(cache.AcademyKey(academy.ID)))

	list, err = svc.ListAcademies(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	detail, err := svc.GetAcademy(ctx, academy.ID)
	require.NoError(t, err)
	require.Len(t, detail.Prices, 1)
	assert.InDelta(t, 30.0, detail.Prices[0].MonthlyPrice, 1e-9)

	_, err = svc.CreateClass(ctx, owner, salsaClass())
	require.NoError(t, err)
	classes, err := svc.ListClasses(ctx, owner, "")
	require.NoError(t, err)
	assert.Len(t, classes, 1)
	assert.True(t, mr.Exists(cache.AcademyClassesKey(academy.ID)))
}
