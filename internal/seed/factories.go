package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bailemos/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities with fake data and persists them.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db       *gorm.DB
	password string
	seq      int
}

// NewFactory creates a Factory whose accounts share one password hash.
func NewFactory(db *gorm.DB, passwordHash string) *Factory {
	return &Factory{db: db, password: passwordHash}
}

// CreateDancer persists a dancer account. Overrides run before the insert.
func (f *Factory) CreateDancer(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	user := &models.User{
		Role:     models.RoleDancer,
		Name:     first + " " + last,
		Email:    strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, f.seq)),
		Password: f.password,
		Phone:    gofakeit.Phone(),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create dancer %s: %w", user.Email, err)
	}
	return user, nil
}

// CreateEnrollment files an application from dancer to academy in the given
// state. Approved applications also add the dancer to the academy roster.
func (f *Factory) CreateEnrollment(ctx context.Context, academy, dancer *models.User, status models.EnrollmentStatus) (*models.Enrollment, error) {
	uid := dancer.ID
	created := time.Now().UTC().Add(-time.Duration(gofakeit.Number(1, 30*24)) * time.Hour)
	e := &models.Enrollment{
		AcademyID: academy.ID,
		UserID:    &uid,
		FullName:  dancer.Name,
		Phone:     dancer.Phone,
		Email:     dancer.Email,
		IDNumber:  fmt.Sprintf("%08d%s", gofakeit.Number(0, 99999999), strings.ToUpper(gofakeit.Letter())),
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if gofakeit.Bool() {
		e.VoucherURL = fmt.Sprintf("https://picsum.photos/seed/%s/600/800", gofakeit.UUID())
	}
	if status != models.EnrollmentStatusPending {
		reviewed := created.Add(time.Duration(gofakeit.Number(1, 48)) * time.Hour)
		reviewer := academy.ID
		e.ReviewedAt = &reviewed
		e.ReviewedBy = &reviewer
		e.UpdatedAt = reviewed
	}

	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		if status != models.EnrollmentStatusApproved {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.AcademyStudent{AcademyID: academy.ID, UserID: dancer.ID}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create enrollment for %s: %w", dancer.Email, err)
	}
	return e, nil
}

// CreateBooking books dancer into class with a random partner role.
func (f *Factory) CreateBooking(ctx context.Context, class *models.DanceClass, dancer *models.User) (*models.Booking, error) {
	role := models.DanceRoleFollower
	if gofakeit.Bool() {
		role = models.DanceRoleLeader
	}
	b := &models.Booking{
		ClassID:       class.ID,
		DancerID:      dancer.ID,
		AcademyID:     class.AcademyID,
		PaymentStatus: models.PaymentStatusPaid,
		Status:        models.BookingStatusActive,
		DanceRole:     role,
	}
	if err := f.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}
