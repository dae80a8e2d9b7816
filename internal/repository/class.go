package repository

import (
	"context"
	"errors"

	"bailemos/internal/models"

	"gorm.io/gorm"
)

// ClassRepository defines persistence operations for dance classes and their bookings.
type ClassRepository interface {
	Create(ctx context.Context, class *models.DanceClass) error
	GetByID(ctx context.Context, id string) (*models.DanceClass, error)
	List(ctx context.Context, academyID string) ([]models.DanceClass, error)
	FindActiveBooking(ctx context.Context, classID, dancerID string) (*models.Booking, error)
	// Book stores the booking and adds the dancer to the academy's students set.
	Book(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsByDancer(ctx context.Context, dancerID string) ([]models.Booking, error)
	ListBookingsByClass(ctx context.Context, classID string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, id string) (*models.Booking, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository returns a new ClassRepository implementation.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.DanceClass) error {
	if err := r.db.WithContext(ctx).Create(class).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *classRepository) GetByID(ctx context.Context, id string) (*models.DanceClass, error) {
	var class models.DanceClass
	if err := r.db.WithContext(ctx).Preload("Academy").Where("id = ?", id).First(&class).Error; err != nil {
		return nil, findErr(err, "Class", id)
	}
	return &class, nil
}

// List returns every class, or only the academy's when academyID is set.
func (r *classRepository) List(ctx context.Context, academyID string) ([]models.DanceClass, error) {
	q := r.db.WithContext(ctx).Preload("Academy")
	if academyID != "" {
		q = q.Where("academy_id = ?", academyID)
	}
	var classes []models.DanceClass
	if err := q.Order("created_at DESC").Find(&classes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return classes, nil
}

func (r *classRepository) FindActiveBooking(ctx context.Context, classID, dancerID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND dancer_id = ? AND status = ?", classID, dancerID, models.BookingStatusActive).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &booking, nil
}

func (r *classRepository) Book(ctx context.Context, booking *models.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		return addStudent(tx, booking.AcademyID, booking.DancerID)
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *classRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Class.Academy").Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, findErr(err, "Booking", id)
	}
	return &booking, nil
}

func (r *classRepository) ListBookingsByDancer(ctx context.Context, dancerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Class.Academy").
		Where("dancer_id = ?", dancerID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return bookings, nil
}

func (r *classRepository) ListBookingsByClass(ctx context.Context, classID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return bookings, nil
}

func (r *classRepository) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, models.BookingStatusActive).
		Update("status", models.BookingStatusCancelled)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewInvalidStateError("Booking is already cancelled")
	}
	return r.GetBooking(ctx, id)
}
