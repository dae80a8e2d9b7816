package repository

import (
	"context"
	"time"

	"bailemos/internal/geo"
	"bailemos/internal/models"

	"gorm.io/gorm"
)

// VenueRepository defines persistence operations for establishment events and promotions.
type VenueRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	ListEvents(ctx context.Context, establishmentID string) ([]models.Event, error)
	ListEventsWithin(ctx context.Context, box geo.Box) ([]models.Event, error)
	CreatePromotion(ctx context.Context, promotion *models.Promotion) error
	ListPromotions(ctx context.Context, establishmentID string) ([]models.Promotion, error)
	ListValidPromotions(ctx context.Context, now time.Time) ([]models.Promotion, error)
	GetPromotion(ctx context.Context, id string) (*models.Promotion, error)
}

type venueRepository struct {
	db *gorm.DB
}

// NewVenueRepository returns a new VenueRepository implementation.
func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListEvents lists one establishment's events, or every event when
// establishmentID is empty.
func (r *venueRepository) ListEvents(ctx context.Context, establishmentID string) ([]models.Event, error) {
	var events []models.Event
	q := r.db.WithContext(ctx).Preload("Establishment")
	if establishmentID != "" {
		q = q.Where("establishment_id = ?", establishmentID)
	}
	err := q.Order("date ASC").Find(&events).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *venueRepository) ListEventsWithin(ctx context.Context, box geo.Box) ([]models.Event, error) {
	var events []models.Event
	if err := withinBox(r.db.WithContext(ctx).Preload("Establishment"), box).Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *venueRepository) CreatePromotion(ctx context.Context, promotion *models.Promotion) error {
	if err := r.db.WithContext(ctx).Create(promotion).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *venueRepository) ListPromotions(ctx context.Context, establishmentID string) ([]models.Promotion, error) {
	var promotions []models.Promotion
	q := r.db.WithContext(ctx)
	if establishmentID != "" {
		q = q.Where("establishment_id = ?", establishmentID)
	}
	err := q.Order("created_at DESC").Find(&promotions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return promotions, nil
}

func (r *venueRepository) ListValidPromotions(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.db.WithContext(ctx).
		Preload("Establishment").
		Where("valid_until >= ?", now).
		Order("valid_until ASC").
		Find(&promotions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return promotions, nil
}

func (r *venueRepository) GetPromotion(ctx context.Context, id string) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.WithContext(ctx).Preload("Establishment").Where("id = ?", id).First(&promotion).Error; err != nil {
		return nil, findErr(err, "Promotion", id)
	}
	return &promotion, nil
}
