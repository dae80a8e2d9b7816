package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"bailemos/internal/geo"
	"bailemos/internal/models"
	"bailemos/internal/repository"
	"bailemos/internal/validation"

	"github.com/google/uuid"
)

type CreateEventInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CoverCharge float64   `json:"coverCharge"`
	Location    []float64 `json:"location"`
}

type CreatePromotionInput struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DiscountType models.DiscountType `json:"discountType"`
	Value        float64             `json:"value"`
	ValidUntil   time.Time           `json:"validUntil"`
}

// Venue is the short establishment card attached to events and promotions.
type Venue struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type EventView struct {
	models.Event
	Location      *models.Location `json:"location,omitempty"`
	Establishment *Venue           `json:"establishment,omitempty"`
	Distance      *float64         `json:"distance,omitempty"`
}

type PromotionView struct {
	models.Promotion
	Establishment *Venue `json:"establishment,omitempty"`
}

type NearbyAcademy struct {
	models.Profile
	Distance float64 `json:"distance"`
}

// PromotionQR is what a dancer shows at the door.
type PromotionQR struct {
	Promotion PromotionView `json:"promotion"`
	QRCode    string        `json:"qrCode"`
}

// NearbyQuery is a search radius in meters around a point.
type NearbyQuery struct {
	Point       geo.Point
	MaxDistance float64
}

type qrPayload struct {
	PromoID         string              `json:"promoId"`
	EstablishmentID string              `json:"establishmentId"`
	Type            models.DiscountType `json:"type"`
	Val             float64             `json:"val"`
}

type VenueService struct {
	users  repository.UserRepository
	venues repository.VenueRepository
	now    func() time.Time
}

func NewVenueService(users repository.UserRepository, venues repository.VenueRepository) *VenueService {
	return &VenueService{users: users, venues: venues, now: time.Now}
}

// CreateEvent publishes an event; without a location it takes the
// establishment's own.
func (s *VenueService) CreateEvent(ctx context.Context, caller Caller, in CreateEventInput) (*EventView, error) {
	if caller.Role != models.RoleEstablishment {
		return nil, models.NewForbiddenError("Only establishments can publish events")
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Required("name", in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Date.IsZero() {
		return nil, models.NewValidationError("date is required")
	}
	if in.CoverCharge < 0 {
		return nil, models.NewValidationError("coverCharge must be greater than or equal to 0")
	}

	event := &models.Event{
		EstablishmentID: caller.ID,
		Name:            in.Name,
		Description:     strings.TrimSpace(in.Description),
		Date:            in.Date.UTC(),
		CoverCharge:     in.CoverCharge,
	}
	if in.Location != nil {
		if err := validation.ValidateLocation(in.Location); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		lon, lat := in.Location[0], in.Location[1]
		event.Longitude, event.Latitude = &lon, &lat
	} else {
		owner, err := s.users.GetByID(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		event.Longitude, event.Latitude = owner.Longitude, owner.Latitude
	}

	if err := s.venues.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	v := eventView(event, nil)
	return &v, nil
}

// ListEvents lists an establishment's events, the caller's own by default.
func (s *VenueService) ListEvents(ctx context.Context, caller Caller, establishmentID string) ([]EventView, error) {
	establishmentID = s.scope(caller, establishmentID)
	events, err := s.venues.ListEvents(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	out := make([]EventView, 0, len(events))
	for i := range events {
		out = append(out, eventView(&events[i], nil))
	}
	return out, nil
}

func (s *VenueService) CreatePromotion(ctx context.Context, caller Caller, in CreatePromotionInput) (*models.Promotion, error) {
	if caller.Role != models.RoleEstablishment {
		return nil, models.NewForbiddenError("Only establishments can publish promotions")
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Required("title", in.Title, "discountType", string(in.DiscountType)); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !in.DiscountType.Valid() {
		return nil, models.NewValidationError("discountType must be one of percentage, fixed, free_pass")
	}
	if in.Value < 0 {
		return nil, models.NewValidationError("value must be greater than or equal to 0")
	}
	if in.ValidUntil.IsZero() {
		return nil, models.NewValidationError("validUntil is required")
	}

	promotion := &models.Promotion{
		ID:              uuid.NewString(),
		EstablishmentID: caller.ID,
		Title:           in.Title,
		Description:     strings.TrimSpace(in.Description),
		DiscountType:    in.DiscountType,
		Value:           in.Value,
		ValidUntil:      in.ValidUntil.UTC(),
	}
	qr, err := json.Marshal(qrPayload{
		PromoID:         promotion.ID,
		EstablishmentID: caller.ID,
		Type:            in.DiscountType,
		Val:             in.Value,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	promotion.QRCodeData = string(qr)

	if err := s.venues.CreatePromotion(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

func (s *VenueService) ListPromotions(ctx context.Context, caller Caller, establishmentID string) ([]models.Promotion, error) {
	return s.venues.ListPromotions(ctx, s.scope(caller, establishmentID))
}

func (s *VenueService) NearbyAcademies(ctx context.Context, q NearbyQuery) ([]NearbyAcademy, error) {
	q, err := normalizeNearby(q)
	if err != nil {
		return nil, err
	}
	candidates, err := s.users.ListByRoleWithin(ctx, models.RoleAcademy, geo.BoundingBox(q.Point, q.MaxDistance))
	if err != nil {
		return nil, err
	}

	out := make([]NearbyAcademy, 0, len(candidates))
	for i := range candidates {
		a := &candidates[i]
		if !a.HasLocation() {
			continue
		}
		d := geo.Distance(q.Point, geo.Point{Lon: *a.Longitude, Lat: *a.Latitude})
		if d > q.MaxDistance {
			continue
		}
		out = append(out, NearbyAcademy{Profile: a.Account().Profile(), Distance: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

func (s *VenueService) NearbyEvents(ctx context.Context, q NearbyQuery) ([]EventView, error) {
	q, err := normalizeNearby(q)
	if err != nil {
		return nil, err
	}
	candidates, err := s.venues.ListEventsWithin(ctx, geo.BoundingBox(q.Point, q.MaxDistance))
	if err != nil {
		return nil, err
	}

	out := make([]EventView, 0, len(candidates))
	for i := range candidates {
		e := &candidates[i]
		if e.Longitude == nil || e.Latitude == nil {
			continue
		}
		d := geo.Distance(q.Point, geo.Point{Lon: *e.Longitude, Lat: *e.Latitude})
		if d > q.MaxDistance {
			continue
		}
		out = append(out, eventView(e, &d))
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })
	return out, nil
}

func (s *VenueService) AvailablePromotions(ctx context.Context) ([]PromotionView, error) {
	promotions, err := s.venues.ListValidPromotions(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	out := make([]PromotionView, 0, len(promotions))
	for i := range promotions {
		out = append(out, promotionView(&promotions[i]))
	}
	return out, nil
}

func (s *VenueService) PromotionQR(ctx context.Context, id string) (*PromotionQR, error) {
	p, err := s.venues.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Expired(s.now().UTC()) {
		return nil, models.NewValidationError("Promotion has expired")
	}
	return &PromotionQR{Promotion: promotionView(p), QRCode: p.QRCodeData}, nil
}

func (s *VenueService) scope(caller Caller, establishmentID string) string {
	establishmentID = strings.TrimSpace(establishmentID)
	if establishmentID == "" && caller.Role == models.RoleEstablishment {
		return caller.ID
	}
	return establishmentID
}

func normalizeNearby(q NearbyQuery) (NearbyQuery, error) {
	if err := q.Point.Validate(); err != nil {
		return q, models.NewValidationError(err.Error())
	}
	if q.MaxDistance == 0 {
		q.MaxDistance = geo.DefaultMaxDistance
	}
	if q.MaxDistance < 0 {
		return q, models.NewValidationError("maxDistance must be positive")
	}
	return q, nil
}

func venueOf(u *models.User) *Venue {
	if u == nil {
		return nil
	}
	return &Venue{ID: u.ID, Name: u.Name, Address: u.Address}
}

func eventView(e *models.Event, distance *float64) EventView {
	return EventView{Event: *e, Location: e.Location(), Establishment: venueOf(e.Establishment), Distance: distance}
}

func promotionView(p *models.Promotion) PromotionView {
	return PromotionView{Promotion: *p, Establishment: venueOf(p.Establishment)}
}
