package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bailemos/internal/geo"
	"bailemos/internal/models"
	"bailemos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var puertaDelSol = geo.Point{Lon: -3.7038, Lat: 40.4168}

func newVenueService(t *testing.T) (*VenueService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewVenueService(repository.NewUserRepository(db), repository.NewVenueRepository(db))
	svc.now = fixedNow
	return svc, db
}

func placeUser(t *testing.T, db *gorm.DB, role models.Role, lon, lat float64) *models.User {
	t.Helper()
	u := seedUser(t, db, role)
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{"longitude": lon, "latitude": lat}).Error)
	u.Longitude, u.Latitude = &lon, &lat
	return u
}

func TestVenueService_Events(t *testing.T) {
	t.Parallel()
	svc, db := newVenueService(t)
	venue := placeUser(t, db, models.RoleEstablishment, -3.70, 40.42)
	me := Caller{ID: venue.ID, Role: models.RoleEstablishment}
	ctx := context.Background()
	date := fixedNow().Add(72 * time.Hour)

	_, err := svc.CreateEvent(ctx, Caller{ID: dancerID, Role: models.RoleDancer}, CreateEventInput{Name: "Bachata night", Date: date})
	assertForbiddenError(t, err)

	_, err = svc.CreateEvent(ctx, me, CreateEventInput{Name: "Bachata night"})
	assertValidationError(t, err)
	_, err = svc.CreateEvent(ctx, me, CreateEventInput{Name: "Bachata night", Date: date, Location: []float64{200, 0}})
	assertValidationError(t, err)

	inherited, err := svc.CreateEvent(ctx, me, CreateEventInput{Name: "Bachata night", Date: date, CoverCharge: 8})
	require.NoError(t, err)
	require.NotNil(t, inherited.Location)
	assert.Equal(t, [2]float64{-3.70, 40.42}, inherited.Location.Coordinates)

	explicit, err := svc.CreateEvent(ctx, me, CreateEventInput{Name: "Kizomba social", Date: date.Add(time.Hour), Location: []float64{-3.60, 40.40}})
	require.NoError(t, err)
	assert.Equal(t, [2]float64{-3.60, 40.40}, explicit.Location.Coordinates)

	own, err := svc.ListEvents(ctx, me, "")
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "Bachata night", own[0].Name)
	require.NotNil(t, own[0].Establishment)
	assert.Equal(t, venue.Name, own[0].Establishment.Name)

	other := placeUser(t, db, models.RoleEstablishment, 2.17, 41.38)
	_, err = svc.CreateEvent(ctx, Caller{ID: other.ID, Role: models.RoleEstablishment}, CreateEventInput{Name: "Barcelona salsa", Date: date})
	require.NoError(t, err)

	all, err := svc.ListEvents(ctx, Caller{ID: dancerID, Role: models.RoleDancer}, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	filtered, err := svc.ListEvents(ctx, Caller{ID: dancerID, Role: models.RoleDancer}, other.ID)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestVenueService_Promotions(t *testing.T) {
	t.Parallel()
	svc, db := newVenueService(t)
	venue := seedUser(t, db, models.RoleEstablishment)
	me := Caller{ID: venue.ID, Role: models.RoleEstablishment}
	ctx := context.Background()

	_, err := svc.CreatePromotion(ctx, me, CreatePromotionInput{Title: "2x1", DiscountType: "bogo", ValidUntil: fixedNow()})
	assertValidationError(t, err)
	_, err = svc.CreatePromotion(ctx, me, CreatePromotionInput{Title: "2x1", DiscountType: models.DiscountTypeFixed})
	assertValidationError(t, err)
	_, err = svc.CreatePromotion(ctx, Caller{ID: dancerID, Role: models.RoleDancer}, CreatePromotionInput{Title: "2x1"})
	assertForbiddenError(t, err)

	live, err := svc.CreatePromotion(ctx, me, CreatePromotionInput{
		Title:        "Ladies night",
		DiscountType: models.DiscountTypePercentage,
		Value:        50,
		ValidUntil:   fixedNow().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	var qr map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(live.QRCodeData), &qr))
	assert.Equal(t, map[string]interface{}{
		"promoId":         live.ID,
		"establishmentId": venue.ID,
		"type":            "percentage",
		"val":             50.0,
	}, qr)

	expired, err := svc.CreatePromotion(ctx, me, CreatePromotionInput{
		Title:        "Last week",
		DiscountType: models.DiscountTypeFreePass,
		ValidUntil:   fixedNow().Add(-time.Hour),
	})
	require.NoError(t, err)

	own, err := svc.ListPromotions(ctx, me, "")
	require.NoError(t, err)
	assert.Len(t, own, 2)

	available, err := svc.AvailablePromotions(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, live.ID, available[0].ID)
	require.NotNil(t, available[0].Establishment)
	assert.Equal(t, venue.Name, available[0].Establishment.Name)

	code, err := svc.PromotionQR(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.QRCodeData, code.QRCode)
	assert.Equal(t, "Ladies night", code.Promotion.Title)

	_, err = svc.PromotionQR(ctx, expired.ID)
	assertValidationError(t, err)
	assert.Contains(t, err.Error(), "Promotion has expired")

	_, err = svc.PromotionQR(ctx, "8b8f0e52-0000-4000-8000-000000000000")
	assertCode(t, err, models.CodeNotFound)
}

func TestVenueService_Nearby(t *testing.T) {
	t.Parallel()
	svc, db := newVenueService(t)
	ctx := context.Background()

	far := placeUser(t, db, models.RoleAcademy, -3.60, 40.42)    // ~9km east
	near := placeUser(t, db, models.RoleAcademy, -3.705, 40.417) // ~100m
	placeUser(t, db, models.RoleAcademy, 2.17, 41.38)            // Barcelona
	seedUser(t, db, models.RoleAcademy)                          // no location
	placeUser(t, db, models.RoleDancer, -3.7038, 40.4168)

	got, err := svc.NearbyAcademies(ctx, NearbyQuery{Point: puertaDelSol})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, near.ID, got[0].ID)
	assert.Equal(t, far.ID, got[1].ID)
	assert.Less(t, got[0].Distance, got[1].Distance)
	assert.LessOrEqual(t, got[1].Distance, geo.DefaultMaxDistance)

	tight, err := svc.NearbyAcademies(ctx, NearbyQuery{Point: puertaDelSol, MaxDistance: 1000})
	require.NoError(t, err)
	require.Len(t, tight, 1)
	assert.Equal(t, near.ID, tight[0].ID)

	_, err = svc.NearbyAcademies(ctx, NearbyQuery{Point: geo.Point{Lon: 181, Lat: 0}})
	assertValidationError(t, err)
	_, err = svc.NearbyAcademies(ctx, NearbyQuery{Point: puertaDelSol, MaxDistance: -5})
	assertValidationError(t, err)

	venue := placeUser(t, db, models.RoleEstablishment, -3.70, 40.42)
	me := Caller{ID: venue.ID, Role: models.RoleEstablishment}
	_, err = svc.CreateEvent(ctx, me, CreateEventInput{Name: "Downtown", Date: fixedNow()})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, me, CreateEventInput{Name: "Coast", Date: fixedNow(), Location: []float64{-0.37, 39.47}})
	require.NoError(t, err)

	events, err := svc.NearbyEvents(ctx, NearbyQuery{Point: puertaDelSol})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Downtown", events[0].Name)
	require.NotNil(t, events[0].Distance)
	require.NotNil(t, events[0].Establishment)
	assert.Equal(t, venue.ID, events[0].Establishment.ID)
}
