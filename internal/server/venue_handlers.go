package server

import (
	"strconv"
	"strings"

	"bailemos/internal/geo"
	"bailemos/internal/models"
	"bailemos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateEvent handles POST /api/establishment/events
// @Summary Publish an event
// @Description location defaults to the establishment's own
// @Tags establishment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateEventInput true "Event"
// @Success 201 {object} service.EventView
// @Failure 400 {object} models.ErrorResponse
// @Router /establishment/events [post]
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req service.CreateEventInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	event, err := s.venueService.CreateEvent(c.UserContext(), caller(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// ListEvents handles GET /api/establishment/events
// @Summary Establishment events
// @Tags establishment
// @Produce json
// @Security BearerAuth
// @Param establishmentId query string false "Establishment ID, defaults to the caller"
// @Success 200 {array} service.EventView
// @Router /establishment/events [get]
func (s *Server) ListEvents(c *fiber.Ctx) error {
	events, err := s.venueService.ListEvents(c.UserContext(), caller(c), strings.TrimSpace(c.Query("establishmentId")))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(events)
}

// CreatePromotion handles POST /api/establishment/promotions
// @Summary Publish a promotion
// @Tags establishment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePromotionInput true "Promotion"
// @Success 201 {object} models.Promotion
// @Failure 400 {object} models.ErrorResponse
// @Router /establishment/promotions [post]
func (s *Server) CreatePromotion(c *fiber.Ctx) error {
	var req service.CreatePromotionInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	promo, err := s.venueService.CreatePromotion(c.UserContext(), caller(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(promo)
}

// ListPromotions handles GET /api/establishment/promotions
// @Summary Establishment promotions
// @Tags establishment
// @Produce json
// @Security BearerAuth
// @Param establishmentId query string false "Establishment ID, defaults to the caller"
// @Success 200 {array} models.Promotion
// @Router /establishment/promotions [get]
func (s *Server) ListPromotions(c *fiber.Ctx) error {
	promos, err := s.venueService.ListPromotions(c.UserContext(), caller(c), strings.TrimSpace(c.Query("establishmentId")))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(promos)
}

// NearbyAcademies handles GET /api/dancer/nearby/academies
// @Summary Academies around a point
// @Tags dancer
// @Produce json
// @Security BearerAuth
// @Param longitude query number true "Longitude"
// @Param latitude query number true "Latitude"
// @Param maxDistance query number false "Meters, default 10000"
// @Success 200 {array} service.NearbyAcademy
// @Failure 400 {object} models.ErrorResponse
// @Router /dancer/nearby/academies [get]
func (s *Server) NearbyAcademies(c *fiber.Ctx) error {
	q, err := parseNearby(c)
	if err != nil {
		return respond(c, err)
	}

	academies, err := s.venueService.NearbyAcademies(c.UserContext(), q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(academies)
}

// NearbyEvents handles GET /api/dancer/nearby/events
// @Summary Events around a point
// @Tags dancer
// @Produce json
// @Security BearerAuth
// @Param longitude query number true "Longitude"
// @Param latitude query number true "Latitude"
// @Param maxDistance query number false "Meters, default 10000"
// @Success 200 {array} service.EventView
// @Failure 400 {object} models.ErrorResponse
// @Router /dancer/nearby/events [get]
func (s *Server) NearbyEvents(c *fiber.Ctx) error {
	q, err := parseNearby(c)
	if err != nil {
		return respond(c, err)
	}

	events, err := s.venueService.NearbyEvents(c.UserContext(), q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(events)
}

// AvailablePromotions handles GET /api/dancer/promotions
// @Summary Promotions still valid
// @Tags dancer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PromotionView
// @Router /dancer/promotions [get]
func (s *Server) AvailablePromotions(c *fiber.Ctx) error {
	promos, err := s.venueService.AvailablePromotions(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(promos)
}

// GetPromotionQR handles GET /api/dancer/promotions/:id/qr
// @Summary QR payload for a promotion
// @Tags dancer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Promotion ID"
// @Success 200 {object} service.PromotionQR
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /dancer/promotions/{id}/qr [get]
func (s *Server) GetPromotionQR(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id", "Promotion")
	if err != nil {
		return nil
	}

	qr, err := s.venueService.PromotionQR(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(qr)
}

func parseNearby(c *fiber.Ctx) (service.NearbyQuery, error) {
	lonRaw := strings.TrimSpace(c.Query("longitude"))
	latRaw := strings.TrimSpace(c.Query("latitude"))
	if lonRaw == "" || latRaw == "" {
		return service.NearbyQuery{}, models.NewValidationError("Please provide longitude and latitude")
	}
	lon, lonErr := strconv.ParseFloat(lonRaw, 64)
	lat, latErr := strconv.ParseFloat(latRaw, 64)
	if lonErr != nil || latErr != nil {
		return service.NearbyQuery{}, models.NewValidationError("longitude and latitude must be numbers")
	}

	q := service.NearbyQuery{Point: geo.Point{Lon: lon, Lat: lat}}
	if raw := strings.TrimSpace(c.Query("maxDistance")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return service.NearbyQuery{}, models.NewValidationError("maxDistance must be a number")
		}
		q.MaxDistance = d
	}
	return q, nil
}
