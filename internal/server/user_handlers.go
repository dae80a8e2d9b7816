package server

import (
	"strings"

	"bailemos/internal/models"
	"bailemos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type scheduleBody struct {
	Schedule models.WeeklySchedule `json:"schedule"`
}

type pricesBody struct {
	Prices []models.PriceOption `json:"prices"`
}

// GetMe handles GET /api/users/me
// @Summary Current profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	profile, err := s.authService.Me(c.UserContext(), caller(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// UpdateMe handles PATCH /api/users/me
// @Summary Update profile
// @Description Change the display name or avatar
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me [patch]
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.authService.UpdateProfile(c.UserContext(), caller(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// UpdateDeviceToken handles PUT /api/users/me/device-token
// @Summary Register push token
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{deviceToken=string} true "Push routing token"
// @Success 200 {object} object{message=string}
// @Router /users/me/device-token [put]
func (s *Server) UpdateDeviceToken(c *fiber.Ctx) error {
	var req struct {
		DeviceToken string `json:"deviceToken"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	token := strings.TrimSpace(req.DeviceToken)
	if token == "" {
		return respond(c, models.NewValidationError("deviceToken is required"))
	}

	if err := s.authService.UpdateDeviceToken(c.UserContext(), caller(c), token); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Device token updated"})
}

// GetSchedule handles GET /api/users/:userId/schedule
// @Summary Academy weekly schedule
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Academy ID"
// @Success 200 {object} scheduleBody
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{userId}/schedule [get]
func (s *Server) GetSchedule(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId", "Academy")
	if err != nil {
		return nil
	}

	schedule, err := s.academyService.GetSchedule(c.UserContext(), caller(c), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(scheduleBody{Schedule: schedule})
}

// PutSchedule handles PUT /api/users/:userId/schedule
// @Summary Replace weekly schedule
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Academy ID"
// @Param request body scheduleBody true "Schedule"
// @Success 200 {object} scheduleBody
// @Failure 400 {object} models.ErrorResponse
// @Router /users/{userId}/schedule [put]
func (s *Server) PutSchedule(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId", "Academy")
	if err != nil {
		return nil
	}
	var req scheduleBody
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Schedule == nil {
		return respond(c, models.NewValidationError("schedule is required"))
	}

	saved, err := s.academyService.PutSchedule(c.UserContext(), caller(c), userID, req.Schedule)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(scheduleBody{Schedule: saved})
}

// GetPrices handles GET /api/users/:userId/prices
// @Summary Academy price list
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Academy ID"
// @Success 200 {object} pricesBody
// @Router /users/{userId}/prices [get]
func (s *Server) GetPrices(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId", "Academy")
	if err != nil {
		return nil
	}

	prices, err := s.academyService.GetPrices(c.UserContext(), caller(c), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(pricesBody{Prices: prices})
}

// PutPrices handles PUT /api/users/:userId/prices
// @Summary Replace price list
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Academy ID"
// @Param request body pricesBody true "Prices"
// @Success 200 {object} pricesBody
// @Failure 400 {object} models.ErrorResponse
// @Router /users/{userId}/prices [put]
func (s *Server) PutPrices(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId", "Academy")
	if err != nil {
		return nil
	}
	var req pricesBody
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Prices == nil {
		return respond(c, models.NewValidationError("prices is required"))
	}

	saved, err := s.academyService.PutPrices(c.UserContext(), caller(c), userID, req.Prices)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(pricesBody{Prices: saved})
}
