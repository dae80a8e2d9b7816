package server

import (
	"strings"

	"bailemos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListAcademies handles GET /api/academy/academies
// @Summary List academies
// @Tags academy
// @Produce json
// @Success 200 {array} models.Profile
// @Router /academy/academies [get]
func (s *Server) ListAcademies(c *fiber.Ctx) error {
	academies, err := s.academyService.ListAcademies(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(academies)
}

// GetAcademy handles GET /api/academy/:id
// @Summary Academy detail
// @Tags academy
// @Produce json
// @Param id path string true "Academy ID"
// @Success 200 {object} service.AcademyDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /academy/{id} [get]
func (s *Server) GetAcademy(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id", "Academy")
	if err != nil {
		return nil
	}

	academy, err := s.academyService.GetAcademy(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(academy)
}

// CreateClass handles POST /api/academy/classes
// @Summary Create class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateClassInput true "Class"
// @Success 201 {object} models.DanceClass
// @Failure 400 {object} models.ErrorResponse
// @Router /academy/classes [post]
func (s *Server) CreateClass(c *fiber.Ctx) error {
	var req service.CreateClassInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	class, err := s.academyService.CreateClass(c.UserContext(), caller(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(class)
}

// ListClasses handles GET /api/academy/classes
// @Summary List classes
// @Description Classes of ?academyId, else the calling academy's own, else all
// @Tags classes
// @Produce json
// @Param academyId query string false "Academy ID"
// @Success 200 {array} models.DanceClass
// @Router /academy/classes [get]
func (s *Server) ListClasses(c *fiber.Ctx) error {
	academyID := strings.TrimSpace(c.Query("academyId"))

	classes, err := s.academyService.ListClasses(c.UserContext(), caller(c), academyID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(classes)
}

// GetClassBookings handles GET /api/academy/classes/:classId/bookings
// @Summary Bookings of a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param classId path string true "Class ID"
// @Success 200 {array} models.Booking
// @Failure 403 {object} models.ErrorResponse
// @Router /academy/classes/{classId}/bookings [get]
func (s *Server) GetClassBookings(c *fiber.Ctx) error {
	classID, err := parseUUIDParam(c, "classId", "Class")
	if err != nil {
		return nil
	}

	bookings, err := s.academyService.ClassBookings(c.UserContext(), caller(c), classID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(bookings)
}

// BookClass handles POST /api/academy/bookings
// @Summary Book a class
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.BookClassInput true "Booking"
// @Success 201 {object} models.Booking
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /academy/bookings [post]
func (s *Server) BookClass(c *fiber.Ctx) error {
	var req service.BookClassInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	booking, err := s.academyService.BookClass(c.UserContext(), caller(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetMyBookings handles GET /api/academy/bookings/my
// @Summary My bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Booking
// @Router /academy/bookings/my [get]
func (s *Server) GetMyBookings(c *fiber.Ctx) error {
	bookings, err := s.academyService.MyBookings(c.UserContext(), caller(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(bookings)
}

// CancelBooking handles PATCH /api/academy/bookings/:bookingId
// @Summary Cancel a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 404 {object} models.ErrorResponse
// @Router /academy/bookings/{bookingId} [patch]
func (s *Server) CancelBooking(c *fiber.Ctx) error {
	bookingID, err := parseUUIDParam(c, "bookingId", "Booking")
	if err != nil {
		return nil
	}

	booking, err := s.academyService.CancelBooking(c.UserContext(), caller(c), bookingID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(booking)
}
