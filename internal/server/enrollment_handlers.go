package server

import (
	"strings"

	"bailemos/internal/models"
	"bailemos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// enrollmentCreated is the submit acknowledgement.
type enrollmentCreated struct {
	Message      string                  `json:"message"`
	EnrollmentID string                  `json:"enrollmentId"`
	Status       models.EnrollmentStatus `json:"status"`
}

// Enroll handles POST /api/academy/:academyId/enroll
// @Summary Apply to an academy
// @Description Submits a pending enrollment. voucherImage may be a data:image base64 URL or an http(s) link.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param academyId path string true "Academy ID"
// @Param request body service.EnrollInput true "Applicant"
// @Success 201 {object} enrollmentCreated
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /academy/{academyId}/enroll [post]
func (s *Server) Enroll(c *fiber.Ctx) error {
	academyID, err := parseUUIDParam(c, "academyId", "Academy")
	if err != nil {
		return nil
	}
	var req service.EnrollInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	enrollment, err := s.enrollmentService.Enroll(c.UserContext(), academyID, caller(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(enrollmentCreated{
		Message:      "Enrollment submitted",
		EnrollmentID: enrollment.ID,
		Status:       enrollment.Status,
	})
}

// DecideEnrollment handles PATCH /api/academy/:academyId/enrollments/:enrollmentId
// @Summary Approve or reject
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param academyId path string true "Academy ID"
// @Param enrollmentId path string true "Enrollment ID"
// @Param request body object{status=string} true "approved or rejected"
// @Success 200 {object} service.EnrollmentView
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /academy/{academyId}/enrollments/{enrollmentId} [patch]
func (s *Server) DecideEnrollment(c *fiber.Ctx) error {
	academyID, err := parseUUIDParam(c, "academyId", "Academy")
	if err != nil {
		return nil
	}
	enrollmentID, err := parseUUIDParam(c, "enrollmentId", "Enrollment")
	if err != nil {
		return nil
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	decision := models.EnrollmentStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	ctx := c.UserContext()
	who := caller(c)
	if _, err := s.enrollmentService.Decide(ctx, academyID, enrollmentID, who, decision); err != nil {
		return respond(c, err)
	}

	view, err := s.enrollmentService.Get(ctx, academyID, enrollmentID, who)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(view)
}

// ListEnrollments handles GET /api/academy/:academyId/enrollments
// @Summary Academy enrollments
// @Description Newest first. Admins may read any academy.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param academyId path string true "Academy ID"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} service.EnrollmentView
// @Failure 403 {object} models.ErrorResponse
// @Router /academy/{academyId}/enrollments [get]
func (s *Server) ListEnrollments(c *fiber.Ctx) error {
	academyID, err := parseUUIDParam(c, "academyId", "Academy")
	if err != nil {
		return nil
	}

	views, err := s.enrollmentService.List(c.UserContext(), academyID, caller(c), c.Query("status"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(views)
}

// ListMyAcademyEnrollments handles GET /api/academy/enrollments
// @Summary My academy's enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} service.EnrollmentView
// @Router /academy/enrollments [get]
func (s *Server) ListMyAcademyEnrollments(c *fiber.Ctx) error {
	views, err := s.enrollmentService.ListOwn(c.UserContext(), caller(c), c.Query("status"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(views)
}

// GetEnrollment handles GET /api/academy/:academyId/enrollments/:enrollmentId
// @Summary Enrollment detail
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param academyId path string true "Academy ID"
// @Param enrollmentId path string true "Enrollment ID"
// @Success 200 {object} service.EnrollmentView
// @Failure 404 {object} models.ErrorResponse
// @Router /academy/{academyId}/enrollments/{enrollmentId} [get]
func (s *Server) GetEnrollment(c *fiber.Ctx) error {
	academyID, err := parseUUIDParam(c, "academyId", "Academy")
	if err != nil {
		return nil
	}
	enrollmentID, err := parseUUIDParam(c, "enrollmentId", "Enrollment")
	if err != nil {
		return nil
	}

	view, err := s.enrollmentService.Get(c.UserContext(), academyID, enrollmentID, caller(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(view)
}

// GetMyEnrollmentStatus handles GET /api/academy/:academyId/enrollment
// @Summary My status at an academy
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param academyId path string true "Academy ID"
// @Success 200 {object} service.MyEnrollmentStatus
// @Router /academy/{academyId}/enrollment [get]
func (s *Server) GetMyEnrollmentStatus(c *fiber.Ctx) error {
	academyID, err := parseUUIDParam(c, "academyId", "Academy")
	if err != nil {
		return nil
	}

	status, err := s.enrollmentService.MyStatus(c.UserContext(), academyID, caller(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(status)
}
