package server

import (
	"bailemos/internal/featureflags"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns the known flags, the configured values and their
// evaluation for the caller.
// @Summary Feature flags
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{known=[]featureflags.Definition,raw=map[string]string,evaluated=map[string]bool}
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"known":     featureflags.Known,
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(caller(c).ID),
	})
}

// GetEnrollmentOverview handles GET /api/admin/enrollments
// @Summary Enrollment counts per academy
// @Description Academies with the most pending applications first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} service.AcademyEnrollmentRow
// @Router /admin/enrollments [get]
func (s *Server) GetEnrollmentOverview(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	rows, err := s.adminService.EnrollmentOverview(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(rows)
}

// GetAdminAcademy handles GET /api/admin/academies/:academyId
// @Summary Academy operator view
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param academyId path string true "Academy ID"
// @Success 200 {object} service.AdminAcademyDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/academies/{academyId} [get]
func (s *Server) GetAdminAcademy(c *fiber.Ctx) error {
	academyID, err := parseUUIDParam(c, "academyId", "Academy")
	if err != nil {
		return nil
	}

	detail, err := s.adminService.AcademyDetail(c.UserContext(), academyID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(detail)
}
