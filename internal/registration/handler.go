package registration

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/moscovig/hthCourseReg/internal/dto"
	"github.com/moscovig/hthCourseReg/internal/middleware"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
)

// SummaryTemplate name of the HTML template rendered by Summary
const SummaryTemplate = "registration.html"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Open open a registration for the current user
// @Summary Open registration
// @Description Reserves a seat in the course; the reservation expires unless confirmed
// @Tags registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body OpenRequest true "course to register for"
// @Success 200 {object} response.Response{data=EnrollmentView}
// @Router /registrations [post]
func (h *Handler) Open(c *gin.Context) {
	var req OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	e, err := h.service.OpenEnrollment(c.Request.Context(), middleware.CurrentUserID(c), req.CourseID)
	if err != nil {
		dto.Error(c, err)
		return
	}

	dto.SuccessResponse(c, h.service.view(*e))
}

// Cancel drop the current user's open registration
// @Summary Cancel registration
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "course id"
// @Success 200 {object} response.Response
// @Router /registrations/{course_id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	if err := h.service.CancelEnrollment(c.Request.Context(), middleware.CurrentUserID(c), courseID); err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}

// List all enrollments with time left
// @Summary List enrollments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]EnrollmentView}
// @Router /admin/enrollments [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.ListEnrollments(c.Request.Context())
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, list)
}

// Confirm mark an enrollment confirmed
// @Summary Confirm enrollment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "student id"
// @Param course_id path int true "course id"
// @Success 200 {object} response.Response
// @Router /admin/enrollments/{user_id}/{course_id}/confirm [put]
func (h *Handler) Confirm(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	if err := h.service.ConfirmEnrollment(c.Request.Context(), userID, courseID); err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}

// Remove delete an enrollment whatever its status
// @Summary Remove enrollment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "student id"
// @Param course_id path int true "course id"
// @Success 200 {object} response.Response
// @Router /admin/enrollments/{user_id}/{course_id} [delete]
func (h *Handler) Remove(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	courseID, ok := parseID(c, "course_id")
	if !ok {
		return
	}

	if err := h.service.RemoveEnrollment(c.Request.Context(), userID, courseID); err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}

// Summary renders the registration summary page.
// Bad input is answered with a plain text message.
func (h *Handler) Summary(c *gin.Context) {
	raw := c.Query("course_id")
	if raw == "" {
		c.String(http.StatusOK, "Course Id is missing")
		return
	}

	courseID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.String(http.StatusOK, "Course not found")
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), middleware.CurrentUserID(c), uint(courseID))
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			c.String(http.StatusOK, "Course not found")
			return
		}
		if errors.Is(err, ErrUserNotFound) {
			c.String(http.StatusOK, "User not found")
			return
		}
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.HTML(http.StatusOK, SummaryTemplate, summary)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("invalid "+name),
		))
		return 0, false
	}
	return uint(id), true
}
