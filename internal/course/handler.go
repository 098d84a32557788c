package course

import (
	"strconv"

	"github.com/moscovig/hthCourseReg/internal/dto"
	"github.com/moscovig/hthCourseReg/internal/middleware"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List all courses
// @Summary List courses
// @Description Every course with teacher, category, capacity and remaining seats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]CourseView}
// @Router /admin/courses [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, list)
}

// Get one course
// @Summary Get course
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} response.Response{data=CourseView}
// @Router /admin/courses/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, view)
}

// Create a course
// @Summary Create course
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CourseRequest true "course"
// @Success 200 {object} response.Response{data=CourseView}
// @Router /admin/courses [post]
func (h *Handler) Create(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	view, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, view)
}

// Update a course
// @Summary Update course
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param request body CourseRequest true "course"
// @Success 200 {object} response.Response{data=CourseView}
// @Router /admin/courses/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	view, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, view)
}

// Delete a course
// @Summary Delete course
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} response.Response
// @Router /admin/courses/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}

// Available courses the current student can still register for
// @Summary Available courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=AvailableResponse}
// @Router /courses/available [get]
func (h *Handler) Available(c *gin.Context) {
	res, err := h.service.Available(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, res)
}

// Mine courses the current student registered for
// @Summary My courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]MyCourseView}
// @Router /courses/mine [get]
func (h *Handler) Mine(c *gin.Context) {
	res, err := h.service.Mine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, res)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("invalid course id"),
		))
		return 0, false
	}
	return uint(id), true
}
