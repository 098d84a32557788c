package timetable

import (
	"strconv"

	"github.com/moscovig/hthCourseReg/internal/dto"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List timetable entries
// @Summary List timetable entries
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "only this user's entries"
// @Success 200 {object} response.Response{data=[]TimeTableView}
// @Router /admin/timetables [get]
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	list, err := h.service.List(c.Request.Context(), q.UserID)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, list)
}

// Get a timetable entry
// @Summary Get timetable entry
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "entry id"
// @Success 200 {object} response.Response{data=TimeTableView}
// @Router /admin/timetables/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, v)
}

// Create a timetable entry
// @Summary Create timetable entry
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TimeTableRequest true "entry"
// @Success 200 {object} response.Response{data=TimeTableView}
// @Router /admin/timetables [post]
func (h *Handler) Create(c *gin.Context) {
	var req TimeTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	v, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, v)
}

// Update a timetable entry
// @Summary Update timetable entry
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "entry id"
// @Param request body TimeTableRequest true "entry"
// @Success 200 {object} response.Response{data=TimeTableView}
// @Router /admin/timetables/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req TimeTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	v, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, v)
}

// Delete a timetable entry
// @Summary Delete timetable entry
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "entry id"
// @Success 200 {object} response.Response
// @Router /admin/timetables/{id} [delete]
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

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("invalid timetable id"),
		))
		return 0, false
	}
	return uint(id), true
}
