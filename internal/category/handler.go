package category

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

// List categories
// @Summary List categories
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]course.Category}
// @Router /admin/categories [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, list)
}

// Get a category
// @Summary Get category
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} response.Response{data=course.Category}
// @Router /admin/categories/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cat, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, cat)
}

// Create a category
// @Summary Create category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "category"
// @Success 200 {object} response.Response{data=course.Category}
// @Router /admin/categories [post]
func (h *Handler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	cat, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, cat)
}

// Update a category
// @Summary Update category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body CategoryRequest true "category"
// @Success 200 {object} response.Response{data=course.Category}
// @Router /admin/categories/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	cat, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, cat)
}

// Delete a category
// @Summary Delete category
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} response.Response
// @Router /admin/categories/{id} [delete]
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
			response.WithErrorMessage("invalid category id"),
		))
		return 0, false
	}
	return uint(id), true
}
