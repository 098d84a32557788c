package syslog

import (
	"github.com/moscovig/hthCourseReg/internal/dto"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List system log lines, newest first
// @Summary List system log
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "page, from 1"
// @Param page_size query int false "rows per page"
// @Success 200 {object} response.Response{data=ListResponse}
// @Router /admin/syslogs [get]
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	res, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.SuccessResponse(c, res)
}
