package syslog

import (
	"github.com/moscovig/hthCourseReg/internal/access"
	"github.com/moscovig/hthCourseReg/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes read-only; the log is only ever appended by the expiry sweep
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/syslogs", middleware.RequirePermission(access.ResourceSysLog, access.ActionView), h.List)
}
