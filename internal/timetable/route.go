package timetable

import (
	"github.com/moscovig/hthCourseReg/internal/access"
	"github.com/moscovig/hthCourseReg/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	tt := r.Group("/timetables")
	{
		tt.GET("", middleware.RequirePermission(access.ResourceTimeTable, access.ActionView), h.List)
		tt.POST("", middleware.RequirePermission(access.ResourceTimeTable, access.ActionCreate), h.Create)
		tt.GET("/:id", middleware.RequirePermission(access.ResourceTimeTable, access.ActionView), h.Get)
		tt.PUT("/:id", middleware.RequirePermission(access.ResourceTimeTable, access.ActionEdit), h.Update)
		tt.DELETE("/:id", middleware.RequirePermission(access.ResourceTimeTable, access.ActionDelete), h.Delete)
	}
}
