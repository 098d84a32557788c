package course

import (
	"github.com/moscovig/hthCourseReg/internal/access"
	"github.com/moscovig/hthCourseReg/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes staff course management; r must already require authentication
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	courses := r.Group("/courses")
	{
		courses.GET("", middleware.RequirePermission(access.ResourceCourse, access.ActionView), h.List)
		courses.POST("", middleware.RequirePermission(access.ResourceCourse, access.ActionCreate), h.Create)
		courses.GET("/:id", middleware.RequirePermission(access.ResourceCourse, access.ActionView), h.Get)
		courses.PUT("/:id", middleware.RequirePermission(access.ResourceCourse, access.ActionEdit), h.Update)
		courses.DELETE("/:id", middleware.RequirePermission(access.ResourceCourse, access.ActionDelete), h.Delete)
	}
}

// RegisterRoutes the student course lists
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	courses := r.Group("/courses", middleware.RequirePermission(access.ResourceCatalog, access.ActionView))
	{
		courses.GET("/available", h.Available)
		courses.GET("/mine", h.Mine)
	}
}
