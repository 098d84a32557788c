package category

import (
	"github.com/moscovig/hthCourseReg/internal/access"
	"github.com/moscovig/hthCourseReg/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	categories := r.Group("/categories")
	{
		categories.GET("", middleware.RequirePermission(access.ResourceCategory, access.ActionView), h.List)
		categories.POST("", middleware.RequirePermission(access.ResourceCategory, access.ActionCreate), h.Create)
		categories.GET("/:id", middleware.RequirePermission(access.ResourceCategory, access.ActionView), h.Get)
		categories.PUT("/:id", middleware.RequirePermission(access.ResourceCategory, access.ActionEdit), h.Update)
		categories.DELETE("/:id", middleware.RequirePermission(access.ResourceCategory, access.ActionDelete), h.Delete)
	}
}
