package user

import (
	"github.com/moscovig/hthCourseReg/internal/access"
	"github.com/moscovig/hthCourseReg/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	users := r.Group("/users")
	{
		users.GET("", middleware.RequirePermission(access.ResourceUser, access.ActionView), h.List)
		users.POST("", middleware.RequirePermission(access.ResourceUser, access.ActionCreate), h.Create)
		users.GET("/:id", middleware.RequirePermission(access.ResourceUser, access.ActionView), h.Get)
		users.PUT("/:id", middleware.RequirePermission(access.ResourceUser, access.ActionEdit), h.Update)
		users.DELETE("/:id", middleware.RequirePermission(access.ResourceUser, access.ActionDelete), h.Delete)
		users.PUT("/:id/roles", middleware.RequirePermission(access.ResourceUser, access.ActionEdit), h.SetRoles)
	}
}
