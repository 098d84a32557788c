package registration

import (
	"github.com/moscovig/hthCourseReg/internal/access"
	"github.com/moscovig/hthCourseReg/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes student registration endpoints; r must already require authentication
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	registrations := r.Group("/registrations")
	{
		registrations.POST("", middleware.RequirePermission(access.ResourceRegistration, access.ActionCreate), h.Open)
		registrations.DELETE("/:course_id", middleware.RequirePermission(access.ResourceRegistration, access.ActionDelete), h.Cancel)
	}
}

// RegisterAdminRoutes staff enrollment management
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	enrollments := r.Group("/enrollments")
	{
		enrollments.GET("", middleware.RequirePermission(access.ResourceEnrollment, access.ActionView), h.List)
		enrollments.PUT("/:user_id/:course_id/confirm", middleware.RequirePermission(access.ResourceEnrollment, access.ActionEdit), h.Confirm)
		enrollments.DELETE("/:user_id/:course_id", middleware.RequirePermission(access.ResourceEnrollment, access.ActionDelete), h.Remove)
	}
}

// RegisterPageRoutes the HTML summary page, mounted outside the API prefix
func RegisterPageRoutes(r gin.IRoutes, h *Handler) {
	r.GET("/registration", middleware.RequirePermission(access.ResourceCatalog, access.ActionView), h.Summary)
}
