package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes public and authenticated auth endpoints; authn is the JWT middleware
func RegisterRoutes(r *gin.RouterGroup, h *Handler, authn gin.HandlerFunc) {
	group := r.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/logout", authn, h.Logout)
		group.GET("/me", authn, h.Me)
	}
}
