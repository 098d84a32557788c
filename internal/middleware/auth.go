package middleware

import (
	"context"
	"errors"

	"github.com/moscovig/hthCourseReg/internal/access"
	"github.com/moscovig/hthCourseReg/internal/dto"
	authsdk "github.com/moscovig/hthCourseReg/packages/auth-sdk"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
)

const (
	userContextKey = "auth_user"
	userIDKey      = "user_id"
	emailKey       = "email"
	rolesKey       = "user_roles"
)

// SessionChecker reports whether a login session is still live
type SessionChecker interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// JWTAuth requires a valid access token (cookie or Bearer header).
// When sessions is not nil the token's session must also still exist,
// so logout takes effect before the token expires.
func JWTAuth(secret string, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, secret, sessions)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(err.Error()),
			))
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Set(userIDKey, user.UserID)
		c.Set(emailKey, user.Email)
		c.Set(rolesKey, access.ParseRoles(user.Roles))
		c.Next()
	}
}

func authenticate(c *gin.Context, secret string, sessions SessionChecker) (*authsdk.UserContext, error) {
	token, err := authsdk.ExtractToken(c.Request)
	if err != nil {
		return nil, err
	}

	user, err := authsdk.ParseToken(token, secret)
	if err != nil {
		return nil, err
	}

	if sessions != nil {
		ok, err := sessions.Exists(c.Request.Context(), user.SessionID)
		if err != nil {
			return nil, errors.New("session lookup failed")
		}
		if !ok {
			return nil, errors.New("session expired")
		}
	}
	return user, nil
}

// RequirePermission lets the request through only when one of the caller's
// roles grants action on resource. Must run after JWTAuth.
func RequirePermission(resource access.Resource, action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !access.Can(CurrentRoles(c), resource, action) {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Forbidden),
				response.WithErrorMessage("permission denied"),
			))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser the authenticated caller, if any
func CurrentUser(c *gin.Context) (*authsdk.UserContext, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*authsdk.UserContext)
	return user, ok
}

// CurrentUserID zero when the request is unauthenticated
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

func CurrentRoles(c *gin.Context) []access.Role {
	v, ok := c.Get(rolesKey)
	if !ok {
		return nil
	}
	roles, _ := v.([]access.Role)
	return roles
}
