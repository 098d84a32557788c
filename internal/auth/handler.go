package auth

import (
	"github.com/moscovig/hthCourseReg/internal/dto"
	"github.com/moscovig/hthCourseReg/internal/middleware"
	authsdk "github.com/moscovig/hthCourseReg/packages/auth-sdk"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service      *Service
	secureCookie bool
}

func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{service: service, secureCookie: secureCookie}
}

// Register create an account and sign in
// @Summary Register
// @Description Creates a student account; listed teacher emails also get the teacher role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "account"
// @Success 200 {object} response.Response{data=LoginResult}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	h.setCookie(c, result)
	dto.SuccessResponse(c, result)
}

// Login sign in with email and password
// @Summary Login
// @Description Sets the access_token cookie; the token is also accepted as a Bearer header
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} response.Response{data=LoginResult}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}
	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	h.setCookie(c, result)
	dto.SuccessResponse(c, result)
}

// Logout end the current session
// @Summary Logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("not logged in"),
		))
		return
	}
	if err := h.service.Logout(c.Request.Context(), caller.SessionID); err != nil {
		dto.Error(c, err)
		return
	}

	c.SetCookie(authsdk.AccessTokenCookie, "", -1, "/", "", h.secureCookie, true)
	dto.SuccessResponse(c, nil)
}

// Me the current user
// @Summary Current user
// @Description Identity, roles and per-resource permissions of the caller
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=MeResponse}
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("not logged in"),
		))
		return
	}
	dto.SuccessResponse(c, h.service.Me(caller))
}

func (h *Handler) setCookie(c *gin.Context, result *LoginResult) {
	maxAge := int(result.ExpiresAt.Sub(h.service.now()).Seconds())
	c.SetCookie(authsdk.AccessTokenCookie, result.Token, maxAge, "/", "", h.secureCookie, true)
}
