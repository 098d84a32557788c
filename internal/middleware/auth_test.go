package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moscovig/hthCourseReg/internal/access"
	authsdk "github.com/moscovig/hthCourseReg/packages/auth-sdk"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

type fakeSessions struct {
	live map[string]bool
	err  error
}

func (f *fakeSessions) Exists(_ context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.live[id], nil
}

func issue(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := authsdk.IssueToken(authsdk.UserContext{
		UserID:    7,
		Email:     "student@example.com",
		Roles:     roles,
		SessionID: "sess-1",
	}, testSecret, time.Hour, time.Now())
	require.NoError(t, err)
	return token
}

func newRouter(sessions SessionChecker, resource access.Resource, action access.Action) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", JWTAuth(testSecret, sessions), RequirePermission(resource, action), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": response.Success, "user_id": user.UserID, "id": CurrentUserID(c)})
	})
	return r
}

func do(r *gin.Engine, token string) map[string]any {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestJWTAuth_NoToken(t *testing.T) {
	body := do(newRouter(nil, access.ResourceCatalog, access.ActionView), "")
	assert.Equal(t, float64(response.Unauthorized), body["code"])
}

func TestJWTAuth_BadToken(t *testing.T) {
	body := do(newRouter(nil, access.ResourceCatalog, access.ActionView), "not-a-jwt")
	assert.Equal(t, float64(response.Unauthorized), body["code"])
}

func TestJWTAuth_StudentAllowedOnCatalog(t *testing.T) {
	sessions := &fakeSessions{live: map[string]bool{"sess-1": true}}
	body := do(newRouter(sessions, access.ResourceCatalog, access.ActionView), issue(t, "student"))
	assert.Equal(t, float64(response.Success), body["code"])
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, float64(7), body["id"])
}

func TestRequirePermission_StudentDeniedOnAdmin(t *testing.T) {
	body := do(newRouter(nil, access.ResourceCourse, access.ActionCreate), issue(t, "student"))
	assert.Equal(t, float64(response.Forbidden), body["code"])
}

func TestRequirePermission_UnknownRoleDenied(t *testing.T) {
	body := do(newRouter(nil, access.ResourceCatalog, access.ActionView), issue(t, "janitor"))
	assert.Equal(t, float64(response.Forbidden), body["code"])
}

func TestRequirePermission_TeacherOnAdmin(t *testing.T) {
	body := do(newRouter(nil, access.ResourceEnrollment, access.ActionEdit), issue(t, "teacher"))
	assert.Equal(t, float64(response.Success), body["code"])
}

func TestJWTAuth_RevokedSession(t *testing.T) {
	sessions := &fakeSessions{live: map[string]bool{}}
	body := do(newRouter(sessions, access.ResourceCatalog, access.ActionView), issue(t, "student"))
	assert.Equal(t, float64(response.Unauthorized), body["code"])
	assert.Equal(t, "session expired", body["message"])
}

func TestJWTAuth_SessionStoreDown(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("redis down")}
	body := do(newRouter(sessions, access.ResourceCatalog, access.ActionView), issue(t, "student"))
	assert.Equal(t, float64(response.Unauthorized), body["code"])
}
