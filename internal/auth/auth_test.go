package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/moscovig/hthCourseReg/internal/middleware"
	userModel "github.com/moscovig/hthCourseReg/internal/model/user"
	"github.com/moscovig/hthCourseReg/internal/testutils"
	"github.com/moscovig/hthCourseReg/internal/user"
	authsdk "github.com/moscovig/hthCourseReg/packages/auth-sdk"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-test-secret"

type memorySessions struct {
	mu   sync.Mutex
	live map[string]uint
}

func newMemorySessions() *memorySessions {
	return &memorySessions{live: map[string]uint{}}
}

func (m *memorySessions) Create(_ context.Context, id string, userID uint, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[id] = userID
	return nil
}

func (m *memorySessions) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live[id]
	return ok, nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, id)
	return nil
}

func (m *memorySessions) RevokeUser(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, owner := range m.live {
		if owner == userID {
			delete(m.live, id)
		}
	}
	return nil
}

type fakeUsers struct {
	byEmail map[string]*userModel.User
	roles   map[uint][]string
}

func (f *fakeUsers) Register(_ context.Context, email, _, first, last string) (*userModel.User, error) {
	u := &userModel.User{ID: uint(len(f.byEmail) + 1), Email: email, FirstName: first, LastName: last, Active: true}
	f.byEmail[email] = u
	f.roles[u.ID] = []string{"student"}
	return u, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, email, password string) (*userModel.User, error) {
	u, ok := f.byEmail[email]
	if !ok || password != "correct-horse" {
		return nil, user.ErrInvalidCredentials
	}
	return u, nil
}

func (f *fakeUsers) RoleNames(_ context.Context, userID uint) ([]string, error) {
	return f.roles[userID], nil
}

func newTestRouter() (*gin.Engine, *memorySessions) {
	gin.SetMode(gin.TestMode)
	sessions := newMemorySessions()
	users := &fakeUsers{byEmail: map[string]*userModel.User{}, roles: map[uint][]string{}}
	h := NewHandler(NewService(users, sessions, testSecret, time.Hour, nil), false)

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), h, middleware.JWTAuth(testSecret, sessions))
	return r, sessions
}

func post(r *gin.Engine, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func get(r *gin.Engine, path string, cookies ...*http.Cookie) response.Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return res
}

func tokenCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == authsdk.AccessTokenCookie {
			return c
		}
	}
	t.Fatal("access_token cookie not set")
	return nil
}

func TestRegisterMeLogout(t *testing.T) {
	r, sessions := newTestRouter()

	w, res := post(r, "/api/v1/auth/register",
		`{"email":"dana@example.com","password":"correct-horse","first_name":"Dana","last_name":"Levi"}`)
	require.Equal(t, response.Success, res.Code)
	cookie := tokenCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Len(t, sessions.live, 1)

	me := get(r, "/api/v1/auth/me", cookie)
	require.Equal(t, response.Success, me.Code)
	data := me.Data.(map[string]any)
	assert.Equal(t, "dana@example.com", data["email"])
	perms := data["permissions"].(map[string]any)
	assert.Contains(t, perms, "catalog")
	assert.NotContains(t, perms, "course")

	_, res = post(r, "/api/v1/auth/logout", "", cookie)
	require.Equal(t, response.Success, res.Code)
	assert.Empty(t, sessions.live)

	me = get(r, "/api/v1/auth/me", cookie)
	assert.Equal(t, response.Unauthorized, me.Code)
}

func TestLogin(t *testing.T) {
	r, _ := newTestRouter()
	post(r, "/api/v1/auth/register",
		`{"email":"dana@example.com","password":"correct-horse","first_name":"Dana","last_name":"Levi"}`)

	_, res := post(r, "/api/v1/auth/login", `{"email":"dana@example.com","password":"wrong-pass"}`)
	assert.Equal(t, response.Unauthorized, res.Code)

	w, res := post(r, "/api/v1/auth/login", `{"email":"dana@example.com","password":"correct-horse"}`)
	require.Equal(t, response.Success, res.Code)

	parsed, err := authsdk.ParseToken(tokenCookie(t, w).Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, []string{"student"}, parsed.Roles)
	assert.NotEmpty(t, parsed.SessionID)

	_, res = post(r, "/api/v1/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, response.ParseError, res.Code)
}

func TestRedisSessionStore(t *testing.T) {
	client := testutils.SetupTestRedis(t)
	if client == nil {
		t.Skip("redis unavailable")
	}
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Create(ctx, "s1", 7, time.Minute))
	ok, err = store.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "s1"))
	ok, err = store.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSessionStore_RevokeUser(t *testing.T) {
	client := testutils.SetupTestRedis(t)
	if client == nil {
		t.Skip("redis unavailable")
	}
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "a1", 7, time.Minute))
	require.NoError(t, store.Create(ctx, "a2", 7, time.Minute))
	require.NoError(t, store.Create(ctx, "b1", 8, time.Minute))

	require.NoError(t, store.RevokeUser(ctx, 7))

	for _, id := range []string{"a1", "a2"} {
		ok, err := store.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok, id)
	}
	ok, err := store.Exists(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, ok)

	// nothing left to revoke
	require.NoError(t, store.RevokeUser(ctx, 7))
}

// A token issued before a role change must stop working afterwards,
// otherwise a demoted teacher keeps staff access until the token expires.
func TestSetRoles_RevokesIssuedTokens(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()
	gin.SetMode(gin.TestMode)

	sessions := newMemorySessions()
	users := user.NewService(user.NewRepository(db), user.AccessLists{}, sessions, nil)
	h := NewHandler(NewService(users, sessions, testSecret, time.Hour, nil), false)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), h, middleware.JWTAuth(testSecret, sessions))

	w, res := post(r, "/api/v1/auth/register",
		`{"email":"demoted@example.com","password":"secret-pass","first_name":"Dana","last_name":"Levi"}`)
	require.Equal(t, response.Success, res.Code)
	cookie := tokenCookie(t, w)

	parsed, err := authsdk.ParseToken(cookie.Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, []string{"student"}, parsed.Roles)
	assert.Equal(t, response.Success, get(r, "/api/v1/auth/me", cookie).Code)

	_, err = users.SetRoles(ctx, parsed.UserID, []string{"teacher"})
	require.NoError(t, err)
	assert.Equal(t, response.Unauthorized, get(r, "/api/v1/auth/me", cookie).Code)

	w, res = post(r, "/api/v1/auth/login", `{"email":"demoted@example.com","password":"secret-pass"}`)
	require.Equal(t, response.Success, res.Code)
	relogged, err := authsdk.ParseToken(tokenCookie(t, w).Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, []string{"teacher"}, relogged.Roles)
}
