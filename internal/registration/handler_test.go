package registration

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/user"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *fakeRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(repo)
	h := NewHandler(svc)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New(SummaryTemplate).Parse(
		`{{.Course.Name}}|{{.Course.PlacesLeft}}|{{.Email}}`,
	)))
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(5))
		c.Next()
	})
	r.GET("/registration", h.Summary)
	r.POST("/registrations", h.Open)
	r.DELETE("/registrations/:course_id", h.Cancel)
	return r
}

func serve(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSummaryHandler_MissingCourseID(t *testing.T) {
	w := serve(newTestRouter(newFakeRepo()), http.MethodGet, "/registration", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Course Id is missing", w.Body.String())
}

func TestSummaryHandler_UnknownCourse(t *testing.T) {
	repo := newFakeRepo()
	repo.users[5] = &user.User{ID: 5}

	w := serve(newTestRouter(repo), http.MethodGet, "/registration?course_id=77", nil)
	assert.Equal(t, "Course not found", w.Body.String())

	w = serve(newTestRouter(repo), http.MethodGet, "/registration?course_id=abc", nil)
	assert.Equal(t, "Course not found", w.Body.String())
}

func TestSummaryHandler_UnknownUser(t *testing.T) {
	repo := newFakeRepo()
	repo.courses[1] = &course.Course{ID: 1, Name: "Chess"}

	w := serve(newTestRouter(repo), http.MethodGet, "/registration?course_id=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User not found", w.Body.String())
}

func TestSummaryHandler_Renders(t *testing.T) {
	repo := newFakeRepo()
	repo.users[5] = &user.User{ID: 5, Email: "dana@example.com"}
	repo.courses[1] = &course.Course{ID: 1, Name: "Chess", Capacity: intPtr(10)}

	w := serve(newTestRouter(repo), http.MethodGet, "/registration?course_id=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chess|10|dana@example.com", w.Body.String())
}

func TestOpenHandler(t *testing.T) {
	repo := newFakeRepo()
	repo.courses[1] = &course.Course{ID: 1, Capacity: intPtr(1)}
	r := newTestRouter(repo)

	w := serve(r, http.MethodPost, "/registrations", []byte(`{"course_id":1}`))
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.Success, body.Code)

	w = serve(r, http.MethodPost, "/registrations", []byte(`{"course_id":1}`))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.Conflict, body.Code)

	w = serve(r, http.MethodPost, "/registrations", []byte(`{}`))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.ParseError, body.Code)
}

func TestCancelHandler(t *testing.T) {
	repo := newFakeRepo()
	repo.courses[1] = &course.Course{ID: 1}
	r := newTestRouter(repo)

	var body response.Response
	w := serve(r, http.MethodDelete, "/registrations/1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.NotFound, body.Code)

	w = serve(r, http.MethodDelete, "/registrations/zero", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.ParseError, body.Code)
}
