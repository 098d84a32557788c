package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	res "github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) res.Response {
	t.Helper()
	var body res.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"CourseID":  "course_id",
		"FirstName": "first_name",
		"Email":     "email",
		"ID":        "id",
	}
	for in, want := range tests {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}

func TestError_BusinessAndPlain(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, res.NewBusinessError(res.WithErrorCode(res.NotFound), res.WithErrorMessage("gone")))

	body := decode(t, w)
	assert.Equal(t, res.NotFound, body.Code)
	assert.Equal(t, "gone", body.Message)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, errors.New("db down"))

	body = decode(t, w)
	assert.Equal(t, res.Fail, body.Code)
	assert.Equal(t, "internal error", body.Message)
}

type bindTarget struct {
	CourseID uint   `json:"course_id" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
}

func TestValidationErrorResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing required", `{}`, "field 'course_id' is required"},
		{"bad email", `{"course_id": 1, "email": "nope"}`, "field 'email' must be an email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var target bindTarget
			err := c.ShouldBindJSON(&target)
			require.Error(t, err)

			ValidationErrorResponse(c, err)
			body := decode(t, w)
			assert.Equal(t, res.ParseError, body.Code)
			assert.Equal(t, tt.want, body.Message)
		})
	}
}
