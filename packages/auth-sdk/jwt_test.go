package authsdk

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestIssueAndParseToken(t *testing.T) {
	now := time.Now()
	user := UserContext{
		UserID:    42,
		Email:     "teacher@example.com",
		Roles:     []string{"teacher", "student"},
		SessionID: "session-1",
	}

	token, err := IssueToken(user, testSecret, time.Hour, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, parsed.UserID)
	assert.Equal(t, user.Email, parsed.Email)
	assert.Equal(t, user.Roles, parsed.Roles)
	assert.Equal(t, user.SessionID, parsed.SessionID)
	assert.WithinDuration(t, now.Add(time.Hour), parsed.ExpiresAt, time.Second)
}

func TestParseToken_Errors(t *testing.T) {
	expired, err := IssueToken(UserContext{UserID: 1}, testSecret, -time.Minute, time.Now())
	require.NoError(t, err)

	otherSecret, err := IssueToken(UserContext{UserID: 1}, "another-secret", time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty token", "", ErrNoToken},
		{"garbage token", "not-a-jwt-token", ErrInvalidToken},
		{"wrong secret", otherSecret, ErrInvalidToken},
		{"expired token", expired, ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := ParseToken(tt.token, testSecret)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *http.Request)
		want    string
		wantErr error
	}{
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "from-cookie"})
				r.Header.Set("Authorization", "Bearer from-header")
			},
			want: "from-cookie",
		},
		{
			name:  "bearer header",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer from-header") },
			want:  "from-header",
		},
		{
			name:    "nothing",
			setup:   func(r *http.Request) {},
			wantErr: ErrNoToken,
		},
		{
			name:    "wrong scheme",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)

			got, err := ExtractToken(r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
