package authsdk

import (
	"net/http"
	"strings"
)

// AccessTokenCookie name of the cookie holding the access token
const AccessTokenCookie = "access_token"

// ExtractToken reads the access token from the request.
// The cookie wins; the Authorization header (Bearer) is the fallback
// for API clients.
func ExtractToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoToken
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	}

	return "", ErrInvalidToken
}
