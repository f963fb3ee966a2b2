package storefront

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSessionIDFromCookie(t *testing.T) {
	tests := []struct {
		name           string
		cookieName     string
		cookieValue    string
		expectedResult string
	}{
		{
			name:           "returns UUID session IDs",
			cookieName:     "tienda_session",
			cookieValue:    "123e4567-e89b-12d3-a456-426614174000",
			expectedResult: "123e4567-e89b-12d3-a456-426614174000",
		},
		{
			name:           "returns empty string when cookie does not exist",
			cookieName:     "other_cookie",
			cookieValue:    "123e4567-e89b-12d3-a456-426614174000",
			expectedResult: "",
		},
		{
			name:           "returns empty string when no cookies present",
			expectedResult: "",
		},
		{
			name:           "rejects values that are not UUIDs",
			cookieName:     "tienda_session",
			cookieValue:    "valid-session-id-12345",
			expectedResult: "",
		},
		{
			name:           "rejects path traversal payloads",
			cookieName:     "tienda_session",
			cookieValue:    "../../../escape",
			expectedResult: "",
		},
		{
			name:           "canonicalizes alternate UUID encodings",
			cookieName:     "tienda_session",
			cookieValue:    "123e4567e89b12d3a456426614174000",
			expectedResult: "123e4567-e89b-12d3-a456-426614174000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.cookieName != "" {
				req.AddCookie(&http.Cookie{Name: tt.cookieName, Value: tt.cookieValue})
			}
			assert.Equal(t, tt.expectedResult, GetSessionIDFromCookie(req))
		})
	}
}

func TestSetSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "session-abc", true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "session-abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, sessionCookieMaxAge, c.MaxAge)
}

func TestEnsureSession(t *testing.T) {
	t.Run("keeps existing session", func(t *testing.T) {
		existing := uuid.New().String()
		req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: existing})
		rec := httptest.NewRecorder()

		got := EnsureSession(rec, req, false)
		assert.Equal(t, existing, got)
		assert.Empty(t, rec.Result().Cookies(), "no new cookie for an existing session")
	})

	t.Run("replaces a tampered session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../../escape"})
		rec := httptest.NewRecorder()

		got := EnsureSession(rec, req, false)
		_, err := uuid.Parse(got)
		require.NoError(t, err, "a tampered cookie is discarded for a fresh UUID")
	})

	t.Run("mints a session when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
		rec := httptest.NewRecorder()

		got := EnsureSession(rec, req, false)
		_, err := uuid.Parse(got)
		require.NoError(t, err, "minted session IDs are UUIDs")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, got, cookies[0].Value)
	})
}
