package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator maps fixed token strings to owner IDs.
type testTokenValidator struct {
	validTokens map[string]string
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{validTokens: make(map[string]string)}
}

func (v *testTokenValidator) ValidateToken(tokenString string) (OwnerIDGetter, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}
	ownerID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(ownerID), nil
}

type testClaims string

func (c testClaims) GetOwnerID() string { return string(c) }

func TestAuthMiddleware_ValidToken(t *testing.T) {
	validator := newTestTokenValidator()
	validator.validTokens["valid-test-token-123"] = "user-42"

	var seen string
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		seen, err = GetOwnerID(r)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "canonical", header: "Bearer valid-test-token-123"},
		{name: "lowercase scheme", header: "bearer valid-test-token-123"},
		{name: "extra whitespace", header: "  Bearer   valid-test-token-123  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/diagnoses", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "user-42", seen)
		})
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	validator := newTestTokenValidator()
	validator.validTokens["valid"] = "user-42"
	validator.validTokens["anonymous"] = ""

	called := false
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "no scheme", header: "valid"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "scheme only", header: "Bearer"},
		{name: "too many parts", header: "Bearer valid extra"},
		{name: "unknown token", header: "Bearer forged"},
		{name: "empty subject", header: "Bearer anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(http.MethodGet, "/diagnoses", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "unauthorized", body["code"])
		})
	}
}

func TestGetOwnerID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetOwnerID(req)
	assert.Error(t, err)

	req = req.WithContext(WithOwnerID(context.Background(), "user-1"))
	ownerID, err := GetOwnerID(req)
	require.NoError(t, err)
	assert.Equal(t, "user-1", ownerID)

	// Wrong type under the key
	req = req.WithContext(context.WithValue(context.Background(), ownerIDKey, 42))
	_, err = GetOwnerID(req)
	assert.Error(t, err)
}
