// Package middleware provides HTTP middleware for authentication and request logging.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// ownerIDKey is the context key for storing the authenticated owner ID.
const ownerIDKey ContextKey = "ownerID"

// TokenValidator is an interface for validating bearer tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (OwnerIDGetter, error)
}

// OwnerIDGetter is an interface for extracting the owner ID from token claims.
type OwnerIDGetter interface {
	GetOwnerID() string
}

// AuthMiddleware creates middleware that validates bearer tokens and adds the
// owner ID to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				unauthorized(w)
				return
			}

			ownerID := claims.GetOwnerID()
			if ownerID == "" {
				unauthorized(w)
				return
			}

			ctx := WithOwnerID(r.Context(), ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken parses "Bearer <token>", accepting any casing of the scheme
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="career-diagnosis"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "認証が必要です", "code": "unauthorized"})
}

// WithOwnerID returns a context carrying the owner ID
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// GetOwnerID extracts the authenticated owner ID from the request context.
func GetOwnerID(r *http.Request) (string, error) {
	ownerID, ok := r.Context().Value(ownerIDKey).(string)
	if !ok || ownerID == "" {
		return "", fmt.Errorf("owner ID not found in request context")
	}
	return ownerID, nil
}
