package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/quillhq/quill/internal/service"
)

type contextKeyAuth string

// PrincipalKey is the context key for the authenticated principal.
const PrincipalKey contextKeyAuth = "principal"

// Principal is the authenticated identity making the request. There is a
// single admin identity system-wide, so the subject is all it carries.
type Principal struct {
	Subject string
}

// RequireAuth returns a middleware that validates the Authorization bearer
// token and rejects the request with a 401 when the token is absent, expired,
// tampered, or malformed. The response message never says which.
func RequireAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, "Not authenticated")
				return
			}
			subject, err := auth.ValidateToken(token)
			if err != nil {
				writeAuthError(w, "Not authenticated")
				return
			}
			ctx := context.WithValue(r.Context(), PrincipalKey, &Principal{Subject: subject})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns a middleware that attaches a Principal when a valid
// bearer token is present and otherwise lets the request through as
// anonymous. It never rejects: a missing or invalid token simply yields no
// identity. Used by routes that serve both public and privileged views.
func OptionalAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if subject, err := auth.ValidateToken(token); err == nil {
					ctx := context.WithValue(r.Context(), PrincipalKey, &Principal{Subject: subject})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetPrincipal extracts the authenticated principal from the context.
// Returns nil for anonymous requests.
func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	// Manually construct JSON to avoid import cycle with handler package
	w.Write([]byte(`{"error":{"code":` + strconv.Itoa(http.StatusUnauthorized) +
		`,"message":"` + message + `"}}`))
}
