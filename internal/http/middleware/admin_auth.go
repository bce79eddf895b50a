package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AdminAudience is the audience claim every dashboard token must carry.
// The platform serves a single clinic, so there is no tenant claim; one
// shared secret and this audience are the whole trust model.
const AdminAudience = "wellvitas-admin"

type adminClaimsKey struct{}

var errAdminAuth = errors.New("middleware: admin token rejected")

// AdminJWT guards the bookings dashboard. Tokens are HS256-signed with
// ADMIN_JWT_SECRET, must not be expired and must be scoped to
// AdminAudience.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseAdminToken(secret, r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseAdminToken(secret, header string) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	if secret == "" {
		// No secret means the admin surface is disabled, never open.
		return claims, errAdminAuth
	}
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return claims, errAdminAuth
	}

	token, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(AdminAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return jwt.RegisteredClaims{}, errAdminAuth
	}
	return claims, nil
}

// AdminClaimsFromContext returns the verified dashboard token claims.
func AdminClaimsFromContext(ctx context.Context) (jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey{}).(jwt.RegisteredClaims)
	return claims, ok
}
