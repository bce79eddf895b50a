package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signAdminToken(t *testing.T, secret string, mutate func(*jwt.RegisteredClaims)) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "clinic-admin",
		Audience:  jwt.ClaimStrings{AdminAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	if mutate != nil {
		mutate(&claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAdminJWT(t *testing.T, secret, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	called := false
	AdminJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := AdminClaimsFromContext(r.Context())
		if !ok {
			t.Error("expected admin claims in context")
		} else if claims.Subject != "clinic-admin" {
			t.Errorf("unexpected subject %q", claims.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec, called
}

func TestAdminJWTMissingSecret(t *testing.T) {
	rec, called := runAdminJWT(t, "", "Bearer "+signAdminToken(t, "secret", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without secret, got %d (called=%v)", rec.Code, called)
	}
}

func TestAdminJWTMissingHeader(t *testing.T) {
	rec, called := runAdminJWT(t, "secret", "")
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without header, got %d (called=%v)", rec.Code, called)
	}
}

func TestAdminJWTWrongSecret(t *testing.T) {
	rec, called := runAdminJWT(t, "secret", "Bearer "+signAdminToken(t, "wrong", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 for forged token, got %d (called=%v)", rec.Code, called)
	}
}

func TestAdminJWTWrongAudience(t *testing.T) {
	token := signAdminToken(t, "secret", func(c *jwt.RegisteredClaims) {
		c.Audience = jwt.ClaimStrings{"some-other-service"}
	})
	rec, called := runAdminJWT(t, "secret", "Bearer "+token)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 for wrong audience, got %d (called=%v)", rec.Code, called)
	}
}

func TestAdminJWTExpiryRequired(t *testing.T) {
	token := signAdminToken(t, "secret", func(c *jwt.RegisteredClaims) {
		c.ExpiresAt = nil
	})
	rec, called := runAdminJWT(t, "secret", "Bearer "+token)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 for token without expiry, got %d (called=%v)", rec.Code, called)
	}
}

func TestAdminJWTExpiredToken(t *testing.T) {
	token := signAdminToken(t, "secret", func(c *jwt.RegisteredClaims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	})
	rec, called := runAdminJWT(t, "secret", "Bearer "+token)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 for expired token, got %d (called=%v)", rec.Code, called)
	}
}

func TestAdminJWTValidToken(t *testing.T) {
	rec, called := runAdminJWT(t, "secret", "Bearer "+signAdminToken(t, "secret", nil))
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected handler to run, got %d (called=%v)", rec.Code, called)
	}
}
