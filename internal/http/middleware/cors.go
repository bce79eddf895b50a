package middleware

import (
	"net/http"
	"strings"
)

// corsPolicy is the compiled origin allow-list for the booking API. The
// wizard frontend is served from the clinic's site, so the list is short;
// a single "*" entry opens the API to any origin (local development).
type corsPolicy struct {
	origins  map[string]bool
	wildcard bool
}

func compileCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]bool, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		switch origin = strings.TrimSpace(origin); origin {
		case "":
		case "*":
			p.wildcard = true
		default:
			p.origins[origin] = true
		}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	return origin != "" && (p.wildcard || p.origins[origin])
}

// writeHeaders echoes the origin back rather than emitting a literal "*",
// so the same policy works whether or not the frontend sends credentials.
// X-Session-Id is the wizard session header the browser must be allowed
// to send cross-origin.
func (p corsPolicy) writeHeaders(w http.ResponseWriter, origin string) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Add("Vary", "Origin")
	h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Session-Id")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	h.Set("Access-Control-Max-Age", "600")
}

// CORS restricts browser access to the configured frontend origins.
// Preflight requests are answered here and never reach the handlers.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := compileCORSPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if policy.allows(origin) {
				policy.writeHeaders(w, origin)
			}
			if isPreflight(r, origin) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request, origin string) bool {
	return r.Method == http.MethodOptions &&
		origin != "" &&
		r.Header.Get("Access-Control-Request-Method") != ""
}
