package middleware

import (
	"net/http"
	"strings"
)

// corsPolicy is the set of site origins allowed to call the API from a
// browser. Origins are compared without a trailing slash.
type corsPolicy struct {
	anyOrigin bool
	origins   map[string]bool
}

func newCORSPolicy(origins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]bool, len(origins))}
	for _, o := range origins {
		switch o = strings.TrimRight(strings.TrimSpace(o), "/"); o {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[o] = true
		}
	}
	return p
}

func (p corsPolicy) permits(origin string) bool {
	if origin == "" {
		return false
	}
	return p.anyOrigin || p.origins[origin]
}

// writeHeaders grants the browser access. Retry-After is exposed so the
// form can tell a rate-limited visitor when to try again.
func (p corsPolicy) writeHeaders(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Origin", origin)
	h.Add("Vary", "Origin")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	h.Set("Access-Control-Expose-Headers", "Retry-After, X-Request-ID")
	h.Set("Access-Control-Max-Age", "600")
}

// CORS answers preflights from permitted origins itself. Requests from any
// other origin reach the router untouched and the browser blocks the reply.
// "*" permits every origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if !policy.permits(origin) {
				next.ServeHTTP(w, r)
				return
			}

			policy.writeHeaders(w.Header(), origin)
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
