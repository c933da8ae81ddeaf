package middleware

import (
	"net/http"
	"strings"
)

// DefaultAllowedOrigins are the front-end deployments that call the API.
var DefaultAllowedOrigins = []string{
	"https://mediscribe-git-main-bhargavyagniks-projects.vercel.app",
	"http://localhost:3000",
	"https://mediscribe-alpha.vercel.app",
	"https://*.bhargavyagnik.com",
	"https://mediscribe-v92j.vercel.app",
}

// CORS provides an allowlist-based CORS middleware with credentials.
// Entries may be exact origins, "*", or a scheme plus "*." host suffix
// ("https://*.example.com"). A trailing "/*" on an entry is ignored.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newOriginPolicy(allowedOrigins)

	allowedMethods := "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	defaultHeaders := "Authorization, Content-Type, X-Request-ID"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" && policy.allows(origin) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", allowedMethods)
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					h.Set("Access-Control-Allow-Headers", requested)
				} else {
					h.Set("Access-Control-Allow-Headers", defaultHeaders)
				}
				h.Set("Access-Control-Max-Age", "600")
			}

			// Handle preflight requests.
			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type wildcardOrigin struct {
	scheme string
	suffix string
}

type originPolicy struct {
	any       bool
	exact     map[string]struct{}
	wildcards []wildcardOrigin
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{exact: map[string]struct{}{}}
	for _, origin := range origins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/*")
		origin = strings.TrimRight(origin, "/")
		switch {
		case origin == "":
		case origin == "*":
			p.any = true
		case strings.Contains(origin, "://*."):
			scheme, host, _ := strings.Cut(origin, "://*")
			p.wildcards = append(p.wildcards, wildcardOrigin{scheme: scheme, suffix: strings.ToLower(host)})
		default:
			p.exact[strings.ToLower(origin)] = struct{}{}
		}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if p.any {
		return true
	}
	origin = strings.ToLower(origin)
	if _, ok := p.exact[origin]; ok {
		return true
	}
	scheme, host, ok := strings.Cut(origin, "://")
	if !ok {
		return false
	}
	for _, w := range p.wildcards {
		// suffix keeps its leading dot, so the bare apex never matches.
		if scheme == w.scheme && strings.HasSuffix(host, w.suffix) && len(host) > len(w.suffix) {
			return true
		}
	}
	return false
}
