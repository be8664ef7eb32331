package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeaders sets the hardening headers the landing page is served with.
// formOrigin is the marketing form host allowed in script, frame and connect
// sources.
func SecurityHeaders(formOrigin string) func(http.Handler) http.Handler {
	headers := map[string]string{
		"Strict-Transport-Security": "max-age=63072000; includeSubDomains; preload",
		"X-Frame-Options":           "DENY",
		"X-Content-Type-Options":    "nosniff",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Permissions-Policy":        "camera=(), microphone=(), geolocation=(), payment=()",
		"X-DNS-Prefetch-Control":    "on",
		"Content-Security-Policy":   contentSecurityPolicy(formOrigin),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range headers {
				h.Set(k, v)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contentSecurityPolicy(formOrigin string) string {
	formOrigin = strings.TrimSuffix(strings.TrimSpace(formOrigin), "/")
	extra := ""
	if formOrigin != "" {
		extra = " " + formOrigin
	}

	directives := []string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline'" + extra,
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https:",
		"font-src 'self' data:",
		"connect-src 'self'" + extra,
		"frame-src" + extra,
		"frame-ancestors 'none'",
		"form-action 'self'" + extra,
		"base-uri 'self'",
		"object-src 'none'",
	}
	if extra == "" {
		directives[6] = "frame-src 'none'"
	}
	return strings.Join(directives, "; ")
}
