// Package security holds the request checks that run before a submission is
// read: the cross-origin guard and client address resolution.
package security

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/latampartners/landing/internal/logging"
)

// Rejection messages returned to the caller by CheckOrigin.
const (
	ErrMissingHost   = "Missing host header"
	ErrCrossOrigin   = "Cross-origin request blocked"
	ErrInvalidOrigin = "Invalid origin header"
)

// CheckOrigin blocks state-changing requests issued by a page on another
// origin. It returns an empty string when the request is safe.
//
// Requests without an Origin header are allowed: they cannot carry ambient
// browser credentials.
func CheckOrigin(r *http.Request) string {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return ""
	}

	host := r.Host
	if host == "" {
		return ErrMissingHost
	}

	originHost, ok := normalizeOriginHost(origin)
	if !ok {
		return ErrInvalidOrigin
	}

	if originHost != host {
		logging.FromContext(r.Context()).Warn("cross-origin submission blocked", "origin", origin, "host", host)
		return ErrCrossOrigin
	}

	return ""
}

// specialSchemes require a host; a browser URL parser rejects them without one.
var specialSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "ftp": true,
}

// normalizeOriginHost returns the host[:port] of an origin the way a browser
// URL parser reports it: lower-cased, default ports elided. A value with a
// non-special scheme and no authority, such as "app.example.com:443", parses
// with an empty host and so never matches.
func normalizeOriginHost(origin string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Scheme == "" {
		return "", false
	}
	if u.Host == "" {
		return "", !specialSchemes[u.Scheme]
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return "", false
	}
	if strings.Contains(hostname, ":") {
		hostname = "[" + hostname + "]"
	}

	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port == "" {
		return hostname, true
	}
	return hostname + ":" + port, true
}
