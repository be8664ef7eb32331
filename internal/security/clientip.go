package security

import (
	"encoding/hex"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// UnknownClient is used when the proxy did not report a client address.
const UnknownClient = "unknown"

// ClientIP returns the first address of X-Forwarded-For, as set by the
// fronting proxy, or UnknownClient.
func ClientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return UnknownClient
	}

	first, _, _ := strings.Cut(forwarded, ",")
	if ip := strings.TrimSpace(first); ip != "" {
		return ip
	}
	return UnknownClient
}

// HashIP pseudonymizes an address for logs.
func HashIP(ip string) string {
	sum := blake2b.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
