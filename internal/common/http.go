package common

import (
	"net"
	"net/http"
)

// ClientIP returns the host part of the request's remote address. Routers run
// chi's RealIP middleware first, so proxy headers are already applied.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
