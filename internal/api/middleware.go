package api

import (
	"net"
	"net/http"
	"time"

	"github.com/fwguard/fwguard/internal/log"
)

// Logger middleware logs all HTTP requests.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Infof("%s %s - %d (%v)", r.Method, r.URL.Path, wrapped.statusCode, duration)
	})
}

// Recovery middleware recovers from panics and returns a 500 error.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("Panic recovered: %v", err)
				WriteInternalError(w, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// PrivateSubnetOnly middleware restricts access to clients on private
// subnets. This allows the server to bind to 0.0.0.0 while still restricting
// access. Only the TCP peer address is consulted; forwarding headers such as
// X-Forwarded-For are ignored.
func PrivateSubnetOnly(next http.Handler) http.Handler {
	privateIPBlocks := []*net.IPNet{
		{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(8, 32)},     // 10.0.0.0/8
		{IP: net.IPv4(172, 16, 0, 0), Mask: net.CIDRMask(12, 32)},  // 172.16.0.0/12
		{IP: net.IPv4(192, 168, 0, 0), Mask: net.CIDRMask(16, 32)}, // 192.168.0.0/16
		{IP: net.IPv4(127, 0, 0, 0), Mask: net.CIDRMask(8, 32)},    // 127.0.0.0/8 (localhost)
	}

	_, ipv6ULA, _ := net.ParseCIDR("fc00::/7")        // IPv6 Unique Local Address
	_, ipv6LinkLocal, _ := net.ParseCIDR("fe80::/10") // IPv6 Link-Local
	_, ipv6Loopback, _ := net.ParseCIDR("::1/128")    // IPv6 Loopback

	privateIPBlocks = append(privateIPBlocks, ipv6ULA, ipv6LinkLocal, ipv6Loopback)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		ip := net.ParseIP(host)
		if ip == nil {
			log.Warnf("Invalid client address: %s", r.RemoteAddr)
			WriteForbidden(w, "Access denied")
			return
		}

		isPrivate := false
		for _, block := range privateIPBlocks {
			if block != nil && block.Contains(ip) {
				isPrivate = true
				break
			}
		}

		if !isPrivate {
			log.Warnf("Access denied from non-private IP: %s", ip)
			WriteForbidden(w, "Access denied: only private networks are allowed")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
