package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/utils"
)

// EnforceHost rejects requests whose Host is not one of allowedHosts.
// Patterns may be "*.example.com"; ports are ignored unless the pattern
// names one. An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			patterns = append(patterns, h)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(r.Host)
			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("request with unexpected host",
				logger.String("host", r.Host),
				logger.String("path", r.URL.Path))
			writeForbidden(w)
		})
	}
}

// matchHost checks host against pattern. A pattern without a port matches
// any port.
func matchHost(host, pattern string) bool {
	if !strings.Contains(pattern, ":") {
		host = utils.StripPort(host)
	}
	if host == pattern {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	return false
}
