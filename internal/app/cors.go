package app

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
)

// corsConfig allows every origin when none are configured; otherwise only
// origins whose host matches one of the patterns.
func corsConfig(patterns []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(patterns) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	hosts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
		hosts = append(hosts, extractOriginHost(p))
	}
	cfg.AllowCredentials = true
	cfg.AllowOriginFunc = func(origin string) bool {
		host := extractOriginHost(origin)
		for _, pattern := range hosts {
			if matchOriginPattern(pattern, host) {
				return true
			}
		}
		return false
	}
	return cfg
}

// extractOriginHost returns the "host[:port]" portion of an origin URL.
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOriginPattern supports exact hosts, "*.example.org" and "host:*".
func matchOriginPattern(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
