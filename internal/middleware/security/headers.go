// Package security sets response hardening headers and screens probing
// traffic.
package security

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Directive is one Content-Security-Policy directive and its sources.
type Directive struct {
	Name    string
	Sources []string
}

// HSTS describes the Strict-Transport-Security header; a zero MaxAge
// disables it.
type HSTS struct {
	MaxAge            time.Duration
	IncludeSubdomains bool
	Preload           bool
}

func (h HSTS) value() string {
	if h.MaxAge <= 0 {
		return ""
	}
	v := fmt.Sprintf("max-age=%d", int64(h.MaxAge/time.Second))
	if h.IncludeSubdomains {
		v += "; includeSubDomains"
	}
	if h.Preload {
		v += "; preload"
	}
	return v
}

// HeadersConfig lists the headers sent with every response. Empty values
// are left out.
type HeadersConfig struct {
	CSP               []Directive
	HSTS              HSTS
	FrameOptions      string
	ReferrerPolicy    string
	PermissionsPolicy string
	OpenerPolicy      string
}

// DefaultHeadersConfig allows the htmx, Chart.js and Font Awesome CDNs the
// pages load from. Cross-origin embedding isolation stays off since those
// CDNs do not send CORP headers.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP: []Directive{
			{"default-src", []string{"'self'"}},
			{"script-src", []string{"'self'", "https://unpkg.com", "https://cdn.jsdelivr.net"}},
			{"style-src", []string{"'self'", "'unsafe-inline'", "https://cdnjs.cloudflare.com"}},
			{"img-src", []string{"'self'", "data:"}},
			{"connect-src", []string{"'self'"}},
			{"font-src", []string{"'self'", "https://cdnjs.cloudflare.com"}},
			{"object-src", []string{"'none'"}},
			{"frame-ancestors", []string{"'none'"}},
			{"base-uri", []string{"'self'"}},
			{"form-action", []string{"'self'"}},
		},
		HSTS:              HSTS{MaxAge: 365 * 24 * time.Hour, IncludeSubdomains: true},
		FrameOptions:      "DENY",
		ReferrerPolicy:    "strict-origin-when-cross-origin",
		PermissionsPolicy: "geolocation=(), microphone=(), camera=(), payment=()",
		OpenerPolicy:      "same-origin",
	}
}

func policy(directives []Directive) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, d.Name+" "+strings.Join(d.Sources, " "))
	}
	return strings.Join(parts, "; ")
}

// HeadersMiddleware applies a fixed header set, computed once.
type HeadersMiddleware struct {
	static http.Header
	hsts   string
}

func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	static := http.Header{}
	static.Set("X-Content-Type-Options", "nosniff")
	for name, value := range map[string]string{
		"Content-Security-Policy":    policy(config.CSP),
		"X-Frame-Options":            config.FrameOptions,
		"Referrer-Policy":            config.ReferrerPolicy,
		"Permissions-Policy":         config.PermissionsPolicy,
		"Cross-Origin-Opener-Policy": config.OpenerPolicy,
	} {
		if value != "" {
			static.Set(name, value)
		}
	}
	return &HeadersMiddleware{static: static, hsts: config.HSTS.value()}
}

func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		for name, values := range h.static {
			headers[name] = values
		}
		// HSTS only makes sense over TLS.
		if r.TLS != nil && h.hsts != "" {
			headers.Set("Strict-Transport-Security", h.hsts)
		}
		next.ServeHTTP(w, r)
	})
}

// StaticAssetMiddleware marks embedded assets cacheable for maxAge.
func StaticAssetMiddleware(maxAge time.Duration) func(http.Handler) http.Handler {
	cacheControl := fmt.Sprintf("public, max-age=%d", int64(maxAge/time.Second))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", cacheControl)
			}
			next.ServeHTTP(w, r)
		})
	}
}
