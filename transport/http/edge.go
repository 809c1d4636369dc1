package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/remitwise/authgate/config"
	"github.com/remitwise/authgate/ports"
)

// TestBypassHeader skips the edge layer entirely for test-harness traffic.
// Never honored in production.
const TestBypassHeader = "X-Test-Bypass"

const (
	authPathPrefix   = "/api/auth/"
	healthPathPrefix = "/api/health"
)

var (
	corsAllowedMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodDelete, http.MethodPatch, http.MethodOptions,
	}, ", ")
	corsAllowedHeaders = strings.Join([]string{
		"Content-Type", "Authorization", "X-Requested-With",
	}, ", ")
)

var securityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"X-XSS-Protection":       "1; mode=block", // legacy, defense in depth
}

// EdgeMiddleware enforces transport-level policy on every API request,
// before and independent of authentication: CORS, security headers,
// body-size limits and per-IP rate limiting.
func EdgeMiddleware(cfg *config.Config, limiter ports.RateLimiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if !cfg.Production && c.GetHeader(TestBypassHeader) == "true" {
			c.Next()
			return
		}
		if strings.HasPrefix(path, healthPathPrefix) {
			c.Next()
			return
		}

		applyCORS(c, cfg.AppURL)
		applySecurityHeaders(c)

		// Preflight carries only the CORS and security headers, no body.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if !checkBodySize(c, cfg.MaxBodySize) {
			return
		}

		class, limit := classifyRoute(c, cfg.RateLimits)
		key := c.ClientIP() + ":" + class

		allowed, remaining, reset := limiter.Allow(key, limit)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			rateLimited.WithLabelValues(class).Inc()
			log.Debug().Str("ip", c.ClientIP()).Str("class", class).Msg("rate limit exceeded")

			retryAfter := int(time.Until(reset).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			writeError(c, http.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded.")
			return
		}

		c.Next()
	}
}

// applyCORS compares the request origin against the single configured
// allowed origin. Requests without an Origin header (same-origin, curl) get
// the configured origin echoed back.
func applyCORS(c *gin.Context, allowedOrigin string) {
	origin := c.GetHeader("Origin")
	if origin == "" || origin == allowedOrigin {
		if origin == "" {
			origin = allowedOrigin
		}
		c.Header("Access-Control-Allow-Origin", origin)
	}

	c.Header("Access-Control-Allow-Credentials", "true")
	c.Header("Access-Control-Allow-Methods", corsAllowedMethods)
	c.Header("Access-Control-Allow-Headers", corsAllowedHeaders)
	c.Header("Vary", "Origin")
}

func applySecurityHeaders(c *gin.Context) {
	for key, value := range securityHeaders {
		c.Header(key, value)
	}
}

// checkBodySize rejects oversized POST/PUT/PATCH bodies with 413. The
// Content-Length header is checked first; when it is absent the body is
// read and measured, then restored for the handler. A body that cannot be
// read falls through to the handler.
func checkBodySize(c *gin.Context, maxSize int64) bool {
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return true
	}

	if c.Request.ContentLength > maxSize {
		rejectOversized(c, maxSize)
		return false
	}
	if c.Request.ContentLength >= 0 {
		return true
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSize+1))
	if err != nil {
		return true
	}
	if int64(len(body)) > maxSize {
		rejectOversized(c, maxSize)
		return false
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return true
}

func rejectOversized(c *gin.Context, maxSize int64) {
	writeError(c, http.StatusRequestEntityTooLarge, "Payload Too Large",
		fmt.Sprintf("Request body exceeds maximum size of %d bytes.", maxSize))
}

// classifyRoute picks the rate-limit class: the auth namespace gets the
// tightest ceiling, mutating methods a medium one, everything else the
// loosest.
func classifyRoute(c *gin.Context, limits config.RateLimits) (string, int) {
	if strings.HasPrefix(c.Request.URL.Path, authPathPrefix) {
		return "auth", limits.Auth
	}
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return "write", limits.Write
	}
	return "general", limits.General
}
