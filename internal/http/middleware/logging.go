// Package middleware contains the Gin middleware shared by the movie API.
//
// This file covers request correlation, caller identity and panic recovery:
//
//   - RequestID() reuses a sane incoming X-Request-ID or mints a UUID.
//   - Identity() resolves the caller id every user namespace is keyed by.
//   - Recovery() turns panics into the JSON error envelope.
//   - LoggerFrom() returns the request-scoped logger that RedactingLogger
//     attaches (e.g. lg.Info().Int64("movie_id", id).Msg("…")).
//
// Install them as RequestID, Identity, RedactingLogger, Recovery so panics
// and access logs carry both ids.
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	userIDKey       = "userID"
	userIDHeader    = "X-User-ID"
	loggerKey       = "logger"

	maxRequestIDLen = 128
	maxUserIDLen    = 128
	// maxQueryLogLength caps the bytes of the raw query string logged.
	maxQueryLogLength = 2048
)

// RequestID attaches a correlation id to every request.
//
// An incoming X-Request-ID is reused when it is at most 128 printable
// characters; anything else is replaced by a fresh UUIDv4. The id is echoed in
// the response header and stored in the Gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if !printable(rid, maxRequestIDLen) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Identity resolves the calling user.
//
// A "userID" already placed in the context by an auth layer wins. Otherwise
// the X-User-ID header is used; a header that is too long, carries control
// characters or contains the key separator ':' is rejected with 400
// bad_user_id. Requests without either fall
// through and the handlers use their anonymous default.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get(userIDKey); ok {
			if s, _ := v.(string); s != "" {
				c.Next()
				return
			}
		}
		uid := strings.TrimSpace(c.GetHeader(userIDHeader))
		if uid == "" {
			c.Next()
			return
		}
		if !printable(uid, maxUserIDLen) || strings.Contains(uid, ":") {
			abortJSON(c, http.StatusBadRequest, "bad_user_id", "invalid X-User-ID")
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// Recovery converts panics into a JSON 500 carrying the request id and logs
// the panic with its stack on the request-scoped logger.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			abortJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when no
// access-log middleware ran. The result is never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if c != nil {
		if v, ok := c.Get(loggerKey); ok {
			if lg, ok := v.(*zerolog.Logger); ok {
				return lg
			}
		}
	}
	l := log.With().Logger()
	return &l
}

// RequestIDFrom returns the correlation id set by RequestID, falling back to
// the response header.
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return c.Writer.Header().Get(requestIDHeader)
}

// userIDFromCtx resolves the caller the same way the handlers do: the
// context value, then the X-User-ID header, then "demo-user".
func userIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(userIDHeader)); h != "" {
			return h
		}
	}
	return "demo-user"
}

// abortJSON stops the chain with the API error envelope.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       code,
		"message":    msg,
	})
}

// printable reports whether s is non-empty, at most max bytes and free of
// non-printable runes.
func printable(s string, max int) bool {
	if s == "" || len(s) > max {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsPrint(r) }) < 0
}

// truncate caps s at max bytes, appending an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
