package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RedactOptions tunes RedactingLogger.
type RedactOptions struct {
	// MaskHeaders are extra request headers whose values are replaced with
	// "[REDACTED]". Authorization, Cookie and Set-Cookie are always masked.
	MaskHeaders []string
	// MaskQuery are query parameter names whose values are replaced with
	// "[REDACTED]" (e.g. api_key).
	MaskQuery []string
	// QuietPaths are routes whose successful requests are logged at debug
	// level, such as /health and /metrics.
	QuietPaths []string
}

var (
	// UUIDs go first so the phone pattern cannot eat their digit groups.
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

type redactor struct {
	headers map[string]struct{}
	query   map[string]struct{}
	quiet   map[string]struct{}
}

func newRedactor(opts RedactOptions) redactor {
	r := redactor{
		headers: set("authorization", "cookie", "set-cookie"),
		query:   set(),
		quiet:   set(),
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			r.headers[h] = struct{}{}
		}
	}
	for _, q := range opts.MaskQuery {
		if q = strings.TrimSpace(q); q != "" {
			r.query[q] = struct{}{}
		}
	}
	for _, p := range opts.QuietPaths {
		r.quiet[p] = struct{}{}
	}
	return r
}

// scrub replaces identifiers that look like personal data.
func (r redactor) scrub(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// scrubQuery masks configured parameters and scrubs the rest. Unparseable
// queries are scrubbed as plain text.
func (r redactor) scrubQuery(raw string) string {
	if raw == "" {
		return ""
	}
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return r.scrub(truncate(raw, maxQueryLogLength))
	}
	for k, vv := range vals {
		_, masked := r.query[k]
		for i := range vv {
			if masked {
				vv[i] = "[REDACTED]"
			} else {
				vv[i] = r.scrub(vv[i])
			}
		}
	}
	return truncate(vals.Encode(), maxQueryLogLength)
}

func (r redactor) scrubHeaders(h map[string][]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.headers[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = r.scrub(strings.Join(vv, ", "))
	}
	return out
}

// RedactingLogger is the access log. It attaches a request-scoped logger
// (request id, user id, method, route and the request's trace context) for
// LoggerFrom, then logs one line per request with PII scrubbed from the
// query string and headers. Bodies are never logged.
//
// Level: error for 5xx or gin errors, warn for 4xx, info otherwise, and debug
// for successful requests on QuietPaths.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	rd := newRedactor(opts)

	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		scoped := log.With().
			Ctx(c.Request.Context()).
			Str("request_id", RequestIDFrom(c)).
			Str("user_id", userIDFromCtx(c)).
			Str("method", c.Request.Method).
			Str("route", route).
			Logger()
		c.Set(loggerKey, &scoped)

		query := rd.scrubQuery(c.Request.URL.RawQuery)
		headers := rd.scrubHeaders(c.Request.Header)

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case len(c.Errors) > 0:
			ev = scoped.Error().Str("errors", c.Errors.String())
		case status >= 500:
			ev = scoped.Error()
		case status >= 400:
			ev = scoped.Warn()
		default:
			if _, quiet := rd.quiet[route]; quiet {
				ev = scoped.Debug()
			} else {
				ev = scoped.Info()
			}
		}
		ev.
			Str("path", rd.scrub(c.Request.URL.Path)).
			Str("query", query).
			Str("remote_ip", c.ClientIP()).
			Int("status", status).
			Int64("bytes_in", c.Request.ContentLength).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

func set(vals ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}
