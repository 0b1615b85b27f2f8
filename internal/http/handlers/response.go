// Package handlers provides the HTTP handlers of the public API.
//
// This file defines the response helpers shared by every endpoint: the error
// envelope, plain JSON success writers, weak ETags computed from the encoded
// body, and the write-through used by idempotent POSTs.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "quiz session not found"
//	}
package handlers

import (
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/tbourn/go-movie-backend/internal/http/middleware"
)

const (
	headerReplayed = "Idempotency-Replayed"
	contentJSON    = "application/json; charset=utf-8"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
}

// fail aborts the request with a structured error. Server errors (>=500) are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// okETag writes body with a weak ETag derived from its encoding and answers
// 304 when the client already holds that representation.
func okETag(c *gin.Context, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "encode response")
		return
	}
	etag := `W/"` + strconv.FormatUint(xxhash.Sum64(raw), 16) + `"`
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, contentJSON, raw)
}

// replay serves the stored response of an idempotent request. It reports
// false when there is nothing to replay and the handler must run normally.
func (h *Handlers) replay(c *gin.Context) bool {
	key, has := middleware.GetIdempotencyKey(c)
	if !has || h.idem == nil {
		return false
	}
	rec, err := h.idem.Lookup(c.Request.Context(), userID(c), c.Request.URL.Path, key, h.now().UTC())
	if err != nil || rec == nil {
		return false
	}
	c.Header(headerReplayed, "true")
	c.Data(rec.Status, contentJSON, []byte(rec.Body))
	return true
}

// created writes body and, when the request carried an Idempotency-Key,
// records it so a retry gets the same answer. Recording is best effort.
func (h *Handlers) created(c *gin.Context, status int, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "encode response")
		return
	}
	if key, has := middleware.GetIdempotencyKey(c); has && h.idem != nil {
		if err := h.idem.Save(c.Request.Context(), userID(c), c.Request.URL.Path, key, status, raw); err != nil {
			lg := middleware.LoggerFrom(c)
			lg.Warn().Err(err).Msg("store idempotency record")
		}
	}
	c.Data(status, contentJSON, raw)
}
