package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/http/middleware"
)

// memIdem keeps idempotency records in a map keyed by user|scope|key.
type memIdem struct {
	recs    map[string]domain.Idempotency
	saveErr error
}

func (m *memIdem) Lookup(_ context.Context, userID, scope, key string, _ time.Time) (*domain.Idempotency, error) {
	rec, ok := m.recs[userID+"|"+scope+"|"+key]
	if !ok {
		return nil, errors.New("not found")
	}
	return &rec, nil
}

func (m *memIdem) Save(_ context.Context, userID, scope, key string, status int, body []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.recs[userID+"|"+scope+"|"+key] = domain.Idempotency{UserID: userID, Scope: scope, Key: key, Status: status, Body: string(body)}
	return nil
}

func serveOnce(r *gin.Engine, method, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_fail_ServerErrorIsLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	lg := zerolog.New(&buf)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &lg)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) { fail(c, http.StatusBadGateway, ErrCodeUpstream, "tmdb down") })
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "no such session") })

	w := serveOnce(r, http.MethodGet, "/boom")
	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusBadGateway || resp.RequestID != "rid-500" || resp.Code != ErrCodeUpstream {
		t.Fatalf("unexpected: %d %+v", w.Code, resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), "tmdb down") {
		t.Fatalf("5xx not logged: %s", buf.String())
	}

	buf.Reset()
	w = serveOnce(r, http.MethodGet, "/missing")
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusNotFound || resp.Message != "no such session" {
		t.Fatalf("unexpected: %d %+v", w.Code, resp)
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx must not be logged: %s", buf.String())
	}
}

func Test_okETag_RevalidatesUnchangedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := []domain.Movie{{ID: 27205, Title: "Inception"}}
	r := gin.New()
	r.GET("/watchlist", func(c *gin.Context) { okETag(c, body) })
	r.DELETE("/watchlist", func(c *gin.Context) { noContent(c) })

	w := serveOnce(r, http.MethodGet, "/watchlist")
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || !strings.HasPrefix(etag, `W/"`) || w.Header().Get("Content-Type") != contentJSON {
		t.Fatalf("first GET: %d etag=%q", w.Code, etag)
	}

	w = serveOnce(r, http.MethodGet, "/watchlist", "If-None-Match", etag)
	if w.Code != http.StatusNotModified || w.Body.Len() != 0 {
		t.Fatalf("revalidation: %d len=%d", w.Code, w.Body.Len())
	}

	body = append(body, domain.Movie{ID: 155, Title: "The Dark Knight"})
	w = serveOnce(r, http.MethodGet, "/watchlist", "If-None-Match", etag)
	if w.Code != http.StatusOK || w.Header().Get("ETag") == etag {
		t.Fatalf("changed body must yield a new ETag: %d", w.Code)
	}

	if w := serveOnce(r, http.MethodDelete, "/watchlist"); w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("noContent: %d", w.Code)
	}
}

func Test_created_RecordsAndReplays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &memIdem{recs: map[string]domain.Idempotency{}}
	h := &Handlers{idem: store, now: time.Now}

	calls := 0
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, nil))
	r.POST("/movies/7/reviews", func(c *gin.Context) {
		if h.replay(c) {
			return
		}
		calls++
		h.created(c, http.StatusCreated, gin.H{"id": calls})
	})

	w := serveOnce(r, http.MethodPost, "/movies/7/reviews", "X-User-ID", "u1", middleware.HeaderIdempotencyKey, "k1")
	if w.Code != http.StatusCreated || w.Header().Get(headerReplayed) != "" {
		t.Fatalf("first: %d", w.Code)
	}
	first := w.Body.String()

	w = serveOnce(r, http.MethodPost, "/movies/7/reviews", "X-User-ID", "u1", middleware.HeaderIdempotencyKey, "k1")
	if w.Code != http.StatusCreated || w.Header().Get(headerReplayed) != "true" || w.Body.String() != first {
		t.Fatalf("replay: %d %q %s", w.Code, w.Header().Get(headerReplayed), w.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}

	// Keys are scoped per user.
	w = serveOnce(r, http.MethodPost, "/movies/7/reviews", "X-User-ID", "u2", middleware.HeaderIdempotencyKey, "k1")
	if w.Header().Get(headerReplayed) != "" || calls != 2 {
		t.Fatalf("u2 got u1's replay")
	}

	// Without a key nothing is stored.
	serveOnce(r, http.MethodPost, "/movies/7/reviews", "X-User-ID", "u1")
	if len(store.recs) != 2 {
		t.Fatalf("records = %d", len(store.recs))
	}
}

func Test_created_SaveFailureStillResponds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handlers{idem: &memIdem{recs: map[string]domain.Idempotency{}, saveErr: errors.New("disk full")}, now: time.Now}
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, nil))
	r.POST("/shares", func(c *gin.Context) { h.created(c, http.StatusCreated, gin.H{"ok": true}) })

	w := serveOnce(r, http.MethodPost, "/shares", middleware.HeaderIdempotencyKey, "k1")
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected: %d %s", w.Code, w.Body.String())
	}
}
