package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type lookupCall struct {
	user, scope, key string
	now              time.Time
}

// idemRouter records what the handler saw for each request.
func idemRouter(opts IdempotencyOptions, lookup IdempotencyLookup) (*gin.Engine, *map[string]any) {
	gin.SetMode(gin.TestMode)
	seen := map[string]any{}
	r := gin.New()
	r.Use(RequestID(), Identity(), IdempotencyValidator(opts, lookup))
	h := func(c *gin.Context) {
		k, ok := GetIdempotencyKey(c)
		seen["key"], seen["has"] = k, ok
		seen["replay"], seen["bypass"] = IsReplay(c), IsRateBypass(c)
		c.Status(http.StatusOK)
	}
	r.POST("/movies/:movieId/reviews", h)
	r.DELETE("/friends/:friendId", h)
	r.GET("/watchlist", h)
	return r, &seen
}

func TestIdempotencyValidator_Accepts(t *testing.T) {
	var calls []lookupCall
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	lookup := func(_ context.Context, user, scope, key string, now time.Time) (bool, error) {
		calls = append(calls, lookupCall{user, scope, key, now})
		return key == "seen", nil
	}
	r, seen := idemRouter(IdempotencyOptions{Now: func() time.Time { return fixed }}, lookup)

	w := serve(r, http.MethodPost, "/movies/42/reviews", HeaderIdempotencyKey, " fresh-1 ", "X-User-ID", "u9")
	if w.Code != http.StatusOK || (*seen)["key"] != "fresh-1" || (*seen)["replay"] != false {
		t.Fatalf("fresh key: %d %v", w.Code, *seen)
	}
	if len(calls) != 1 || calls[0] != (lookupCall{"u9", "/movies/42/reviews", "fresh-1", fixed.UTC()}) {
		t.Fatalf("lookup args = %+v", calls)
	}

	serve(r, http.MethodDelete, "/friends/7", HeaderIdempotencyKey, "seen")
	if (*seen)["replay"] != true || (*seen)["bypass"] != true {
		t.Fatalf("stored key should replay: %v", *seen)
	}
	if calls[1].user != "demo-user" {
		t.Fatalf("anonymous caller = %q", calls[1].user)
	}
}

func TestIdempotencyValidator_Ignores(t *testing.T) {
	called := false
	lookup := func(context.Context, string, string, string, time.Time) (bool, error) {
		called = true
		return true, nil
	}
	r, seen := idemRouter(IdempotencyOptions{}, lookup)

	serve(r, http.MethodPost, "/movies/1/reviews")
	if (*seen)["has"] != false || called {
		t.Fatalf("no header: %v called=%v", *seen, called)
	}
	serve(r, http.MethodGet, "/watchlist", HeaderIdempotencyKey, "k1")
	if (*seen)["has"] != false || called {
		t.Fatalf("reads must ignore keys: %v called=%v", *seen, called)
	}
}

func TestIdempotencyValidator_LookupErrorIsAMiss(t *testing.T) {
	r, seen := idemRouter(IdempotencyOptions{}, func(context.Context, string, string, string, time.Time) (bool, error) {
		return true, errors.New("db closed")
	})
	if w := serve(r, http.MethodPost, "/movies/1/reviews", HeaderIdempotencyKey, "k1"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if (*seen)["replay"] != false || (*seen)["has"] != true {
		t.Fatalf("seen = %v", *seen)
	}
}

func TestIdempotencyValidator_Rejects(t *testing.T) {
	cases := map[string]struct {
		opts IdempotencyOptions
		key  string
	}{
		"too long":         {IdempotencyOptions{MaxLen: 5}, "abcdef"},
		"default max":      {IdempotencyOptions{}, strings.Repeat("k", 201)},
		"default alphabet": {IdempotencyOptions{}, "has space/slash"},
		"custom pattern":   {IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9]+$`)}, "abc123"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, _ := idemRouter(tc.opts, nil)
			w := serve(r, http.MethodPost, "/movies/1/reviews", HeaderIdempotencyKey, tc.key, "X-Request-ID", "rid-1")
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if w.Code != http.StatusBadRequest || body["code"] != "bad_idempotency_key" || body["request_id"] != "rid-1" {
				t.Fatalf("got %d %v", w.Code, body)
			}
		})
	}
}

func TestGetIdempotencyKey_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if k, ok := GetIdempotencyKey(c); ok || k != "" {
		t.Fatalf("unexpected key %q", k)
	}
	if IsReplay(c) || IsRateBypass(c) {
		t.Fatalf("flags set on a bare context")
	}
}
