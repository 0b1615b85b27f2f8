package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// clock is a settable time source.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// readOnlyStore serves reads from an in-memory store and fails every write.
type readOnlyStore struct{ *repo.MemoryStore }

var errReadOnly = errors.New("read-only")

func (readOnlyStore) Put(context.Context, string, []byte) error { return errReadOnly }
func (readOnlyStore) Delete(context.Context, string) error      { return errReadOnly }

func movie(id int64, title, category, language string, rating float64) domain.Movie {
	return domain.Movie{ID: id, Title: title, Category: category, Language: language, Rating: rating}
}

// drain returns the topics buffered on sub without blocking.
func drain(sub *events.Subscription) []string {
	var out []string
	for {
		select {
		case e, ok := <-sub.C():
			if !ok {
				return out
			}
			out = append(out, e.Topic)
		default:
			return out
		}
	}
}

func assertTopics(t *testing.T, sub *events.Subscription, want ...string) {
	t.Helper()
	got := drain(sub)
	if len(got) != len(want) {
		t.Fatalf("topics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topics = %v, want %v", got, want)
		}
	}
}

// failingKeys fails writes to keys ending in one of the given names and
// passes everything else to the in-memory store.
type failingKeys struct {
	*repo.MemoryStore
	names []string
}

func (f failingKeys) Put(ctx context.Context, key string, v []byte) error {
	for _, n := range f.names {
		if strings.HasSuffix(key, n) {
			return errReadOnly
		}
	}
	return f.MemoryStore.Put(ctx, key, v)
}
