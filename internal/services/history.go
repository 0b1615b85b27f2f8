package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

const historyTracer = "services/HistoryService"

// DefaultHistoryLimit caps the watch history.
const DefaultHistoryLimit = 50

// HistoryService records the movies a user opened, most recent first, one
// entry per movie.
type HistoryService struct {
	base
	Limit int
}

// NewHistoryService builds a HistoryService keeping at most limit entries
// (DefaultHistoryLimit when limit is not in 1..DefaultHistoryLimit).
func NewHistoryService(st repo.Store, bus *events.Bus, locks *kv.Locker, limit int) *HistoryService {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return &HistoryService{base: newBase(st, bus, locks), Limit: limit}
}

// Record moves movie to the front of the history with a fresh timestamp and
// drops the oldest entries beyond the limit.
func (s *HistoryService) Record(ctx context.Context, userID string, movie domain.Movie) (bool, error) {
	ctx, span := startSpan(ctx, historyTracer, "Record", userID, attribute.Int64("movie.id", movie.ID))
	defer span.End()

	if !movie.Valid() {
		return false, ErrInvalidMovie
	}
	key := kv.Key(userID, kv.NameHistory)
	unlock := s.lock(key)
	defer unlock()

	prev := s.List(ctx, userID)
	next := make([]domain.HistoryEntry, 0, min(len(prev)+1, s.limit()))
	next = append(next, domain.HistoryEntry{Movie: movie, WatchedAt: s.now()})
	for _, e := range prev {
		if len(next) == s.limit() {
			break
		}
		if e.ID != movie.ID {
			next = append(next, e)
		}
	}
	if !kv.Write(ctx, s.Store, key, next) {
		return false, nil
	}
	s.publish(userID, events.TopicHistory, events.TopicStorage)
	return true, nil
}

// List returns the history, newest first.
func (s *HistoryService) List(ctx context.Context, userID string) []domain.HistoryEntry {
	h := kv.Read(ctx, s.Store, kv.Key(userID, kv.NameHistory), []domain.HistoryEntry{})
	if h == nil {
		return []domain.HistoryEntry{}
	}
	return h
}

func (s *HistoryService) limit() int {
	if s.Limit <= 0 || s.Limit > DefaultHistoryLimit {
		return DefaultHistoryLimit
	}
	return s.Limit
}
