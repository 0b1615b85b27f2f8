package services

import (
	"context"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
	"github.com/tbourn/go-movie-backend/internal/search"
)

const watchlistTracer = "services/WatchlistService"

// WatchlistService keeps the set of movies a user intends to watch, one entry
// per movie id, in insertion order.
type WatchlistService struct {
	base
}

// NewWatchlistService builds a WatchlistService. locks may be shared with
// other services; nil gets a private lock table.
func NewWatchlistService(st repo.Store, bus *events.Bus, locks *kv.Locker) *WatchlistService {
	return &WatchlistService{base: newBase(st, bus, locks)}
}

// List returns the watchlist in storage order.
func (s *WatchlistService) List(ctx context.Context, userID string) []domain.WatchlistEntry {
	ctx, span := startSpan(ctx, watchlistTracer, "List", userID)
	defer span.End()
	return s.load(ctx, userID)
}

// Add appends movie unless its id is already present. It reports whether the
// watchlist changed.
func (s *WatchlistService) Add(ctx context.Context, userID string, movie domain.Movie) (bool, error) {
	ctx, span := startSpan(ctx, watchlistTracer, "Add", userID, attribute.Int64("movie.id", movie.ID))
	defer span.End()

	if !movie.Valid() {
		return false, ErrInvalidMovie
	}
	key := kv.Key(userID, kv.NameWatchlist)
	unlock := s.lock(key)
	defer unlock()

	list := s.load(ctx, userID)
	if containsMovie(list, movie.ID) {
		return false, nil
	}
	list = append(list, domain.WatchlistEntry{Movie: movie, AddedAt: s.now()})
	if !kv.Write(ctx, s.Store, key, list) {
		return false, nil
	}
	s.publish(userID, events.TopicWatchlist, events.TopicStorage)
	return true, nil
}

// Remove drops movieID from the watchlist. It is true unless persisting failed;
// removing an absent movie still succeeds.
func (s *WatchlistService) Remove(ctx context.Context, userID string, movieID int64) bool {
	ctx, span := startSpan(ctx, watchlistTracer, "Remove", userID, attribute.Int64("movie.id", movieID))
	defer span.End()

	key := kv.Key(userID, kv.NameWatchlist)
	unlock := s.lock(key)
	defer unlock()

	list := slices.DeleteFunc(s.load(ctx, userID), func(e domain.WatchlistEntry) bool {
		return e.ID == movieID
	})
	if !kv.Write(ctx, s.Store, key, list) {
		return false
	}
	s.publish(userID, events.TopicWatchlist, events.TopicStorage)
	return true
}

// Contains reports whether movieID is on the watchlist.
func (s *WatchlistService) Contains(ctx context.Context, userID string, movieID int64) bool {
	ctx, span := startSpan(ctx, watchlistTracer, "Contains", userID, attribute.Int64("movie.id", movieID))
	defer span.End()
	return containsMovie(s.load(ctx, userID), movieID)
}

// Clear deletes the whole watchlist.
func (s *WatchlistService) Clear(ctx context.Context, userID string) bool {
	ctx, span := startSpan(ctx, watchlistTracer, "Clear", userID)
	defer span.End()

	key := kv.Key(userID, kv.NameWatchlist)
	unlock := s.lock(key)
	defer unlock()

	if !kv.Remove(ctx, s.Store, key) {
		return false
	}
	s.publish(userID, events.TopicWatchlist, events.TopicStorage)
	return true
}

// Search ranks the user's library (watchlist first, then history) against
// query by word overlap over titles, categories and descriptions. A movie on
// both lists is reported once, as a watchlist hit.
func (s *WatchlistService) Search(ctx context.Context, userID, query string, k int) []search.Result {
	ctx, span := startSpan(ctx, watchlistTracer, "Search", userID, attribute.String("query", query))
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return []search.Result{}
	}
	watchlist := s.load(ctx, userID)
	history := kv.Read(ctx, s.Store, kv.Key(userID, kv.NameHistory), []domain.HistoryEntry{})

	docs := make([]search.Doc, 0, len(watchlist)+len(history))
	for _, e := range watchlist {
		docs = append(docs, libraryDoc(e.Movie, "watchlist"))
	}
	for _, e := range history {
		docs = append(docs, libraryDoc(e.Movie, "history"))
	}
	res := search.New(docs, search.WithStopwords(search.DefaultStopwords)).TopK(query, k)
	span.SetAttributes(attribute.Int("results", len(res)))
	if res == nil {
		return []search.Result{}
	}
	return res
}

func (s *WatchlistService) load(ctx context.Context, userID string) []domain.WatchlistEntry {
	list := kv.Read(ctx, s.Store, kv.Key(userID, kv.NameWatchlist), []domain.WatchlistEntry{})
	if list == nil {
		return []domain.WatchlistEntry{}
	}
	return list
}

func containsMovie(list []domain.WatchlistEntry, id int64) bool {
	return slices.ContainsFunc(list, func(e domain.WatchlistEntry) bool { return e.ID == id })
}

func libraryDoc(m domain.Movie, source string) search.Doc {
	return search.Doc{
		ID:     m.ID,
		Title:  m.Title,
		Source: source,
		Text:   m.Category + " " + m.Description,
	}
}
