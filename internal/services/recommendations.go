package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-movie-backend/internal/catalog"
	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/recommend"
)

const recommendTracer = "services/RecommendationService"

// candidatePages is how many popular pages form the default candidate pool.
const candidatePages = 3

// PopularSource lists popular catalog movies page by page.
type PopularSource interface {
	Popular(ctx context.Context, page int) (catalog.Page, error)
}

// RecommendationService feeds the user's watchlist and history into the
// recommend engine.
type RecommendationService struct {
	Watchlist *WatchlistService
	History   *HistoryService
	// Catalog supplies the candidate pool when the caller sends none. Optional.
	Catalog PopularSource
}

// NewRecommendationService builds a RecommendationService. A nil or disabled
// catalog leaves Catalog unset.
func NewRecommendationService(w *WatchlistService, h *HistoryService, c *catalog.Client) *RecommendationService {
	s := &RecommendationService{Watchlist: w, History: h}
	if c.Enabled() {
		s.Catalog = c
	}
	return s
}

// Preferences summarizes the user's favorite categories and list sizes.
func (s *RecommendationService) Preferences(ctx context.Context, userID string) domain.Preferences {
	ctx, span := startSpan(ctx, recommendTracer, "Preferences", userID)
	defer span.End()
	return recommend.Preferences(s.Watchlist.List(ctx, userID), s.History.List(ctx, userID))
}

// Personalized recommends movies the user has not seen yet in
// their favorite categories. An empty movies pool is filled from the catalog's
// popular pages when a catalog is configured.
func (s *RecommendationService) Personalized(ctx context.Context, userID string, movies []domain.Movie) []domain.Movie {
	ctx, span := startSpan(ctx, recommendTracer, "Personalized", userID, attribute.Int("pool", len(movies)))
	defer span.End()

	watchlist := s.Watchlist.List(ctx, userID)
	history := s.History.List(ctx, userID)
	if len(watchlist) == 0 && len(history) == 0 {
		return []domain.Movie{}
	}
	if len(movies) == 0 {
		movies = s.candidates(ctx)
	}
	return recommend.Personalized(watchlist, history, movies)
}

// SimilarTo lists movies sharing movie's category or language.
func (s *RecommendationService) SimilarTo(ctx context.Context, movie domain.Movie, movies []domain.Movie) []domain.Movie {
	_, span := startSpan(ctx, recommendTracer, "SimilarTo", "", attribute.Int64("movie.id", movie.ID))
	defer span.End()
	return recommend.SimilarTo(movie, movies)
}

// candidates fetches the first popular pages concurrently. A failed page
// contributes nothing; page order is kept.
func (s *RecommendationService) candidates(ctx context.Context) []domain.Movie {
	if s.Catalog == nil {
		return nil
	}
	pages := make([][]domain.Movie, candidatePages)
	p := pool.New().WithMaxGoroutines(candidatePages)
	for i := range pages {
		p.Go(func() {
			res, err := s.Catalog.Popular(ctx, i+1)
			if err != nil {
				log.Warn().Err(err).Int("page", i+1).Msg("candidate page fetch failed")
				return
			}
			pages[i] = res.Results
		})
	}
	p.Wait()

	var out []domain.Movie
	for _, pg := range pages {
		out = append(out, pg...)
	}
	return out
}
