// Package recommend ranks candidate movies against what a user has already
// saved or watched. All functions are pure and keep their input order where
// ranking leaves a tie.
package recommend

import (
	"slices"
	"sort"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

const (
	// MaxFavorites is how many categories count as favorites.
	MaxFavorites = 3
	// MaxPersonalized caps Personalized.
	MaxPersonalized = 12
	// MaxSimilar caps SimilarTo.
	MaxSimilar = 8
)

// Preferences counts categories over the watchlist followed by the history
// and keeps the MaxFavorites most frequent. Ties keep first-seen order.
// Movies without a category are not counted.
func Preferences(watchlist []domain.WatchlistEntry, history []domain.HistoryEntry) domain.Preferences {
	counts := map[string]int{}
	var order []string
	see := func(cat string) {
		if cat == "" {
			return
		}
		if counts[cat] == 0 {
			order = append(order, cat)
		}
		counts[cat]++
	}
	for _, w := range watchlist {
		see(w.Category)
	}
	for _, h := range history {
		see(h.Category)
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	return domain.Preferences{
		FavoriteGenres: order[:min(MaxFavorites, len(order))],
		TotalWatched:   len(history),
		TotalWatchlist: len(watchlist),
	}
}

// Personalized keeps unseen pool movies in a favorite category, ordered by
// rating (highest first) and capped at MaxPersonalized.
func Personalized(watchlist []domain.WatchlistEntry, history []domain.HistoryEntry, pool []domain.Movie) []domain.Movie {
	prefs := Preferences(watchlist, history)
	seen := make(map[int64]struct{}, len(watchlist)+len(history))
	for _, w := range watchlist {
		seen[w.ID] = struct{}{}
	}
	for _, h := range history {
		seen[h.ID] = struct{}{}
	}

	out := make([]domain.Movie, 0, min(len(pool), MaxPersonalized))
	for _, m := range pool {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		if !slices.Contains(prefs.FavoriteGenres, m.Category) {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out[:min(MaxPersonalized, len(out))]
}

// SimilarTo keeps pool movies sharing movie's category or language, minus
// movie itself, in pool order and capped at MaxSimilar.
func SimilarTo(movie domain.Movie, pool []domain.Movie) []domain.Movie {
	out := make([]domain.Movie, 0, MaxSimilar)
	for _, m := range pool {
		if len(out) == MaxSimilar {
			break
		}
		if m.ID == movie.ID {
			continue
		}
		if m.Category == movie.Category || m.Language == movie.Language {
			out = append(out, m)
		}
	}
	return out
}
