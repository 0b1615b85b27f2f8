// Package domain defines the core models of the movie discovery service.
// Most types are JSON documents persisted under a user's key-value namespace;
// Document and Idempotency are the GORM-mapped tables of the SQLite backend.
package domain

import (
	"strings"
	"time"
)

// Trailer identifies a playable video for a movie.
type Trailer struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Movie is a catalog record as received from the remote catalog.
// Stores treat it as immutable.
type Movie struct {
	ID          int64    `json:"id" example:"27205"`
	Title       string   `json:"title" example:"Inception"`
	Category    string   `json:"category" example:"action"`
	Language    string   `json:"language" example:"English"`
	Year        string   `json:"year,omitempty" example:"2010"`
	Rating      float64  `json:"rating" example:"8.4"`
	Duration    string   `json:"duration,omitempty" example:"2h 28m"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Backdrop    string   `json:"backdrop,omitempty"`
	Trailer     *Trailer `json:"trailer,omitempty"`
}

// Valid reports whether the movie carries the fields the stores key on.
func (m Movie) Valid() bool {
	return m.ID > 0 && strings.TrimSpace(m.Title) != ""
}

// WatchlistEntry is a movie the user intends to watch.
type WatchlistEntry struct {
	Movie
	AddedAt time.Time `json:"addedAt"`
}

// HistoryEntry is a movie the user has opened or played.
type HistoryEntry struct {
	Movie
	WatchedAt time.Time `json:"watchedAt"`
}

// Preferences summarizes the categories a user gravitates to.
type Preferences struct {
	FavoriteGenres []string `json:"favoriteGenres"`
	TotalWatched   int      `json:"totalWatched"`
	TotalWatchlist int      `json:"totalWatchlist"`
}
