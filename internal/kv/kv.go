// Package kv is the typed, fail-soft adapter over a repo.Store. Values are
// JSON documents. Reads never fail: a missing key, a decode error, a backend
// error or a nil store all yield the caller's default. Writes report success
// as a bool and log the cause of a failure.
package kv

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-movie-backend/internal/repo"
)

// Document names inside a user namespace.
const (
	NameWatchlist  = "watchlist"
	NameHistory    = "watch-history"
	NameProfile    = "user-profile"
	NameFriends    = "friends"
	NameShared     = "shared-lists"
	NameActivities = "activities"
	NameQuizStats  = "quiz-stats"
)

// ReviewsKey holds every movie's reviews. Reviews are public, so the document
// lives outside the per-user namespaces.
const ReviewsKey = "g:reviews"

// uidEscaper keeps ':' out of the user segment so one namespace can never be
// a prefix of another.
var uidEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// Key returns the storage key of document name in userID's namespace.
func Key(userID, name string) string {
	return Prefix(userID) + name
}

// Prefix returns the key prefix of userID's namespace.
func Prefix(userID string) string {
	return "u:" + uidEscaper.Replace(userID) + ":"
}

// Read decodes the document at key into a T, or returns def.
func Read[T any](ctx context.Context, st repo.Store, key string, def T) T {
	if st == nil {
		return def
	}
	raw, ok, err := st.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv read failed")
		return def
	}
	if !ok || len(raw) == 0 {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv decode failed")
		return def
	}
	return v
}

// Write encodes v and stores it at key.
func Write(ctx context.Context, st repo.Store, key string, v any) bool {
	if st == nil {
		return false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv encode failed")
		return false
	}
	if err := st.Put(ctx, key, raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv write failed")
		return false
	}
	return true
}

// Remove deletes key. Removing a missing key succeeds.
func Remove(ctx context.Context, st repo.Store, key string) bool {
	if st == nil {
		return false
	}
	if err := st.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("kv remove failed")
		return false
	}
	return true
}
