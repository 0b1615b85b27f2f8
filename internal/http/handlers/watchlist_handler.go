// Watchlist and history HTTP handlers.
//
// This file exposes the user's own movie lists:
//   - GET    /watchlist              (list, ETag support)
//   - POST   /watchlist              (add a movie)
//   - DELETE /watchlist              (clear)
//   - GET    /watchlist/{movieId}    (membership)
//   - DELETE /watchlist/{movieId}    (remove)
//   - GET    /history                (list, newest first, ETag support)
//   - POST   /history                (record a watched movie)
//   - GET    /library/search         (ranked search over both lists)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/search"
	"github.com/tbourn/go-movie-backend/internal/services"
	"github.com/tbourn/go-movie-backend/internal/utils"
)

// ContainsResponse reports watchlist membership.
type ContainsResponse struct {
	MovieID     int64 `json:"movieId" example:"27205"`
	InWatchlist bool  `json:"inWatchlist" example:"true"`
}

// SearchResponse carries ranked library matches.
type SearchResponse struct {
	Query   string          `json:"query" example:"dark knight"`
	Results []search.Result `json:"results"`
}

// ListWatchlist godoc
// @ID          listWatchlist
// @Summary     List the watchlist
// @Description Returns the user's watchlist in the order movies were added. Supports weak ETag via If-None-Match.
// @Tags        Watchlist
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}   domain.WatchlistEntry
// @Header      200  {string}  ETag "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Router      /watchlist [get]
func (h *Handlers) ListWatchlist(c *gin.Context) {
	okETag(c, h.watchlist.List(c.Request.Context(), userID(c)))
}

// AddToWatchlist godoc
// @ID          addToWatchlist
// @Summary     Add a movie to the watchlist
// @Description Adds the movie unless it is already present. Returns 201 when added and 200 with added=false otherwise.
// @Tags        Watchlist
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.MovieRequest  true  "Movie"
//
// @Success     201  {object}  handlers.AddedResponse
// @Success     200  {object}  handlers.AddedResponse "Already present or not persisted"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid movie"
// @Router      /watchlist [post]
func (h *Handlers) AddToWatchlist(c *gin.Context) {
	var req MovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidMovie, "movie needs an id and a title")
		return
	}
	added, err := h.watchlist.Add(c.Request.Context(), userID(c), movieFromRequest(req))
	if err != nil {
		writeMovieError(c, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	ok(c, status, AddedResponse{Added: added})
}

// RemoveFromWatchlist godoc
// @ID          removeFromWatchlist
// @Summary     Remove a movie from the watchlist
// @Description Removing a movie that is not in the list still succeeds.
// @Tags        Watchlist
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       movieId    path    int     true  "Movie ID"               example(27205)
//
// @Success     200  {object}  handlers.RemovedResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad movie id"
// @Failure     500  {object}  handlers.ErrorResponse "Write failed"
// @Router      /watchlist/{movieId} [delete]
func (h *Handlers) RemoveFromWatchlist(c *gin.Context) {
	id, okID := idParam(c, "movieId")
	if !okID {
		return
	}
	if !h.watchlist.Remove(c.Request.Context(), userID(c), id) {
		fail(c, http.StatusInternalServerError, ErrCodeWriteFailed, "watchlist could not be saved")
		return
	}
	ok(c, http.StatusOK, RemovedResponse{Removed: true})
}

// ClearWatchlist godoc
// @ID          clearWatchlist
// @Summary     Clear the watchlist
// @Tags        Watchlist
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     204  {string}  string "No Content"
// @Failure     500  {object}  handlers.ErrorResponse "Write failed"
// @Router      /watchlist [delete]
func (h *Handlers) ClearWatchlist(c *gin.Context) {
	if !h.watchlist.Clear(c.Request.Context(), userID(c)) {
		fail(c, http.StatusInternalServerError, ErrCodeWriteFailed, "watchlist could not be cleared")
		return
	}
	noContent(c)
}

// WatchlistContains godoc
// @ID          watchlistContains
// @Summary     Check watchlist membership
// @Tags        Watchlist
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       movieId    path    int     true  "Movie ID"               example(27205)
//
// @Success     200  {object}  handlers.ContainsResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad movie id"
// @Router      /watchlist/{movieId} [get]
func (h *Handlers) WatchlistContains(c *gin.Context) {
	id, okID := idParam(c, "movieId")
	if !okID {
		return
	}
	ok(c, http.StatusOK, ContainsResponse{
		MovieID:     id,
		InWatchlist: h.watchlist.Contains(c.Request.Context(), userID(c), id),
	})
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List watch history
// @Description Returns the most recently watched movies first. Supports weak ETag via If-None-Match.
// @Tags        History
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"  example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}   domain.HistoryEntry
// @Success     304  {string}  string "Not Modified"
// @Router      /history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	okETag(c, h.history.List(c.Request.Context(), userID(c)))
}

// RecordHistory godoc
// @ID          recordHistory
// @Summary     Record a watched movie
// @Description Moves the movie to the front of the history, keeping one entry per movie.
// @Tags        History
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.MovieRequest  true  "Movie"
//
// @Success     200  {object}  handlers.AddedResponse
// @Failure     400  {object}  handlers.ErrorResponse "Invalid movie"
// @Router      /history [post]
func (h *Handlers) RecordHistory(c *gin.Context) {
	var req MovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidMovie, "movie needs an id and a title")
		return
	}
	added, err := h.history.Record(c.Request.Context(), userID(c), movieFromRequest(req))
	if err != nil {
		writeMovieError(c, err)
		return
	}
	ok(c, http.StatusOK, AddedResponse{Added: added})
}

// SearchLibrary godoc
// @ID          searchLibrary
// @Summary     Search the user's library
// @Description Ranks watchlist and history movies by word overlap with q.
// @Tags        Watchlist
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       q          query   string  true  "Search text"            example(dark knight)
// @Param       k          query   int     false "Max results"            minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  handlers.SearchResponse
// @Failure     400  {object}  handlers.ErrorResponse "Missing query"
// @Router      /library/search [get]
func (h *Handlers) SearchLibrary(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		return
	}
	k := utils.IntInRange(c.Query("k"), 10, 1, 50)
	ok(c, http.StatusOK, SearchResponse{
		Query:   q,
		Results: h.watchlist.Search(c.Request.Context(), userID(c), q, k),
	})
}

func writeMovieError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidMovie) {
		fail(c, http.StatusBadRequest, ErrCodeInvalidMovie, err.Error())
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
}
