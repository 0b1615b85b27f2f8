// Social HTTP handlers.
//
// This file exposes friends, watchlist sharing and the activity feed:
//   - GET    /friends
//   - POST   /friends
//   - DELETE /friends/{friendId}
//   - GET    /friends/activities   (preview rows built from the friend list)
//   - GET    /shares
//   - POST   /shares               (idempotent)
//   - GET    /activities
//   - POST   /activities
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/services"
)

// AddFriendRequest is the JSON payload for adding a friend. A missing id is
// generated; a missing avatar is derived from the name.
type AddFriendRequest struct {
	ID     string `json:"id,omitempty" example:"f-1"`
	Name   string `json:"name" binding:"required" example:"Alex"`
	Avatar string `json:"avatar,omitempty"`
}

// FriendResponse wraps a friend and whether it was newly added.
type FriendResponse struct {
	Friend domain.Friend `json:"friend"`
	Added  bool          `json:"added" example:"true"`
}

// ShareRequest is the JSON payload for sharing the watchlist. Without a
// watchlist snapshot the current watchlist is shared.
type ShareRequest struct {
	SharedWith []string                `json:"sharedWith" example:"f-1,f-2"`
	Message    string                  `json:"message" example:"Weekend picks"`
	Watchlist  []domain.WatchlistEntry `json:"watchlist,omitempty"`
}

// ActivityRequest is the JSON payload of a feed entry.
type ActivityRequest struct {
	Type    string `json:"type" binding:"required" example:"watched"`
	Content string `json:"content" binding:"required" example:"Watched Inception"`
}

// ListFriends godoc
// @ID          listFriends
// @Summary     List friends
// @Tags        Social
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}  domain.Friend
// @Router      /friends [get]
func (h *Handlers) ListFriends(c *gin.Context) {
	ok(c, http.StatusOK, h.social.Friends(c.Request.Context(), userID(c)))
}

// AddFriend godoc
// @ID          addFriend
// @Summary     Add a friend
// @Description Adds a friend unless one with the same id exists, in which case the existing friend is returned with added=false.
// @Tags        Social
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.AddFriendRequest  true  "Friend"
//
// @Success     201  {object}  handlers.FriendResponse
// @Success     200  {object}  handlers.FriendResponse "Already a friend"
// @Failure     400  {object}  handlers.ErrorResponse "Missing name"
// @Router      /friends [post]
func (h *Handlers) AddFriend(c *gin.Context) {
	var req AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, services.ErrInvalidFriend.Error())
		return
	}
	f, added, err := h.social.AddFriend(c.Request.Context(), userID(c), domain.Friend{
		ID:     strings.TrimSpace(req.ID),
		Name:   req.Name,
		Avatar: strings.TrimSpace(req.Avatar),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidFriend) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	ok(c, status, FriendResponse{Friend: f, Added: added})
}

// RemoveFriend godoc
// @ID          removeFriend
// @Summary     Remove a friend
// @Tags        Social
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       friendId   path    string  true  "Friend ID"  example(f-1)
//
// @Success     204  {string}  string "No Content"
// @Failure     500  {object}  handlers.ErrorResponse "Write failed"
// @Router      /friends/{friendId} [delete]
func (h *Handlers) RemoveFriend(c *gin.Context) {
	if !h.social.RemoveFriend(c.Request.Context(), userID(c), c.Param("friendId")) {
		fail(c, http.StatusInternalServerError, ErrCodeWriteFailed, "friends could not be saved")
		return
	}
	noContent(c)
}

// FriendActivities godoc
// @ID          friendActivities
// @Summary     Recent friend activity
// @Description Returns up to five preview rows built from the friend list.
// @Tags        Social
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}  domain.FriendActivity
// @Router      /friends/activities [get]
func (h *Handlers) FriendActivities(c *gin.Context) {
	ok(c, http.StatusOK, h.social.FriendActivities(c.Request.Context(), userID(c)))
}

// ListShares godoc
// @ID          listShares
// @Summary     List shared watchlists
// @Tags        Social
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}  domain.SharedList
// @Router      /shares [get]
func (h *Handlers) ListShares(c *gin.Context) {
	ok(c, http.StatusOK, h.social.SharedLists(c.Request.Context(), userID(c)))
}

// ShareWatchlist godoc
// @ID          shareWatchlist
// @Summary     Share the watchlist with friends
// @Description Stores a snapshot of the watchlist and records a share activity. Supports idempotency via the Idempotency-Key header.
// @Tags        Social
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.ShareRequest  true  "Share"
//
// @Success     201  {object}  domain.SharedList
// @Failure     400  {object}  handlers.ErrorResponse "No recipients"
// @Failure     500  {object}  handlers.ErrorResponse "Share could not be saved"
// @Router      /shares [post]
func (h *Handlers) ShareWatchlist(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if h.replay(c) {
		return
	}
	rec, err := h.social.ShareWatchlist(c.Request.Context(), userID(c), req.Watchlist, req.SharedWith, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoRecipients):
			fail(c, http.StatusBadRequest, ErrCodeNoRecipients, err.Error())
		case errors.Is(err, services.ErrWriteFailed):
			fail(c, http.StatusInternalServerError, ErrCodeWriteFailed, "share could not be saved")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	h.created(c, http.StatusCreated, rec)
}

// ListActivities godoc
// @ID          listActivities
// @Summary     Activity feed
// @Description Returns the caller's feed, newest first.
// @Tags        Social
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}  domain.Activity
// @Router      /activities [get]
func (h *Handlers) ListActivities(c *gin.Context) {
	ok(c, http.StatusOK, h.social.Activities(c.Request.Context(), userID(c)))
}

// RecordActivity godoc
// @ID          recordActivity
// @Summary     Add a feed entry
// @Tags        Social
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.ActivityRequest  true  "Activity"
//
// @Success     201  {object}  domain.Activity
// @Failure     400  {object}  handlers.ErrorResponse "Missing type or content"
// @Failure     500  {object}  handlers.ErrorResponse "Write failed"
// @Router      /activities [post]
func (h *Handlers) RecordActivity(c *gin.Context) {
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, services.ErrInvalidActivity.Error())
		return
	}
	a := domain.Activity{
		Type:      strings.TrimSpace(req.Type),
		Content:   strings.TrimSpace(req.Content),
		Timestamp: h.now().UTC(),
	}
	saved, err := h.social.RecordActivity(c.Request.Context(), userID(c), a)
	if err != nil {
		if errors.Is(err, services.ErrInvalidActivity) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if !saved {
		fail(c, http.StatusInternalServerError, ErrCodeWriteFailed, "activity could not be saved")
		return
	}
	ok(c, http.StatusCreated, a)
}
