package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/http/middleware"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer.
	CheckOrigin: func(*http.Request) bool { return true },
}

// StorageResponse summarizes the caller's persisted documents.
type StorageResponse struct {
	UserID    string     `json:"userId" example:"user123"`
	Documents int64      `json:"documents" example:"4"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Events godoc
// @ID          events
// @Summary     Change notifications
// @Description Upgrades to a websocket that receives {"type":"<topic>"} frames whenever the caller's watchlist, history, friends or activities change, and whenever any review changes.
// @Tags        Events
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       topics     query   string  false "Comma separated topics, all when empty"  example(watchlist,reviews)
//
// @Success     101  {string}  string "Switching Protocols"
// @Failure     503  {object}  handlers.ErrorResponse "Notifications disabled"
// @Router      /events [get]
func (h *Handlers) Events(c *gin.Context) {
	if h.bus == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeInternal, "notifications are disabled")
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already answered the client.
		middleware.LoggerFrom(c).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sub := h.bus.Subscribe(userID(c), splitTopics(c.Query("topics"))...)
	events.Stream(h.bus, sub, conn, *middleware.LoggerFrom(c))
}

// Storage godoc
// @ID          storage
// @Summary     Storage usage
// @Description Number of documents stored for the caller and the time of the last write. Backends that cannot summarize report only the user id.
// @Tags        Events
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  handlers.StorageResponse
// @Failure     500  {object}  handlers.ErrorResponse "Storage error"
// @Router      /storage [get]
func (h *Handlers) Storage(c *gin.Context) {
	uid := userID(c)
	out := StorageResponse{UserID: uid}
	ps, isStatser := h.store.(repo.PrefixStatser)
	if !isStatser {
		ok(c, http.StatusOK, out)
		return
	}
	n, ts, err := ps.PrefixStats(c.Request.Context(), kv.Prefix(uid))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "storage stats unavailable")
		return
	}
	out.Documents, out.UpdatedAt = n, ts
	ok(c, http.StatusOK, out)
}

func splitTopics(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
