package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/catalog"
	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/repo"
	"github.com/tbourn/go-movie-backend/internal/services"
	"github.com/tbourn/go-movie-backend/internal/utils"
)

//
// Collaborator contracts
//

// Catalog is the remote movie catalog as the handlers use it.
//
// Implementations must honor the provided context for cancellation and
// timeouts. *catalog.Client satisfies it.
type Catalog interface {
	Popular(ctx context.Context, page int) (catalog.Page, error)
	TopRated(ctx context.Context, page int) (catalog.Page, error)
	Trending(ctx context.Context, page int) (catalog.Page, error)
	Search(ctx context.Context, query string, page int) (catalog.Page, error)
	Discover(ctx context.Context, p catalog.DiscoverParams) (catalog.Page, error)
	ByCategory(ctx context.Context, category string, page int) (catalog.Page, error)
	Details(ctx context.Context, id int64) (catalog.Details, error)
}

// IdempotencyStore keeps the responses of completed idempotent requests.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error)
	Save(ctx context.Context, userID, scope, key string, status int, body []byte) error
}

//
// Handler wiring
//

// Deps lists what the handlers are built from. Catalog, Idempotency, Bus and
// Store are optional; the endpoints that need them answer 503 or skip the
// feature when they are nil.
type Deps struct {
	Watchlist       *services.WatchlistService
	History         *services.HistoryService
	Profiles        *services.ProfileService
	Reviews         *services.ReviewService
	Social          *services.SocialService
	Recommendations *services.RecommendationService
	Quiz            *services.QuizService

	Catalog     Catalog
	Idempotency IdempotencyStore
	Bus         *events.Bus
	Store       repo.Store
}

// Handlers groups the HTTP endpoints of the movie API.
type Handlers struct {
	watchlist *services.WatchlistService
	history   *services.HistoryService
	profiles  *services.ProfileService
	reviews   *services.ReviewService
	social    *services.SocialService
	recs      *services.RecommendationService
	quiz      *services.QuizService

	catalog Catalog
	idem    IdempotencyStore
	bus     *events.Bus
	store   repo.Store

	now func() time.Time
}

// New constructs the handlers from d.
func New(d Deps) *Handlers {
	// A typed nil client would make the interface non-nil.
	if cl, isClient := d.Catalog.(*catalog.Client); isClient && cl == nil {
		d.Catalog = nil
	}
	return &Handlers{
		watchlist: d.Watchlist,
		history:   d.History,
		profiles:  d.Profiles,
		reviews:   d.Reviews,
		social:    d.Social,
		recs:      d.Recommendations,
		quiz:      d.Quiz,
		catalog:   d.Catalog,
		idem:      d.Idempotency,
		bus:       d.Bus,
		store:     d.Store,
		now:       time.Now,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-User-ID" header and finally
// to "demo-user".
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// Helpers
//

// idParam parses a positive integer path parameter. It writes a 400 and
// returns false when the value is malformed.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// pageQuery parses the catalog page query parameter (1..catalog.MaxPage).
func pageQuery(c *gin.Context) int {
	return utils.IntInRange(c.Query("page"), 1, 1, catalog.MaxPage)
}

// movieFromRequest converts a request DTO into a domain movie.
func movieFromRequest(m MovieRequest) domain.Movie {
	out := domain.Movie{
		ID:          m.ID,
		Title:       strings.TrimSpace(m.Title),
		Category:    m.Category,
		Language:    m.Language,
		Year:        m.Year,
		Rating:      m.Rating,
		Duration:    m.Duration,
		Description: m.Description,
		Image:       m.Image,
		Backdrop:    m.Backdrop,
	}
	if m.Trailer != nil {
		t := *m.Trailer
		out.Trailer = &t
	}
	return out
}

func moviesFromRequest(in []MovieRequest) []domain.Movie {
	out := make([]domain.Movie, 0, len(in))
	for _, m := range in {
		out = append(out, movieFromRequest(m))
	}
	return out
}

//
// Shared DTOs
//

// MovieRequest is a catalog movie as the client received it.
type MovieRequest struct {
	ID          int64           `json:"id" binding:"required" example:"27205"`
	Title       string          `json:"title" binding:"required" example:"Inception"`
	Category    string          `json:"category" example:"action"`
	Language    string          `json:"language" example:"English"`
	Year        string          `json:"year" example:"2010"`
	Rating      float64         `json:"rating" example:"8.4"`
	Duration    string          `json:"duration" example:"2h 28m"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Backdrop    string          `json:"backdrop"`
	Trailer     *domain.Trailer `json:"trailer"`
}

// AddedResponse reports whether a mutation changed anything.
type AddedResponse struct {
	Added bool `json:"added" example:"true"`
}

// RemovedResponse reports whether a removal was persisted.
type RemovedResponse struct {
	Removed bool `json:"removed" example:"true"`
}
