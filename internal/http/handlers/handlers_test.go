package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-movie-backend/internal/catalog"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/http/middleware"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
	"github.com/tbourn/go-movie-backend/internal/services"
)

// ---------- fakes ----------

type fakeCatalog struct {
	page    catalog.Page
	details catalog.Details
	err     error

	lastPage     int
	lastQuery    string
	lastCategory string
	lastDiscover catalog.DiscoverParams
}

func (f *fakeCatalog) Popular(_ context.Context, page int) (catalog.Page, error) {
	f.lastPage = page
	return f.page, f.err
}

func (f *fakeCatalog) TopRated(_ context.Context, page int) (catalog.Page, error) {
	f.lastPage = page
	return f.page, f.err
}

func (f *fakeCatalog) Trending(_ context.Context, page int) (catalog.Page, error) {
	f.lastPage = page
	return f.page, f.err
}

func (f *fakeCatalog) Search(_ context.Context, q string, page int) (catalog.Page, error) {
	f.lastQuery, f.lastPage = q, page
	return f.page, f.err
}

func (f *fakeCatalog) Discover(_ context.Context, p catalog.DiscoverParams) (catalog.Page, error) {
	f.lastDiscover, f.lastPage = p, p.Page
	return f.page, f.err
}

func (f *fakeCatalog) ByCategory(_ context.Context, cat string, page int) (catalog.Page, error) {
	f.lastCategory, f.lastPage = cat, page
	return f.page, f.err
}

func (f *fakeCatalog) Details(_ context.Context, id int64) (catalog.Details, error) {
	if f.err != nil {
		return catalog.Details{}, f.err
	}
	d := f.details
	d.ID = id
	return d, nil
}

// ---------- wiring ----------

type testEnv struct {
	h     *Handlers
	r     *gin.Engine
	store *repo.MemoryStore
	bus   *events.Bus
	idem  *repo.IdempotencyStore
	quiz  *services.QuizService
}

func newIdemDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newEnv builds real services over an in-memory store and mounts every
// endpoint on a bare engine. cat may be nil.
func newEnv(t *testing.T, cat Catalog) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := repo.NewMemoryStore()
	bus := events.New(16)
	t.Cleanup(bus.Close)
	locks := &kv.Locker{}

	watch := services.NewWatchlistService(st, bus, locks)
	hist := services.NewHistoryService(st, bus, locks, 50)
	profiles := services.NewProfileService(st, bus, locks)
	social := services.NewSocialService(st, bus, locks, watch, 50)
	quizSvc := services.NewQuizService(st, bus, locks, time.UTC, 30*time.Second, time.Hour)
	idem := repo.NewIdempotencyStore(newIdemDB(t), time.Hour)

	h := New(Deps{
		Watchlist:       watch,
		History:         hist,
		Profiles:        profiles,
		Reviews:         services.NewReviewService(st, bus, locks, profiles),
		Social:          social,
		Recommendations: services.NewRecommendationService(watch, hist, nil),
		Quiz:            quizSvc,
		Catalog:         cat,
		Idempotency:     idem,
		Bus:             bus,
		Store:           st,
	})

	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, nil))
	mount(r, h)
	return &testEnv{h: h, r: r, store: st, bus: bus, idem: idem, quiz: quizSvc}
}

func mount(r *gin.Engine, h *Handlers) {
	r.GET("/watchlist", h.ListWatchlist)
	r.POST("/watchlist", h.AddToWatchlist)
	r.DELETE("/watchlist", h.ClearWatchlist)
	r.GET("/watchlist/:movieId", h.WatchlistContains)
	r.DELETE("/watchlist/:movieId", h.RemoveFromWatchlist)
	r.GET("/library/search", h.SearchLibrary)
	r.GET("/history", h.ListHistory)
	r.POST("/history", h.RecordHistory)

	r.GET("/movies/popular", h.Popular)
	r.GET("/movies/top-rated", h.TopRated)
	r.GET("/movies/trending", h.Trending)
	r.GET("/movies/search", h.SearchMovies)
	r.GET("/movies/discover", h.Discover)
	r.GET("/movies/category/:category", h.MoviesByCategory)
	r.GET("/movies/:movieId", h.MovieDetails)
	r.GET("/movies/:movieId/reviews", h.ListReviews)
	r.POST("/movies/:movieId/reviews", h.CreateReview)
	r.POST("/movies/:movieId/reviews/:reviewId/votes", h.VoteReview)
	r.GET("/movies/:movieId/rating", h.MovieRating)

	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)

	r.GET("/friends", h.ListFriends)
	r.POST("/friends", h.AddFriend)
	r.DELETE("/friends/:friendId", h.RemoveFriend)
	r.GET("/friends/activities", h.FriendActivities)
	r.GET("/shares", h.ListShares)
	r.POST("/shares", h.ShareWatchlist)
	r.GET("/activities", h.ListActivities)
	r.POST("/activities", h.RecordActivity)

	r.GET("/recommendations/preferences", h.Preferences)
	r.POST("/recommendations", h.Recommend)
	r.POST("/recommendations/similar", h.Similar)

	r.GET("/quiz/questions", h.Questions)
	r.GET("/quiz/daily", h.Daily)
	r.POST("/quiz/results", h.SubmitResults)
	r.GET("/quiz/stats", h.QuizStats)
	r.GET("/quiz/leaderboard", h.Leaderboard)
	r.GET("/quiz/badges", h.Badges)
	r.GET("/quiz/categories", h.Categories)
	r.POST("/quiz/sessions", h.StartSession)
	r.GET("/quiz/sessions/:id", h.GetSession)
	r.POST("/quiz/sessions/:id/answer", h.AnswerSession)
	r.POST("/quiz/sessions/:id/next", h.NextQuestion)

	r.GET("/storage", h.Storage)
	r.GET("/events", h.Events)
}

// do sends a request as user "u1" unless headers override X-User-ID.
func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "u1")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, w).Code
}

func movie(id int64, title, category string) MovieRequest {
	return MovieRequest{ID: id, Title: title, Category: category, Language: "English", Rating: 7}
}

// ---------- shared helpers ----------

func Test_userID_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := userID(c); got != "demo-user" {
		t.Fatalf("default userID = %q", got)
	}
	c.Request.Header.Set("X-User-ID", "  bob ")
	if got := userID(c); got != "bob" {
		t.Fatalf("header userID = %q", got)
	}
	c.Set("userID", "alice")
	if got := userID(c); got != "alice" {
		t.Fatalf("context userID = %q", got)
	}
}

func Test_New_TypedNilCatalogIsDisabled(t *testing.T) {
	var cl *catalog.Client
	h := New(Deps{Catalog: cl})
	if h.catalog != nil {
		t.Fatalf("typed nil client should leave the catalog unset")
	}
}

func TestStorage_CountsCallerDocuments(t *testing.T) {
	e := newEnv(t, nil)
	if w := e.do(t, http.MethodPost, "/watchlist", movie(1, "Inception", "sci-fi")); w.Code != http.StatusCreated {
		t.Fatalf("add status=%d", w.Code)
	}
	if w := e.do(t, http.MethodPost, "/history", movie(2, "Heat", "crime")); w.Code != http.StatusOK {
		t.Fatalf("history status=%d", w.Code)
	}

	w := e.do(t, http.MethodGet, "/storage", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("storage status=%d", w.Code)
	}
	got := decode[StorageResponse](t, w)
	if got.UserID != "u1" || got.Documents != 2 || got.UpdatedAt == nil {
		t.Fatalf("unexpected storage: %+v", got)
	}

	w = e.do(t, http.MethodGet, "/storage", nil, "X-User-ID", "nobody")
	if got := decode[StorageResponse](t, w); got.Documents != 0 {
		t.Fatalf("other user sees documents: %+v", got)
	}
}

func TestEvents_DisabledWithoutBus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(Deps{})
	r := gin.New()
	r.GET("/events", h.Events)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestEvents_PlainRequestIsNotUpgraded(t *testing.T) {
	e := newEnv(t, nil)
	w := e.do(t, http.MethodGet, "/events", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-websocket request status=%d", w.Code)
	}
	if e.bus.Len() != 0 {
		t.Fatalf("failed upgrade must not subscribe")
	}
}

func Test_splitTopics(t *testing.T) {
	got := splitTopics(" watchlist, ,reviews,")
	if len(got) != 2 || got[0] != "watchlist" || got[1] != "reviews" {
		t.Fatalf("splitTopics = %v", got)
	}
	if splitTopics("") != nil {
		t.Fatalf("empty topics should be nil")
	}
}

func Test_idParam_RejectsNonPositive(t *testing.T) {
	e := newEnv(t, nil)
	for _, p := range []string{"/watchlist/abc", "/watchlist/0", "/watchlist/-3"} {
		w := e.do(t, http.MethodGet, p, nil)
		if w.Code != http.StatusBadRequest || errCode(t, w) != ErrCodeBadRequest {
			t.Fatalf("%s: status=%d body=%s", p, w.Code, w.Body.String())
		}
	}
}

