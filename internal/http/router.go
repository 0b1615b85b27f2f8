// Package httpapi wires the Gin engine for the movie API: the middleware
// chain, the services behind the handlers and the versioned routes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/go-movie-backend/docs"
	"github.com/tbourn/go-movie-backend/internal/catalog"
	"github.com/tbourn/go-movie-backend/internal/config"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/http/handlers"
	"github.com/tbourn/go-movie-backend/internal/http/middleware"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
	"github.com/tbourn/go-movie-backend/internal/services"
)

// maxBodyBytes caps request bodies; the largest legitimate body is a
// recommendation pool of a few hundred movies.
const maxBodyBytes = 1 << 20

// Deps are the process-level collaborators the routes are built on.
type Deps struct {
	// Store backs every user namespace. Required.
	Store repo.Store
	// Idempotency keeps replayable POST responses. Nil disables replays.
	Idempotency *repo.IdempotencyStore
	// Catalog is the TMDB client; nil when no API key is configured.
	Catalog *catalog.Client
	// Bus fans state changes out to /events subscribers. Nil disables the
	// stream.
	Bus *events.Bus
}

// RegisterRoutes installs the middleware chain and mounts the API under
// cfg.APIBasePath, plus /health, /metrics and (when enabled) /swagger.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID and Identity: correlation id and caller
//  3. RedactingLogger: scoped logger and scrubbed access log
//  4. Recovery: panics become JSON 500s after the logger is attached
//  5. Body size limiter
//  6. Metrics
//  7. Gzip (not for /events or /metrics)
//  8. Idempotency validator (before the limiter so replays bypass it)
//  9. Rate limiter (per user/IP)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, d Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	apiBase := cfg.APIBasePath
	eventsPath := joinPath(apiBase, "/events")

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID(), middleware.Identity())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-Api-Key", middleware.HeaderIdempotencyKey},
		MaskQuery:   []string{"api_key", "token"},
		QuietPaths:  []string{"/health", "/metrics"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", middleware.MetricsHandler())

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{eventsPath, "/metrics"})))

	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idempotencyLookup(d.Idempotency)))

	rl := middleware.NewRateLimiter(middleware.RateLimitOptions{
		RPS:    cfg.RateRPS,
		Burst:  cfg.RateBurst,
		Key:    middleware.KeyByUserOrIP(),
		Exempt: []string{"/health", "/metrics", eventsPath},
	})
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		PrivateCache: true,
		EnablePolicy: true,
		Expose:       []string{"ETag", "Idempotency-Replayed"},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"store":   cfg.Store.Backend,
			"catalog": d.Catalog.Enabled(),
		})
	})
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := newHandlers(d, cfg)
	mountAPI(groupWithPrefix(r, apiBase), h)
}

// newHandlers builds the services over the shared store, bus and key locks.
func newHandlers(d Deps, cfg config.Config) *handlers.Handlers {
	locks := &kv.Locker{}
	watch := services.NewWatchlistService(d.Store, d.Bus, locks)
	hist := services.NewHistoryService(d.Store, d.Bus, locks, cfg.Store.HistoryLimit)
	profiles := services.NewProfileService(d.Store, d.Bus, locks)
	perQuestion := time.Duration(cfg.Quiz.SecondsPerQuestion) * time.Second
	var idem handlers.IdempotencyStore
	if d.Idempotency != nil {
		idem = d.Idempotency
	}

	return handlers.New(handlers.Deps{
		Watchlist:       watch,
		History:         hist,
		Profiles:        profiles,
		Reviews:         services.NewReviewService(d.Store, d.Bus, locks, profiles),
		Social:          services.NewSocialService(d.Store, d.Bus, locks, watch, cfg.Store.ActivityLimit),
		Recommendations: services.NewRecommendationService(watch, hist, d.Catalog),
		Quiz:            services.NewQuizService(d.Store, d.Bus, locks, cfg.Quiz.Location, perQuestion, cfg.Quiz.SessionTTL),
		Catalog:         d.Catalog,
		Idempotency:     idem,
		Bus:             d.Bus,
		Store:           d.Store,
	})
}

func mountAPI(api *gin.RouterGroup, h *handlers.Handlers) {
	// Library
	api.GET("/watchlist", h.ListWatchlist)
	api.POST("/watchlist", h.AddToWatchlist)
	api.DELETE("/watchlist", h.ClearWatchlist)
	api.GET("/watchlist/:movieId", h.WatchlistContains)
	api.DELETE("/watchlist/:movieId", h.RemoveFromWatchlist)
	api.GET("/library/search", h.SearchLibrary)
	api.GET("/history", h.ListHistory)
	api.POST("/history", h.RecordHistory)

	// Catalog and reviews
	api.GET("/movies/popular", h.Popular)
	api.GET("/movies/top-rated", h.TopRated)
	api.GET("/movies/trending", h.Trending)
	api.GET("/movies/search", h.SearchMovies)
	api.GET("/movies/discover", h.Discover)
	api.GET("/movies/category/:category", h.MoviesByCategory)
	api.GET("/movies/:movieId", h.MovieDetails)
	api.GET("/movies/:movieId/reviews", h.ListReviews)
	api.POST("/movies/:movieId/reviews", h.CreateReview)
	api.POST("/movies/:movieId/reviews/:reviewId/votes", h.VoteReview)
	api.GET("/movies/:movieId/rating", h.MovieRating)

	// Profile and social
	api.GET("/profile", h.GetProfile)
	api.PUT("/profile", h.UpdateProfile)
	api.GET("/friends", h.ListFriends)
	api.POST("/friends", h.AddFriend)
	api.DELETE("/friends/:friendId", h.RemoveFriend)
	api.GET("/friends/activities", h.FriendActivities)
	api.GET("/shares", h.ListShares)
	api.POST("/shares", h.ShareWatchlist)
	api.GET("/activities", h.ListActivities)
	api.POST("/activities", h.RecordActivity)

	// Recommendations
	api.GET("/recommendations/preferences", h.Preferences)
	api.POST("/recommendations", h.Recommend)
	api.POST("/recommendations/similar", h.Similar)

	// Quiz
	api.GET("/quiz/questions", h.Questions)
	api.GET("/quiz/daily", h.Daily)
	api.POST("/quiz/results", h.SubmitResults)
	api.GET("/quiz/stats", h.QuizStats)
	api.GET("/quiz/leaderboard", h.Leaderboard)
	api.GET("/quiz/badges", h.Badges)
	api.GET("/quiz/categories", h.Categories)
	api.POST("/quiz/sessions", h.StartSession)
	api.GET("/quiz/sessions/:id", h.GetSession)
	api.POST("/quiz/sessions/:id/answer", h.AnswerSession)
	api.POST("/quiz/sessions/:id/next", h.NextQuestion)

	// Storage and live updates
	api.GET("/storage", h.Storage)
	api.GET("/events", h.Events)
}

// idempotencyLookup reports live records so the validator can flag replays.
func idempotencyLookup(st *repo.IdempotencyStore) middleware.IdempotencyLookup {
	if st == nil {
		return nil
	}
	return func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
		rec, err := st.Lookup(ctx, userID, scope, key, now)
		if err != nil {
			return false, nil
		}
		return rec != nil, nil
	}
}

// corsMiddleware allows every origin when the allowlist is empty; otherwise
// it echoes allowlisted origins with Vary: Origin. Either way ACAO is set even
// without a preflight so simple clients and health checks see it.
func corsMiddleware(allowed []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", "X-User-ID", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "Idempotency-Replayed"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(allowed) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	base.AllowOrigins = allowed
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := set[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody caps request bodies at maxBytes; reads past it fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}
