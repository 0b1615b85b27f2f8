// Package main runs the movie backend HTTP server.
//
// Startup order: environment (.env is optional), logger, tracing, the
// idempotency database, the document store selected by STORE_BACKEND, the
// event bus, the TMDB client and finally the Gin engine. SIGINT and SIGTERM
// drain in-flight requests within SHUTDOWN_TIMEOUT before the store closes.
//
// @title          Movie Backend API
// @version        1.0
// @description    Per-user watchlists, history, reviews, social activity, recommendations and quizzes.
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
// @BasePath       /api/v1
// @schemes        http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-movie-backend/internal/catalog"
	"github.com/tbourn/go-movie-backend/internal/config"
	"github.com/tbourn/go-movie-backend/internal/events"
	httpapi "github.com/tbourn/go-movie-backend/internal/http"
	"github.com/tbourn/go-movie-backend/internal/observability"
	"github.com/tbourn/go-movie-backend/internal/repo"
	"github.com/tbourn/go-movie-backend/internal/sysutil"
)

const purgeEvery = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "read .env: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log.Logger = sysutil.NewLogger(cfg.LogLevel, cfg.LogPretty, nil).Hook(observability.TraceHook{})
	version := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), "dev")

	if err := run(cfg, version); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, cfg.OTEL, version, attribute.String("store.backend", cfg.Store.Backend))
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.Store.DBPath, repo.SQLiteOptions{Tracing: cfg.OTEL.Enabled, Silent: true})
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", cfg.Store.DBPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer closeDB(db)

	store, err := openStore(cfg.Store, db)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	bus := events.New(cfg.EventsBuffer)
	defer bus.Close()

	cat := catalog.New(cfg.Catalog)
	if !cat.Enabled() {
		log.Warn().Msg("TMDB_API_KEY not set; catalog routes answer 503")
	}
	idem := repo.NewIdempotencyStore(db, cfg.IdempotencyTTL)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		Store:       store,
		Idempotency: idem,
		Catalog:     cat,
		Bus:         bus,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	var wg conc.WaitGroup
	errc := make(chan error, 1)
	wg.Go(func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Backend).
			Bool("catalog", cat.Enabled()).
			Str("version", version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	})
	wg.Go(func() { purgeIdempotency(ctx, idem) })

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case serveErr = <-errc:
		stop()
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	wg.Wait()
	return serveErr
}

// openStore returns the document store for cfg.Backend. The SQLite backend
// shares db with the idempotency records.
func openStore(cfg config.StoreConfig, db *gorm.DB) (repo.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return repo.NewSQLiteStore(db), nil
	case config.BackendBadger:
		bdb, err := repo.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, fmt.Errorf("open badger %s: %w", cfg.BadgerDir, err)
		}
		return repo.NewBadgerStore(bdb), nil
	case config.BackendMemory:
		log.Warn().Msg("memory store: state is lost on restart")
		return repo.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func purgeIdempotency(ctx context.Context, idem *repo.IdempotencyStore) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := idem.Purge(ctx, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("idempotency keys expired")
			}
		}
	}
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("close sqlite")
	}
}
