package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

// SQLiteOptions tunes OpenSQLite.
type SQLiteOptions struct {
	// Tracing installs the GORM OpenTelemetry plugin so queries become spans.
	Tracing bool
	// Silent disables GORM's own query logging.
	Silent bool
	// MaxOpenConns caps the pool. Default 10.
	MaxOpenConns int
}

// pragmas run on every file-backed database. WAL lets the document store
// serve reads while the idempotency purge writes.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

// OpenSQLite opens or creates the database at path. The parent directory
// must exist. In-memory DSNs (":memory:" or "file:...mode=memory") skip the
// file checks and the WAL pragmas.
func OpenSQLite(path string, opts ...SQLiteOptions) (*gorm.DB, error) {
	var o SQLiteOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 10
	}

	mem := isMemoryDSN(path)
	if !mem {
		if dir := filepath.Dir(path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, err
			}
		}
	}

	gcfg := &gorm.Config{}
	if o.Silent {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, err
	}
	if o.Tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}

	if !mem {
		for _, p := range pragmas {
			if err := db.Exec(p).Error; err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxOpenConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// AutoMigrate creates the documents and idempotency tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Document{},
		&domain.Idempotency{},
	)
}

func isMemoryDSN(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
