package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

func newIdemDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestGetIdempotency_BlankScopeOrKey_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	if rec, err := GetIdempotency(context.Background(), db, "u1", "   ", "k1", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank scope, got (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "u1", "/shares", "", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank key, got (%v, %v)", rec, err)
	}
}

func TestCreateThenGetIdempotency_RoundTrip(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "/api/v1/shares", "k1", 201, []byte(`{"id":"s1"}`), time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == "" || !rec.ExpiresAt.After(rec.CreatedAt) {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "/api/v1/shares", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != 201 || got.Body != `{"id":"s1"}` {
		t.Fatalf("unexpected readback: %+v", got)
	}

	// other user, same key: not visible
	if _, err := GetIdempotency(ctx, db, "u2", "/api/v1/shares", "k1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestGetIdempotency_Expired_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()
	if _, err := CreateIdempotency(ctx, db, "u1", "/s", "k1", 201, []byte(`{}`), time.Minute); err != nil {
		t.Fatalf("create: %v", err)
	}
	later := time.Now().UTC().Add(2 * time.Minute)
	if _, err := GetIdempotency(ctx, db, "u1", "/s", "k1", later); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}

	n, err := PurgeExpiredIdempotency(ctx, db, later)
	if err != nil || n != 1 {
		t.Fatalf("purge = (%d, %v); want (1, nil)", n, err)
	}
}

func TestCreateIdempotency_Duplicate(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()
	if _, err := CreateIdempotency(ctx, db, "u1", "/s", "k1", 201, []byte(`{}`), time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "/s", "k1", 201, []byte(`{}`), time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateIdempotency_NoTable_ReturnsRawError(t *testing.T) {
	db := newIdemDB(t) // no migration
	_, err := CreateIdempotency(context.Background(), db, "u1", "/s", "k1", 201, []byte(`{}`), time.Hour)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected a non-duplicate error without the table, got %v", err)
	}
}

func TestIdempotencyStore_SaveLookupPurge(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()
	s := NewIdempotencyStore(db, time.Minute)

	if err := s.Save(ctx, "u1", "/api/v1/shares", "k1", 201, []byte(`{"id":"x"}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// a concurrent retry that lost the race is fine
	if err := s.Save(ctx, "u1", "/api/v1/shares", "k1", 201, []byte(`{}`)); err != nil {
		t.Fatalf("duplicate Save should be swallowed: %v", err)
	}

	rec, err := s.Lookup(ctx, "u1", "/api/v1/shares", "k1", time.Now().UTC())
	if err != nil || rec.Status != 201 || rec.Body != `{"id":"x"}` {
		t.Fatalf("Lookup = %+v, %v", rec, err)
	}
	if _, err := s.Lookup(ctx, "u2", "/api/v1/shares", "k1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other users must not see the record, got %v", err)
	}

	n, err := s.Purge(ctx, time.Now().UTC().Add(2*time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("Purge = %d, %v", n, err)
	}
}

func TestIdempotencyStore_NilIsInert(t *testing.T) {
	var s *IdempotencyStore
	ctx := context.Background()
	if _, err := s.Lookup(ctx, "u", "/x", "k", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("nil store Lookup = %v", err)
	}
	if err := s.Save(ctx, "u", "/x", "k", 200, nil); err != nil {
		t.Fatalf("nil store Save = %v", err)
	}
	if n, err := s.Purge(ctx, time.Now()); n != 0 || err != nil {
		t.Fatalf("nil store Purge = %d, %v", n, err)
	}
}
