package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

// ErrDuplicate indicates that an idempotency record already exists for the
// given (user_id, scope, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND scope = ? AND key = ? AND expires_at > ?", userID, scope, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateIdempotency stores the response of a completed request and returns
// ErrDuplicate on unique violation.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, scope, key string, status int, body []byte, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:        uuid.NewString(),
		UserID:    userID,
		Scope:     scope,
		Key:       key,
		Status:    status,
		Body:      string(body),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records that expired before now.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// IdempotencyStore binds the idempotency functions to a database and a TTL.
type IdempotencyStore struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyStore returns a store whose records live for ttl
// (24h when ttl <= 0).
func NewIdempotencyStore(db *gorm.DB, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{DB: db, TTL: ttl}
}

// Lookup returns the live record for (userID, scope, key) or ErrNotFound.
func (s *IdempotencyStore) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if s == nil || s.DB == nil {
		return nil, ErrNotFound
	}
	return GetIdempotency(ctx, s.DB, userID, scope, key, now)
}

// Save records a completed response. A concurrent duplicate is not an error.
func (s *IdempotencyStore) Save(ctx context.Context, userID, scope, key string, status int, body []byte) error {
	if s == nil || s.DB == nil {
		return nil
	}
	_, err := CreateIdempotency(ctx, s.DB, userID, scope, key, status, body, s.TTL)
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	return err
}

// Purge deletes records that expired before now.
func (s *IdempotencyStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, nil
	}
	return PurgeExpiredIdempotency(ctx, s.DB, now)
}
