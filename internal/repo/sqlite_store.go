package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

// SQLiteStore persists documents in the documents table.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore wraps an opened and migrated database.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc domain.Document
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite get %q: %w", key, err)
	}
	return []byte(doc.Value), true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	doc := domain.Document{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("sqlite put %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&domain.Document{}).Error; err != nil {
		return fmt.Errorf("sqlite delete %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the *gorm.DB is owned by the caller, which also uses it
// for idempotency records.
func (s *SQLiteStore) Close() error { return nil }

// PrefixStats returns the number of documents whose key starts with prefix
// and the most recent update among them (nil when there are none).
func (s *SQLiteStore) PrefixStats(ctx context.Context, prefix string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := s.db.WithContext(ctx).Model(&domain.Document{}).Where("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}
	// avoid MAX() -> TEXT in SQLite
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
