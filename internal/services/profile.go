package services

import (
	"context"
	"strings"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

const profileTracer = "services/ProfileService"

// ProfileService owns how a user appears as a review author.
type ProfileService struct {
	base
}

// NewProfileService builds a ProfileService.
func NewProfileService(st repo.Store, bus *events.Bus, locks *kv.Locker) *ProfileService {
	return &ProfileService{base: newBase(st, bus, locks)}
}

// Get returns the stored profile. A user without one gets the default
// profile, which is persisted on the way out.
func (s *ProfileService) Get(ctx context.Context, userID string) domain.UserProfile {
	ctx, span := startSpan(ctx, profileTracer, "Get", userID)
	defer span.End()

	key := kv.Key(userID, kv.NameProfile)
	if p, ok := s.read(ctx, key); ok {
		return p
	}

	unlock := s.lock(key)
	defer unlock()
	if p, ok := s.read(ctx, key); ok {
		return p
	}
	p := domain.DefaultProfile(userID)
	kv.Write(ctx, s.Store, key, p)
	return p
}

// Update replaces the name and avatar. Blank fields keep the current value.
// The id always stays the caller's.
func (s *ProfileService) Update(ctx context.Context, userID string, in domain.UserProfile) (domain.UserProfile, bool) {
	ctx, span := startSpan(ctx, profileTracer, "Update", userID)
	defer span.End()

	key := kv.Key(userID, kv.NameProfile)
	cur := s.Get(ctx, userID)

	unlock := s.lock(key)
	defer unlock()

	if name := strings.TrimSpace(in.Name); name != "" {
		cur.Name = name
	}
	if avatar := strings.TrimSpace(in.Avatar); avatar != "" {
		cur.Avatar = avatar
	}
	cur.ID = userID
	return cur, kv.Write(ctx, s.Store, key, cur)
}

func (s *ProfileService) read(ctx context.Context, key string) (domain.UserProfile, bool) {
	p := kv.Read(ctx, s.Store, key, domain.UserProfile{})
	return p, p.ID != ""
}
