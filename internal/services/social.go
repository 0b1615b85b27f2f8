package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

const socialTracer = "services/SocialService"

const (
	// DefaultActivityLimit caps the activity feed.
	DefaultActivityLimit = 50

	friendPreviewCount = 5
	friendPreviewSpan  = 24 * time.Hour
)

// SocialService manages friends, shared watchlists and the activity feed.
// Each of the three is its own document with its own change topic.
type SocialService struct {
	base
	ActivityLimit int
	// Watchlist supplies the snapshot when ShareWatchlist gets none.
	Watchlist *WatchlistService
	// Rand drives the synthesized friend activity timestamps. Nil uses the
	// global source; a set Rand must not be shared across goroutines.
	Rand *rand.Rand
	// NewID generates friend and share ids.
	NewID func() string
}

// NewSocialService builds a SocialService.
func NewSocialService(st repo.Store, bus *events.Bus, locks *kv.Locker, watchlist *WatchlistService, activityLimit int) *SocialService {
	if activityLimit <= 0 || activityLimit > DefaultActivityLimit {
		activityLimit = DefaultActivityLimit
	}
	return &SocialService{
		base:          newBase(st, bus, locks),
		ActivityLimit: activityLimit,
		Watchlist:     watchlist,
		NewID:         uuid.NewString,
	}
}

// Friends returns the friend list in the order friends were added.
func (s *SocialService) Friends(ctx context.Context, userID string) []domain.Friend {
	ctx, span := startSpan(ctx, socialTracer, "Friends", userID)
	defer span.End()
	return s.friends(ctx, userID)
}

// AddFriend adds f unless a friend with the same id exists. A missing id is
// generated and a missing avatar derived from the name. The stored friend is
// returned alongside whether the list changed.
func (s *SocialService) AddFriend(ctx context.Context, userID string, f domain.Friend) (domain.Friend, bool, error) {
	ctx, span := startSpan(ctx, socialTracer, "AddFriend", userID)
	defer span.End()

	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return domain.Friend{}, false, ErrInvalidFriend
	}
	f.ID = strings.TrimSpace(f.ID)
	if f.ID == "" {
		f.ID = s.newID()
	}
	if strings.TrimSpace(f.Avatar) == "" {
		f.Avatar = domain.AvatarURL(f.Name)
	}

	key := kv.Key(userID, kv.NameFriends)
	unlock := s.lock(key)
	defer unlock()

	list := s.friends(ctx, userID)
	if i := slices.IndexFunc(list, func(x domain.Friend) bool { return x.ID == f.ID }); i >= 0 {
		return list[i], false, nil
	}
	f.AddedAt = s.now()
	f.Status = domain.FriendStatusActive
	list = append(list, f)
	if !kv.Write(ctx, s.Store, key, list) {
		return f, false, nil
	}
	s.publish(userID, events.TopicFriends)
	return f, true, nil
}

// RemoveFriend drops friendID. It is true unless persisting failed.
func (s *SocialService) RemoveFriend(ctx context.Context, userID, friendID string) bool {
	ctx, span := startSpan(ctx, socialTracer, "RemoveFriend", userID, attribute.String("friend.id", friendID))
	defer span.End()

	key := kv.Key(userID, kv.NameFriends)
	unlock := s.lock(key)
	defer unlock()

	list := slices.DeleteFunc(s.friends(ctx, userID), func(f domain.Friend) bool { return f.ID == friendID })
	if !kv.Write(ctx, s.Store, key, list) {
		return false
	}
	s.publish(userID, events.TopicFriends)
	return true
}

// ShareWatchlist records a shared snapshot of the watchlist for recipients
// and logs a share activity. A nil snapshot shares the current watchlist.
// When the snapshot cannot be stored no activity is logged and
// ErrWriteFailed is returned.
func (s *SocialService) ShareWatchlist(ctx context.Context, userID string, snapshot []domain.WatchlistEntry, recipients []string, message string) (domain.SharedList, error) {
	ctx, span := startSpan(ctx, socialTracer, "ShareWatchlist", userID, attribute.Int("recipients", len(recipients)))
	defer span.End()

	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" && !slices.Contains(to, r) {
			to = append(to, r)
		}
	}
	if len(to) == 0 {
		return domain.SharedList{}, ErrNoRecipients
	}
	if snapshot == nil && s.Watchlist != nil {
		snapshot = s.Watchlist.List(ctx, userID)
	}

	now := s.now()
	rec := domain.SharedList{
		ID:         s.newID(),
		Watchlist:  append([]domain.WatchlistEntry{}, snapshot...),
		SharedWith: to,
		Message:    strings.TrimSpace(message),
		SharedAt:   now,
	}

	key := kv.Key(userID, kv.NameShared)
	unlock := s.lock(key)
	lists := s.sharedLists(ctx, userID)
	lists = append(lists, rec)
	saved := kv.Write(ctx, s.Store, key, lists)
	unlock()
	if !saved {
		return domain.SharedList{}, ErrWriteFailed
	}

	s.RecordActivity(ctx, userID, domain.Activity{
		Type:      domain.ActivityShare,
		Content:   fmt.Sprintf("Shared a watchlist with %d friends", len(to)),
		Timestamp: now,
	})
	return rec, nil
}

// SharedLists returns every share the user made, oldest first.
func (s *SocialService) SharedLists(ctx context.Context, userID string) []domain.SharedList {
	ctx, span := startSpan(ctx, socialTracer, "SharedLists", userID)
	defer span.End()
	return s.sharedLists(ctx, userID)
}

// RecordActivity prepends a to the feed and keeps the newest ActivityLimit
// entries. A zero timestamp is set to now.
func (s *SocialService) RecordActivity(ctx context.Context, userID string, a domain.Activity) (bool, error) {
	ctx, span := startSpan(ctx, socialTracer, "RecordActivity", userID, attribute.String("activity.type", a.Type))
	defer span.End()

	a.Type = strings.TrimSpace(a.Type)
	a.Content = strings.TrimSpace(a.Content)
	if a.Type == "" || a.Content == "" {
		return false, ErrInvalidActivity
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}

	key := kv.Key(userID, kv.NameActivities)
	unlock := s.lock(key)
	defer unlock()

	prev := s.activities(ctx, userID)
	limit := s.activityLimit()
	next := make([]domain.Activity, 0, min(len(prev)+1, limit))
	next = append(next, a)
	next = append(next, prev[:min(len(prev), limit-1)]...)
	if !kv.Write(ctx, s.Store, key, next) {
		return false, nil
	}
	s.publish(userID, events.TopicActivities)
	return true, nil
}

// Activities returns the feed, newest first.
func (s *SocialService) Activities(ctx context.Context, userID string) []domain.Activity {
	ctx, span := startSpan(ctx, socialTracer, "Activities", userID)
	defer span.End()
	return s.activities(ctx, userID)
}

// FriendActivities synthesizes a preview row for each of the first five
// friends, stamped at a random moment within the last day.
func (s *SocialService) FriendActivities(ctx context.Context, userID string) []domain.FriendActivity {
	ctx, span := startSpan(ctx, socialTracer, "FriendActivities", userID)
	defer span.End()

	friends := s.friends(ctx, userID)
	now := s.now()
	out := make([]domain.FriendActivity, 0, min(len(friends), friendPreviewCount))
	for _, f := range friends[:min(len(friends), friendPreviewCount)] {
		out = append(out, domain.FriendActivity{
			FriendID:     f.ID,
			FriendName:   f.Name,
			FriendAvatar: f.Avatar,
			Action:       "added to watchlist",
			MovieTitle:   "Sample Movie",
			Timestamp:    now.Add(-s.jitter(friendPreviewSpan)),
		})
	}
	return out
}

func (s *SocialService) friends(ctx context.Context, userID string) []domain.Friend {
	l := kv.Read(ctx, s.Store, kv.Key(userID, kv.NameFriends), []domain.Friend{})
	if l == nil {
		return []domain.Friend{}
	}
	return l
}

func (s *SocialService) sharedLists(ctx context.Context, userID string) []domain.SharedList {
	l := kv.Read(ctx, s.Store, kv.Key(userID, kv.NameShared), []domain.SharedList{})
	if l == nil {
		return []domain.SharedList{}
	}
	return l
}

func (s *SocialService) activities(ctx context.Context, userID string) []domain.Activity {
	l := kv.Read(ctx, s.Store, kv.Key(userID, kv.NameActivities), []domain.Activity{})
	if l == nil {
		return []domain.Activity{}
	}
	return l
}

func (s *SocialService) activityLimit() int {
	if s.ActivityLimit <= 0 || s.ActivityLimit > DefaultActivityLimit {
		return DefaultActivityLimit
	}
	return s.ActivityLimit
}

func (s *SocialService) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

func (s *SocialService) jitter(span time.Duration) time.Duration {
	if s.Rand != nil {
		return time.Duration(s.Rand.Int64N(int64(span)))
	}
	return time.Duration(rand.Int64N(int64(span)))
}
