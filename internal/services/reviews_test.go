package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

func newReviews(t *testing.T) (*ReviewService, *events.Bus, *clock) {
	t.Helper()
	st := repo.NewMemoryStore()
	bus := events.New(16)
	t.Cleanup(bus.Close)
	locks := &kv.Locker{}
	clk := &clock{now: t0}
	s := NewReviewService(st, bus, locks, NewProfileService(st, bus, locks))
	s.Now = clk.Now
	return s, bus, clk
}

func TestReviews_AddValidates(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newReviews(t)

	cases := []domain.ReviewDraft{
		{UserID: "u1", Rating: 0, Text: "ok"},
		{UserID: "u1", Rating: 6, Text: "ok"},
		{UserID: "u1", Rating: 3, Text: "   "},
	}
	for _, d := range cases {
		if _, err := s.Add(ctx, 10, d); !errors.Is(err, ErrInvalidReview) {
			t.Fatalf("Add(%+v): expected ErrInvalidReview, got %v", d, err)
		}
	}
	if _, err := s.Add(ctx, 0, domain.ReviewDraft{UserID: "u1", Rating: 3, Text: "x"}); !errors.Is(err, ErrInvalidMovie) {
		t.Fatalf("expected ErrInvalidMovie, got %v", err)
	}
	if n := len(s.ListForMovie(ctx, 10)); n != 0 {
		t.Fatalf("rejected drafts must not be stored, got %d", n)
	}
}

func TestReviews_AddFillsAuthorAndIDs(t *testing.T) {
	ctx := context.Background()
	s, bus, _ := newReviews(t)
	sub := bus.Subscribe("someone-else", events.TopicReviews)

	r1, err := s.Add(ctx, 10, domain.ReviewDraft{UserID: "u1", Rating: 4, Text: " Great "})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	r2, err := s.Add(ctx, 10, domain.ReviewDraft{UserID: "u2", UserName: "Bo", UserAvatar: "a.png", Rating: 2, Text: "Meh"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if r1.ID != t0.UnixMilli() || r2.ID != r1.ID+1 {
		t.Fatalf("ids should be the millisecond clock, bumped for uniqueness: %d %d", r1.ID, r2.ID)
	}
	if r1.UserName != "Movie Fan" || r1.UserAvatar != domain.AvatarURL("u1") || r1.Text != "Great" {
		t.Fatalf("author should come from the default profile: %+v", r1)
	}
	if r2.UserName != "Bo" || r2.UserAvatar != "a.png" {
		t.Fatalf("explicit author fields must be kept: %+v", r2)
	}
	if r1.Helpful != 0 || r1.NotHelpful != 0 || r1.VotedBy == nil || len(r1.VotedBy) != 0 {
		t.Fatalf("counters should start at zero: %+v", r1)
	}
	// reviews are public, every subscriber hears about them
	assertTopics(t, sub, events.TopicReviews, events.TopicReviews)
}

func TestReviews_VoteOncePerVoter(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newReviews(t)
	r, _ := s.Add(ctx, 10, domain.ReviewDraft{UserID: "u1", Rating: 5, Text: "Loved it"})

	if !s.Vote(ctx, 10, r.ID, true, "v1") {
		t.Fatalf("first vote should count")
	}
	if s.Vote(ctx, 10, r.ID, false, "v1") {
		t.Fatalf("changing a vote is not allowed")
	}
	if !s.Vote(ctx, 10, r.ID, false, "v2") {
		t.Fatalf("second voter should count")
	}
	if s.Vote(ctx, 10, r.ID+100, true, "v3") || s.Vote(ctx, 11, r.ID, true, "v3") {
		t.Fatalf("votes on missing reviews must fail")
	}

	got := s.ListForMovie(ctx, 10)[0]
	if got.Helpful != 1 || got.NotHelpful != 1 || len(got.VotedBy) != 2 {
		t.Fatalf("unexpected counters: %+v", got)
	}
}

func TestReviews_SortedAverageAndUserRating(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newReviews(t)

	if s.AverageRating(ctx, 10) != 0 || s.UserRating(ctx, 10, "u1") != 0 {
		t.Fatalf("no reviews should yield zeros")
	}
	a, _ := s.Add(ctx, 10, domain.ReviewDraft{UserID: "u1", Rating: 4, Text: "a"})
	b, _ := s.Add(ctx, 10, domain.ReviewDraft{UserID: "u2", Rating: 5, Text: "b"})
	c, _ := s.Add(ctx, 10, domain.ReviewDraft{UserID: "u1", Rating: 5, Text: "c"})
	s.Vote(ctx, 10, c.ID, true, "x")
	s.Vote(ctx, 10, c.ID, true, "y")
	s.Vote(ctx, 10, b.ID, true, "x")

	sorted := s.ListSorted(ctx, 10)
	if sorted[0].ID != c.ID || sorted[1].ID != b.ID || sorted[2].ID != a.ID {
		t.Fatalf("unexpected order: %d %d %d", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	if got := s.AverageRating(ctx, 10); got != 4.7 {
		t.Fatalf("AverageRating = %v, want 4.7", got)
	}
	if got := s.UserRating(ctx, 10, "u1"); got != 4 {
		t.Fatalf("UserRating should use the first review, got %d", got)
	}

	for i, rating := range []int{5, 3, 4} {
		_, _ = s.Add(ctx, 20, domain.ReviewDraft{UserID: fmt.Sprintf("u%d", i), Rating: rating, Text: "r"})
	}
	if got := s.AverageRating(ctx, 20); got != 4.0 {
		t.Fatalf("AverageRating(5,3,4) = %v, want 4", got)
	}
}

func TestReviews_AddStorageFailure(t *testing.T) {
	ctx := context.Background()
	bus := events.New(4)
	t.Cleanup(bus.Close)
	sub := bus.Subscribe("u1", events.TopicReviews)
	s := NewReviewService(readOnlyStore{repo.NewMemoryStore()}, bus, &kv.Locker{}, nil)

	r, err := s.Add(ctx, 10, domain.ReviewDraft{UserID: "u1", UserName: "Al", Rating: 4, Text: "Solid"})
	if !errors.Is(err, ErrWriteFailed) || r.ID != 0 {
		t.Fatalf("Add on failing store = %+v, %v; want ErrWriteFailed", r, err)
	}
	if n := len(s.ListForMovie(ctx, 10)); n != 0 {
		t.Fatalf("unsaved review is listed: %d", n)
	}
	assertTopics(t, sub)
}

func TestProfile_DefaultAndUpdate(t *testing.T) {
	ctx := context.Background()
	p := NewProfileService(repo.NewMemoryStore(), nil, nil)

	got := p.Get(ctx, "u1")
	if got.ID != "u1" || got.Name != "Movie Fan" || got.Avatar != domain.AvatarURL("u1") {
		t.Fatalf("unexpected default profile: %+v", got)
	}

	upd, ok := p.Update(ctx, "u1", domain.UserProfile{ID: "spoof", Name: "  Sam  "})
	if !ok || upd.ID != "u1" || upd.Name != "Sam" || upd.Avatar != got.Avatar {
		t.Fatalf("unexpected update: %+v ok=%v", upd, ok)
	}
	if again := p.Get(ctx, "u1"); again != upd {
		t.Fatalf("update not persisted: %+v", again)
	}
}
