package services

import (
	"context"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

const reviewTracer = "services/ReviewService"

// reviewBook is the persisted shape of kv.ReviewsKey: reviews per movie id.
type reviewBook map[string][]domain.Review

// ReviewService keeps the public reviews of every movie. Each voter counts
// once per review; reviews are never edited or deleted.
type ReviewService struct {
	base
	// Profiles fills in author fields missing from a draft. Optional.
	Profiles *ProfileService
}

// NewReviewService builds a ReviewService.
func NewReviewService(st repo.Store, bus *events.Bus, locks *kv.Locker, profiles *ProfileService) *ReviewService {
	return &ReviewService{base: newBase(st, bus, locks), Profiles: profiles}
}

// ListForMovie returns a movie's reviews in the order they were written.
func (s *ReviewService) ListForMovie(ctx context.Context, movieID int64) []domain.Review {
	ctx, span := startSpan(ctx, reviewTracer, "ListForMovie", "", attribute.Int64("movie.id", movieID))
	defer span.End()
	return s.forMovie(ctx, movieID)
}

// ListSorted returns a movie's reviews, most helpful first. Equal counts keep
// their written order.
func (s *ReviewService) ListSorted(ctx context.Context, movieID int64) []domain.Review {
	out := s.ListForMovie(ctx, movieID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Helpful > out[j].Helpful })
	return out
}

// Add validates draft and appends the review to movieID. Author name and
// avatar come from the author's profile when the draft leaves them blank.
func (s *ReviewService) Add(ctx context.Context, movieID int64, d domain.ReviewDraft) (domain.Review, error) {
	ctx, span := startSpan(ctx, reviewTracer, "Add", d.UserID, attribute.Int64("movie.id", movieID))
	defer span.End()

	if movieID <= 0 {
		return domain.Review{}, ErrInvalidMovie
	}
	if s.Profiles != nil && (strings.TrimSpace(d.UserName) == "" || strings.TrimSpace(d.UserAvatar) == "") {
		p := s.Profiles.Get(ctx, d.UserID)
		if strings.TrimSpace(d.UserName) == "" {
			d.UserName = p.Name
		}
		if strings.TrimSpace(d.UserAvatar) == "" {
			d.UserAvatar = p.Avatar
		}
	}

	unlock := s.lock(kv.ReviewsKey)
	defer unlock()

	book := s.book(ctx)
	mk := movieKey(movieID)
	now := s.now()
	r, err := domain.NewReview(movieID, d, nextReviewID(book[mk], now.UnixMilli()), now)
	if err != nil {
		return domain.Review{}, err
	}
	book[mk] = append(book[mk], r)
	if !kv.Write(ctx, s.Store, kv.ReviewsKey, book) {
		return domain.Review{}, ErrWriteFailed
	}
	s.publish("", events.TopicReviews)
	return r, nil
}

// Vote records voterID's helpful or not-helpful vote. It is false when the
// review does not exist, the voter already voted or persisting failed.
func (s *ReviewService) Vote(ctx context.Context, movieID, reviewID int64, helpful bool, voterID string) bool {
	ctx, span := startSpan(ctx, reviewTracer, "Vote", voterID,
		attribute.Int64("movie.id", movieID),
		attribute.Int64("review.id", reviewID),
		attribute.Bool("helpful", helpful),
	)
	defer span.End()

	unlock := s.lock(kv.ReviewsKey)
	defer unlock()

	book := s.book(ctx)
	mk := movieKey(movieID)
	list := book[mk]
	i := slices.IndexFunc(list, func(r domain.Review) bool { return r.ID == reviewID })
	if i < 0 {
		return false
	}
	if !list[i].Vote(voterID, helpful) {
		return false
	}
	if !kv.Write(ctx, s.Store, kv.ReviewsKey, book) {
		return false
	}
	s.publish("", events.TopicReviews)
	return true
}

// AverageRating is the mean rating rounded to one decimal, 0 without reviews.
func (s *ReviewService) AverageRating(ctx context.Context, movieID int64) float64 {
	list := s.ListForMovie(ctx, movieID)
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(list))*10) / 10
}

// UserRating is the rating of userID's first review of movieID, 0 if none.
func (s *ReviewService) UserRating(ctx context.Context, movieID int64, userID string) int {
	for _, r := range s.ListForMovie(ctx, movieID) {
		if r.UserID == userID {
			return r.Rating
		}
	}
	return 0
}

func (s *ReviewService) book(ctx context.Context) reviewBook {
	b := kv.Read(ctx, s.Store, kv.ReviewsKey, reviewBook{})
	if b == nil {
		return reviewBook{}
	}
	return b
}

func (s *ReviewService) forMovie(ctx context.Context, movieID int64) []domain.Review {
	list := s.book(ctx)[movieKey(movieID)]
	if list == nil {
		return []domain.Review{}
	}
	return list
}

func movieKey(id int64) string { return strconv.FormatInt(id, 10) }

// nextReviewID is the generation time in milliseconds, bumped past any id
// already used for the movie.
func nextReviewID(existing []domain.Review, ms int64) int64 {
	id := ms
	for _, r := range existing {
		if r.ID >= id {
			id = r.ID + 1
		}
	}
	return id
}
