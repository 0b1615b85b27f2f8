// Review and profile HTTP handlers.
//
// Reviews are public and keyed by movie:
//   - GET  /movies/{movieId}/reviews                       (most helpful first)
//   - POST /movies/{movieId}/reviews                       (idempotent)
//   - POST /movies/{movieId}/reviews/{reviewId}/votes      (once per voter)
//   - GET  /movies/{movieId}/rating                        (average and own rating)
//
// The profile decides how the caller appears as a review author:
//   - GET /profile
//   - PUT /profile
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/services"
)

// CreateReviewRequest is the JSON payload of a new review. Author fields are
// optional and default to the caller's profile.
type CreateReviewRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5" example:"4"`
	Text       string `json:"text" binding:"required" example:"Loved the ending."`
	UserName   string `json:"userName,omitempty" example:"Sam"`
	UserAvatar string `json:"userAvatar,omitempty"`
}

// VoteRequest is the JSON payload of a helpfulness vote.
type VoteRequest struct {
	Helpful *bool `json:"helpful" binding:"required" example:"true"`
}

// ReviewsResponse lists a movie's reviews with their average rating.
type ReviewsResponse struct {
	MovieID       int64           `json:"movieId" example:"27205"`
	Reviews       []domain.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating" example:"4.5"`
	Count         int             `json:"count" example:"2"`
}

// RatingResponse summarizes ratings of a movie.
type RatingResponse struct {
	MovieID       int64   `json:"movieId" example:"27205"`
	AverageRating float64 `json:"averageRating" example:"4.5"`
	Count         int     `json:"count" example:"2"`
	// UserRating is the caller's rating, 0 when they did not review the movie.
	UserRating int `json:"userRating" example:"4"`
}

// UpdateProfileRequest is the JSON payload of a profile update. Blank fields
// keep their current value.
type UpdateProfileRequest struct {
	Name   string `json:"name" example:"Sam"`
	Avatar string `json:"avatar"`
}

// ListReviews godoc
// @ID          listReviews
// @Summary     List a movie's reviews
// @Description Returns the reviews sorted by helpful votes, most helpful first. Supports weak ETag via If-None-Match.
// @Tags        Reviews
// @Produce     json
//
// @Param       movieId        path    int     true  "Movie ID"  example(27205)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.ReviewsResponse
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse "Bad movie id"
// @Router      /movies/{movieId}/reviews [get]
func (h *Handlers) ListReviews(c *gin.Context) {
	id, okID := idParam(c, "movieId")
	if !okID {
		return
	}
	ctx := c.Request.Context()
	list := h.reviews.ListSorted(ctx, id)
	okETag(c, ReviewsResponse{
		MovieID:       id,
		Reviews:       list,
		AverageRating: h.reviews.AverageRating(ctx, id),
		Count:         len(list),
	})
}

// CreateReview godoc
// @ID          createReview
// @Summary     Review a movie
// @Description Adds a review with a 1..5 rating. Supports idempotency via the Idempotency-Key header (same key → same review).
// @Tags        Reviews
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       movieId          path    int     true  "Movie ID"  example(27205)
// @Param       body             body    handlers.CreateReviewRequest  true  "Review"
//
// @Success     201  {object}  domain.Review
// @Failure     400  {object}  handlers.ErrorResponse "Invalid review"
// @Failure     500  {object}  handlers.ErrorResponse "Review could not be saved"
// @Router      /movies/{movieId}/reviews [post]
func (h *Handlers) CreateReview(c *gin.Context) {
	id, okID := idParam(c, "movieId")
	if !okID {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		fail(c, http.StatusBadRequest, ErrCodeInvalidReview, services.ErrInvalidReview.Error())
		return
	}
	if h.replay(c) {
		return
	}

	r, err := h.reviews.Add(c.Request.Context(), id, domain.ReviewDraft{
		UserID:     userID(c),
		UserName:   strings.TrimSpace(req.UserName),
		UserAvatar: strings.TrimSpace(req.UserAvatar),
		Rating:     req.Rating,
		Text:       req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReview):
			fail(c, http.StatusBadRequest, ErrCodeInvalidReview, err.Error())
		case errors.Is(err, services.ErrInvalidMovie):
			fail(c, http.StatusBadRequest, ErrCodeInvalidMovie, err.Error())
		case errors.Is(err, services.ErrWriteFailed):
			fail(c, http.StatusInternalServerError, ErrCodeWriteFailed, "review could not be saved")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	h.created(c, http.StatusCreated, r)
}

// VoteReview godoc
// @ID          voteReview
// @Summary     Vote on a review
// @Description Counts one helpful or not-helpful vote per voter.
// @Tags        Reviews
// @Accept      json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       movieId    path    int     true  "Movie ID"   example(27205)
// @Param       reviewId   path    int     true  "Review ID"  example(1718000000000)
// @Param       body       body    handlers.VoteRequest  true  "Vote"
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Review not found"
// @Failure     409  {object}  handlers.ErrorResponse "Already voted"
// @Router      /movies/{movieId}/reviews/{reviewId}/votes [post]
func (h *Handlers) VoteReview(c *gin.Context) {
	movieID, okID := idParam(c, "movieId")
	if !okID {
		return
	}
	reviewID, okID := idParam(c, "reviewId")
	if !okID {
		return
	}
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "helpful must be true or false")
		return
	}

	ctx := c.Request.Context()
	if !hasReview(h.reviews.ListForMovie(ctx, movieID), reviewID) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "review not found")
		return
	}
	if !h.reviews.Vote(ctx, movieID, reviewID, *req.Helpful, userID(c)) {
		fail(c, http.StatusConflict, ErrCodeAlreadyVoted, "already voted on this review")
		return
	}
	noContent(c)
}

// MovieRating godoc
// @ID          movieRating
// @Summary     Rating summary of a movie
// @Tags        Reviews
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       movieId    path    int     true  "Movie ID"  example(27205)
//
// @Success     200  {object}  handlers.RatingResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad movie id"
// @Router      /movies/{movieId}/rating [get]
func (h *Handlers) MovieRating(c *gin.Context) {
	id, okID := idParam(c, "movieId")
	if !okID {
		return
	}
	ctx := c.Request.Context()
	ok(c, http.StatusOK, RatingResponse{
		MovieID:       id,
		AverageRating: h.reviews.AverageRating(ctx, id),
		Count:         len(h.reviews.ListForMovie(ctx, id)),
		UserRating:    h.reviews.UserRating(ctx, id, userID(c)),
	})
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Get the caller's profile
// @Description Creates the default profile on first use.
// @Tags        Profile
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  domain.UserProfile
// @Router      /profile [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	ok(c, http.StatusOK, h.profiles.Get(c.Request.Context(), userID(c)))
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Update the caller's profile
// @Tags        Profile
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.UpdateProfileRequest  true  "Profile fields"
//
// @Success     200  {object}  domain.UserProfile
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Write failed"
// @Router      /profile [put]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p, saved := h.profiles.Update(c.Request.Context(), userID(c), domain.UserProfile{Name: req.Name, Avatar: req.Avatar})
	if !saved {
		fail(c, http.StatusInternalServerError, ErrCodeWriteFailed, "profile could not be saved")
		return
	}
	ok(c, http.StatusOK, p)
}

func hasReview(list []domain.Review, id int64) bool {
	for _, r := range list {
		if r.ID == id {
			return true
		}
	}
	return false
}
