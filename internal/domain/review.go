package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// ErrInvalidReview is returned when a review draft has a rating outside 1..5
// or blank text.
var ErrInvalidReview = errors.New("review needs a rating between 1 and 5 and non-empty text")

// Review is a user's rating and text for a movie. Vote counters only grow and
// each voter is recorded once in VotedBy.
type Review struct {
	ID         int64     `json:"id" example:"1718000000000"`
	MovieID    int64     `json:"movieId" example:"27205"`
	UserID     string    `json:"userId" example:"user123"`
	UserName   string    `json:"userName" example:"Movie Fan"`
	UserAvatar string    `json:"userAvatar"`
	Rating     int       `json:"rating" example:"4"`
	Text       string    `json:"text" example:"Loved the ending."`
	CreatedAt  time.Time `json:"createdAt"`
	Helpful    int       `json:"helpful"`
	NotHelpful int       `json:"notHelpful"`
	VotedBy    []string  `json:"votedBy"`
}

// ReviewDraft is the caller-supplied part of a review.
type ReviewDraft struct {
	UserID     string
	UserName   string
	UserAvatar string
	Rating     int
	Text       string
}

// NewReview validates d and builds a review with zeroed counters.
func NewReview(movieID int64, d ReviewDraft, id int64, now time.Time) (Review, error) {
	text := strings.TrimSpace(d.Text)
	if d.Rating < 1 || d.Rating > 5 || text == "" {
		return Review{}, ErrInvalidReview
	}
	return Review{
		ID:         id,
		MovieID:    movieID,
		UserID:     d.UserID,
		UserName:   d.UserName,
		UserAvatar: d.UserAvatar,
		Rating:     d.Rating,
		Text:       text,
		CreatedAt:  now,
		VotedBy:    []string{},
	}, nil
}

// HasVoted reports whether voterID already voted on the review.
func (r *Review) HasVoted(voterID string) bool {
	return slices.Contains(r.VotedBy, voterID)
}

// Vote records one helpful or not-helpful vote. It returns false when the
// voter already voted.
func (r *Review) Vote(voterID string, helpful bool) bool {
	if r.HasVoted(voterID) {
		return false
	}
	if helpful {
		r.Helpful++
	} else {
		r.NotHelpful++
	}
	r.VotedBy = append(r.VotedBy, voterID)
	return true
}
