// Package services holds the movie-state stores and engines: watchlist,
// history, reviews, profile, social, recommendations and quiz. This file
// centralizes the service-level error values so handlers can map them to
// HTTP results with errors.Is.
package services

import (
	"errors"

	"github.com/tbourn/go-movie-backend/internal/catalog"
	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/quiz"
)

// Validation errors. None of them leave a mutation behind.
var (
	// ErrInvalidMovie is returned when a movie has no id or no title.
	ErrInvalidMovie = errors.New("movie needs an id and a title")

	// ErrInvalidReview is returned for a rating outside 1..5 or blank text.
	ErrInvalidReview = domain.ErrInvalidReview

	// ErrInvalidFriend is returned when a friend has no name.
	ErrInvalidFriend = errors.New("friend needs a name")

	// ErrNoRecipients is returned when a watchlist is shared with nobody.
	ErrNoRecipients = errors.New("select at least one friend to share with")

	// ErrInvalidActivity is returned when an activity has no type or content.
	ErrInvalidActivity = errors.New("activity needs a type and content")
)

// Quiz errors.
var (
	// ErrDailyCompleted is returned when a daily quiz is started on a day the
	// user already played.
	ErrDailyCompleted = errors.New("daily quiz already completed today")

	// ErrSessionNotFound indicates that the session does not exist, expired,
	// or belongs to another user.
	ErrSessionNotFound = errors.New("quiz session not found")

	// ErrAnswerLocked is returned for a second answer to the same question.
	ErrAnswerLocked = quiz.ErrAnswerLocked

	// ErrNotInProgress is returned when answering a finished session.
	ErrNotInProgress = quiz.ErrNotInProgress

	// ErrInvalidOption is returned for an answer index outside the options.
	ErrInvalidOption = quiz.ErrInvalidOption

	// ErrNoQuestions is returned when the filters leave no question to play.
	ErrNoQuestions = quiz.ErrNoQuestions

	// ErrAnswerMismatch is returned when answers and questions differ in length.
	ErrAnswerMismatch = errors.New("answers must match the questions one to one")

	// ErrDuplicateQuestion is returned when a result lists a question twice.
	ErrDuplicateQuestion = errors.New("each question may be answered once")
)

// ErrWriteFailed is returned when a mutation could not be persisted. Nothing
// is published or logged to the feed in that case.
var ErrWriteFailed = errors.New("could not persist the change")

// ErrCatalogDisabled is returned by catalog-backed operations when no
// catalog client is configured.
var ErrCatalogDisabled = catalog.ErrDisabled
