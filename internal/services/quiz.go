package services

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/quiz"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

const quizTracer = "services/QuizService"

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 2 * time.Hour

// SessionView is what a player sees of a session. The current question
// carries no answer key; CorrectOption is revealed once it was answered.
type SessionView struct {
	ID            string         `json:"id"`
	Mode          string         `json:"mode"`
	Status        quiz.Status    `json:"status"`
	Index         int            `json:"index"`
	Total         int            `json:"total"`
	Question      *quiz.Question `json:"question,omitempty"`
	Answer        *int           `json:"answer,omitempty"`
	CorrectOption *int           `json:"correctOption,omitempty"`
	Deadline      *time.Time     `json:"deadline,omitempty"`
	RemainingMs   int64          `json:"remainingMs"`
	Result        *quiz.Result   `json:"result,omitempty"`
	Stats         *quiz.Stats    `json:"stats,omitempty"`
}

type sessionEntry struct {
	mu      sync.Mutex
	s       *quiz.Session
	applied bool
	stats   *quiz.Stats
}

// QuizService persists quiz stats and runs timed quiz sessions. Sessions
// live in memory only and are dropped after SessionTTL without activity.
type QuizService struct {
	base
	// Location decides which calendar day "today" is.
	Location *time.Location
	// PerQuestion is the countdown of every session question.
	PerQuestion time.Duration
	SessionTTL  time.Duration
	// NewID generates session ids.
	NewID func() string

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewQuizService builds a QuizService. A nil loc means UTC.
func NewQuizService(st repo.Store, bus *events.Bus, locks *kv.Locker, loc *time.Location, perQuestion, ttl time.Duration) *QuizService {
	if loc == nil {
		loc = time.UTC
	}
	if perQuestion <= 0 {
		perQuestion = quiz.DefaultQuestionTime
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &QuizService{
		base:        newBase(st, bus, locks),
		Location:    loc,
		PerQuestion: perQuestion,
		SessionTTL:  ttl,
		NewID:       uuid.NewString,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sessions:    make(map[string]*sessionEntry),
	}
}

// SetRand replaces the source used for random question selection.
func (s *QuizService) SetRand(r *rand.Rand) {
	s.rngMu.Lock()
	s.rng = r
	s.rngMu.Unlock()
}

// Questions picks a random quiz. count <= 0 means quiz.DefaultCount; an
// empty or "all" filter matches everything.
func (s *QuizService) Questions(count int, difficulty, category string) []quiz.Question {
	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	if difficulty == quiz.CategoryAll {
		difficulty = ""
	}
	category = strings.ToLower(strings.TrimSpace(category))

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return quiz.Random(quiz.Bank(), count, difficulty, category, s.rng)
}

// Daily returns today's questions, the same for every user.
func (s *QuizService) Daily() []quiz.Question {
	return quiz.Daily(quiz.Bank(), s.now().In(s.Location))
}

// Today is the current calendar date in Location, as YYYY-MM-DD.
func (s *QuizService) Today() string {
	return s.now().In(s.Location).Format(time.DateOnly)
}

// Stats returns the user's cumulative quiz stats.
func (s *QuizService) Stats(ctx context.Context, userID string) quiz.Stats {
	ctx, span := startSpan(ctx, quizTracer, "Stats", userID)
	defer span.End()
	return s.stats(ctx, userID)
}

// DailyCompleted reports whether the user already played today.
func (s *QuizService) DailyCompleted(ctx context.Context, userID string) bool {
	return quiz.DailyCompleted(s.Stats(ctx, userID), s.now(), s.Location)
}

// Leaderboard ranks the user among the fixed competitors.
func (s *QuizService) Leaderboard(ctx context.Context, userID string) []quiz.LeaderboardEntry {
	return quiz.Leaderboard(s.Stats(ctx, userID))
}

// Finish grades a quiz played outside a session and folds the result into
// the user's stats. questionIDs and answers pair up by position; a nil answer
// counts as wrong. A question listed twice is rejected.
func (s *QuizService) Finish(ctx context.Context, userID string, questionIDs []int, answers []*int) (quiz.Result, quiz.Stats, error) {
	ctx, span := startSpan(ctx, quizTracer, "Finish", userID, attribute.Int("questions", len(questionIDs)))
	defer span.End()

	seen := make(map[int]struct{}, len(questionIDs))
	for _, id := range questionIDs {
		if _, dup := seen[id]; dup {
			return quiz.Result{}, quiz.Stats{}, ErrDuplicateQuestion
		}
		seen[id] = struct{}{}
	}
	qs := quiz.Lookup(questionIDs)
	if len(qs) == 0 {
		return quiz.Result{}, quiz.Stats{}, ErrNoQuestions
	}
	if len(qs) != len(questionIDs) || len(answers) != len(qs) {
		return quiz.Result{}, quiz.Stats{}, ErrAnswerMismatch
	}
	r := quiz.Score(qs, answers)
	return r, s.apply(ctx, userID, r), nil
}

// StartSession begins a timed session. Daily mode plays today's questions
// and is refused once the user played today.
func (s *QuizService) StartSession(ctx context.Context, userID, mode string, count int, difficulty, category string) (SessionView, error) {
	ctx, span := startSpan(ctx, quizTracer, "StartSession", userID, attribute.String("quiz.mode", mode))
	defer span.End()

	var qs []quiz.Question
	switch mode {
	case quiz.ModeDaily:
		if s.DailyCompleted(ctx, userID) {
			return SessionView{}, ErrDailyCompleted
		}
		qs = s.Daily()
	default:
		mode = quiz.ModeRandom
		qs = s.Questions(count, difficulty, category)
	}

	id := uuid.NewString()
	if s.NewID != nil {
		id = s.NewID()
	}
	sess, err := quiz.NewSession(id, userID, mode, qs, s.PerQuestion)
	if err != nil {
		return SessionView{}, err
	}
	now := s.now()
	sess.Start(now)

	e := &sessionEntry{s: sess}
	s.mu.Lock()
	s.evictLocked(now)
	s.sessions[id] = e
	s.mu.Unlock()

	return view(e, now), nil
}

// Session returns the session after applying any expired countdowns.
func (s *QuizService) Session(ctx context.Context, userID, id string) (SessionView, error) {
	return s.withSession(ctx, userID, id, "Session", func(sess *quiz.Session, now time.Time) error {
		sess.Tick(now)
		return nil
	})
}

// AnswerSession locks option in as the answer to the current question.
func (s *QuizService) AnswerSession(ctx context.Context, userID, id string, option int) (SessionView, error) {
	return s.withSession(ctx, userID, id, "AnswerSession", func(sess *quiz.Session, now time.Time) error {
		return sess.Answer(option, now)
	})
}

// NextSession moves to the following question, finishing the session after
// the last one.
func (s *QuizService) NextSession(ctx context.Context, userID, id string) (SessionView, error) {
	return s.withSession(ctx, userID, id, "NextSession", func(sess *quiz.Session, now time.Time) error {
		return sess.Next(now)
	})
}

// Sessions is the number of sessions held in memory.
func (s *QuizService) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *QuizService) withSession(ctx context.Context, userID, id, op string, fn func(*quiz.Session, time.Time) error) (SessionView, error) {
	ctx, span := startSpan(ctx, quizTracer, op, userID, attribute.String("quiz.session", id))
	defer span.End()

	now := s.now()
	s.mu.Lock()
	s.evictLocked(now)
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok || e.s.UserID != userID {
		return SessionView{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.s, now); err != nil {
		return SessionView{}, err
	}
	// A completed session counts towards the stats once, whichever call
	// observed the completion.
	if e.s.Status == quiz.Completed && !e.applied && e.s.Result != nil {
		st := s.apply(ctx, userID, *e.s.Result)
		e.applied = true
		e.stats = &st
	}
	return view(e, now), nil
}

func (s *QuizService) evictLocked(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.touched()) > s.SessionTTL {
			delete(s.sessions, id)
		}
	}
}

func (e *sessionEntry) touched() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.Touched
}

func (s *QuizService) apply(ctx context.Context, userID string, r quiz.Result) quiz.Stats {
	key := kv.Key(userID, kv.NameQuizStats)
	unlock := s.lock(key)
	defer unlock()

	st := s.stats(ctx, userID).Apply(r, s.now())
	kv.Write(ctx, s.Store, key, st)
	return st
}

func (s *QuizService) stats(ctx context.Context, userID string) quiz.Stats {
	st := kv.Read(ctx, s.Store, kv.Key(userID, kv.NameQuizStats), quiz.DefaultStats())
	if st.Badges == nil {
		st.Badges = []string{}
	}
	return st
}

func view(e *sessionEntry, now time.Time) SessionView {
	sess := e.s
	v := SessionView{
		ID:     sess.ID,
		Mode:   sess.Mode,
		Status: sess.Status,
		Index:  sess.Index,
		Total:  len(sess.Questions),
		Result: sess.Result,
		Stats:  e.stats,
	}
	if q, ok := sess.Current(); ok {
		pub := quiz.Public([]quiz.Question{q})[0]
		v.Question = &pub
		if a := sess.Answers[sess.Index]; a != nil {
			ans, correct := *a, q.Correct
			v.Answer = &ans
			v.CorrectOption = &correct
		}
		d := sess.Deadline
		v.Deadline = &d
		v.RemainingMs = sess.Remaining(now).Milliseconds()
	}
	return v
}
