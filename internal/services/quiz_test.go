package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/quiz"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

func newQuiz(t *testing.T) (*QuizService, *clock) {
	t.Helper()
	clk := &clock{now: t0}
	s := NewQuizService(repo.NewMemoryStore(), nil, &kv.Locker{}, time.UTC, 30*time.Second, time.Hour)
	s.Now = clk.Now
	s.SetRand(rand.New(rand.NewPCG(7, 7)))
	return s, clk
}

func ptr(i int) *int { return &i }

// answersFor returns the correct answers for qs, except positions in wrong
// which get no answer.
func answersFor(qs []quiz.Question, wrong ...int) []*int {
	out := make([]*int, len(qs))
	for i, q := range qs {
		if !slices.Contains(wrong, i) {
			out[i] = ptr(q.Correct)
		}
	}
	return out
}

func ids(qs []quiz.Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestQuiz_QuestionsFilter(t *testing.T) {
	s, _ := newQuiz(t)
	all := s.Questions(0, "", "all")
	if len(all) != len(quiz.Bank()) {
		t.Fatalf("expected the whole bank, got %d", len(all))
	}
	for _, q := range s.Questions(10, "EASY", "") {
		if q.Difficulty != quiz.Easy {
			t.Fatalf("difficulty filter leaked %+v", q)
		}
	}
	if got := s.Questions(3, "", ""); len(got) != 3 {
		t.Fatalf("count not honoured: %d", len(got))
	}
}

func TestQuiz_DailyIsStableForTheDay(t *testing.T) {
	s, clk := newQuiz(t)
	a := ids(s.Daily())
	clk.Advance(3 * time.Hour)
	b := ids(s.Daily())
	if len(a) != quiz.DailyCount || !slices.Equal(a, b) {
		t.Fatalf("daily questions changed within the day: %v vs %v", a, b)
	}
}

func TestQuiz_FinishUpdatesStats(t *testing.T) {
	ctx := context.Background()
	s, _ := newQuiz(t)
	qs := quiz.Bank()[:4]

	if _, _, err := s.Finish(ctx, "u1", nil, nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if _, _, err := s.Finish(ctx, "u1", ids(qs), answersFor(qs)[:3]); !errors.Is(err, ErrAnswerMismatch) {
		t.Fatalf("expected ErrAnswerMismatch, got %v", err)
	}
	same := []quiz.Question{qs[0], qs[0], qs[0], qs[0], qs[0], qs[0], qs[0]}
	if _, _, err := s.Finish(ctx, "u1", ids(same), answersFor(same)); !errors.Is(err, ErrDuplicateQuestion) {
		t.Fatalf("expected ErrDuplicateQuestion, got %v", err)
	}
	if s.DailyCompleted(ctx, "u1") {
		t.Fatalf("nobody played yet")
	}

	r, st, err := s.Finish(ctx, "u1", ids(qs), answersFor(qs, 1))
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	want := 0
	for i, q := range qs {
		if i != 1 {
			want += q.Points
		}
	}
	if r.Score != want || r.Correct != 3 || r.Wrong != 1 {
		t.Fatalf("unexpected result: %+v", r)
	}
	if st.TotalQuizzes != 1 || st.TotalScore != want || st.HighScore != want || !slices.Contains(st.Badges, quiz.BadgeFirstQuiz) {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if got := s.Stats(ctx, "u1"); got.TotalQuizzes != 1 || got.LastPlayed == nil {
		t.Fatalf("stats not persisted: %+v", got)
	}
	if !s.DailyCompleted(ctx, "u1") {
		t.Fatalf("any play today completes the daily quiz")
	}

	lb := s.Leaderboard(ctx, "u1")
	if len(lb) != 5 || lb[len(lb)-1].Name != "You" || !lb[len(lb)-1].IsCurrentUser {
		t.Fatalf("unexpected leaderboard: %+v", lb)
	}
}

func TestQuiz_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s, clk := newQuiz(t)

	v, err := s.StartSession(ctx, "u1", quiz.ModeRandom, 2, "", "")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if v.Status != quiz.InProgress || v.Total != 2 || v.Question == nil || v.Question.Correct != -1 || v.RemainingMs != 30000 {
		t.Fatalf("unexpected view: %+v", v)
	}

	if _, err := s.Session(ctx, "u2", v.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("other users must not see the session, got %v", err)
	}
	if _, err := s.AnswerSession(ctx, "u1", v.ID, 99); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}

	clk.Advance(5 * time.Second)
	v, err = s.AnswerSession(ctx, "u1", v.ID, 0)
	if err != nil {
		t.Fatalf("AnswerSession: %v", err)
	}
	if v.Answer == nil || *v.Answer != 0 || v.CorrectOption == nil {
		t.Fatalf("answered question should reveal the key: %+v", v)
	}
	if _, err := s.AnswerSession(ctx, "u1", v.ID, 1); !errors.Is(err, ErrAnswerLocked) {
		t.Fatalf("expected ErrAnswerLocked, got %v", err)
	}

	v, err = s.NextSession(ctx, "u1", v.ID)
	if err != nil || v.Index != 1 || v.RemainingMs != 30000 {
		t.Fatalf("NextSession = %+v, %v", v, err)
	}

	// let the last countdown run out
	clk.Advance(31 * time.Second)
	v, err = s.Session(ctx, "u1", v.ID)
	if err != nil || v.Status != quiz.Completed || v.Result == nil || v.Stats == nil {
		t.Fatalf("expired session should complete: %+v, %v", v, err)
	}
	if v.Result.Correct+v.Result.Wrong != 2 || v.Result.Wrong < 1 {
		t.Fatalf("timed-out question must count as wrong: %+v", v.Result)
	}

	// observing the completed session again does not count it twice
	if _, err := s.Session(ctx, "u1", v.ID); err != nil {
		t.Fatalf("Session: %v", err)
	}
	if st := s.Stats(ctx, "u1"); st.TotalQuizzes != 1 {
		t.Fatalf("stats applied %d times", st.TotalQuizzes)
	}
	if _, err := s.NextSession(ctx, "u1", v.ID); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("expected ErrNotInProgress, got %v", err)
	}
}

func TestQuiz_DailySessionOncePerDay(t *testing.T) {
	ctx := context.Background()
	s, clk := newQuiz(t)

	v, err := s.StartSession(ctx, "u1", quiz.ModeDaily, 0, "", "")
	if err != nil || v.Total != quiz.DailyCount || v.Mode != quiz.ModeDaily {
		t.Fatalf("StartSession daily = %+v, %v", v, err)
	}
	for i := 0; i < quiz.DailyCount; i++ {
		if v, err = s.NextSession(ctx, "u1", v.ID); err != nil {
			t.Fatalf("NextSession %d: %v", i, err)
		}
	}
	if v.Status != quiz.Completed {
		t.Fatalf("session should be completed, got %s", v.Status)
	}
	if _, err := s.StartSession(ctx, "u1", quiz.ModeDaily, 0, "", ""); !errors.Is(err, ErrDailyCompleted) {
		t.Fatalf("expected ErrDailyCompleted, got %v", err)
	}

	clk.Advance(24 * time.Hour)
	if _, err := s.StartSession(ctx, "u1", quiz.ModeDaily, 0, "", ""); err != nil {
		t.Fatalf("next day daily should start: %v", err)
	}
}

func TestQuiz_SessionsEvictedWhenIdle(t *testing.T) {
	ctx := context.Background()
	s, clk := newQuiz(t)
	v, _ := s.StartSession(ctx, "u1", quiz.ModeRandom, 1, "", "")
	clk.Advance(2 * time.Hour)
	if _, err := s.Session(ctx, "u1", v.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("idle session should be evicted, got %v", err)
	}
	if s.Sessions() != 0 {
		t.Fatalf("registry should be empty, got %d", s.Sessions())
	}

	if _, err := s.StartSession(ctx, "u1", quiz.ModeRandom, 1, "nightmare", ""); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("empty filter result should fail with ErrNoQuestions, got %v", err)
	}
}
