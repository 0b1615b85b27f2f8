package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/tbourn/go-movie-backend/internal/quiz"
	"github.com/tbourn/go-movie-backend/internal/services"
)

func intp(v int) *int { return &v }

func TestQuiz_QuestionsHideAnswers(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(t, http.MethodGet, "/quiz/questions?count=3&difficulty=all", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	qs := decode[QuestionsResponse](t, w).Questions
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	for _, q := range qs {
		if q.Correct != -1 {
			t.Fatalf("answer key leaked: %+v", q)
		}
	}

	w = e.do(t, http.MethodGet, "/quiz/questions?category=no-such-category", nil)
	if qs := decode[QuestionsResponse](t, w).Questions; len(qs) != 0 {
		t.Fatalf("unknown category should match nothing: %d", len(qs))
	}
}

func TestQuiz_DailyAndResults(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(t, http.MethodGet, "/quiz/daily", nil)
	daily := decode[DailyResponse](t, w)
	if daily.Completed || len(daily.Questions) != quiz.DailyCount || daily.Date != e.quiz.Today() {
		t.Fatalf("unexpected daily: %+v", daily)
	}

	// Answer the first question right and leave the second blank.
	qs := quiz.Lookup([]int{1, 2})
	w = e.do(t, http.MethodPost, "/quiz/results", SubmitResultsRequest{
		QuestionIDs: []int{1, 2},
		Answers:     []*int{intp(qs[0].Correct), nil},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("results: status=%d body=%s", w.Code, w.Body.String())
	}
	res := decode[ResultResponse](t, w)
	if res.Result.Correct != 1 || res.Result.Wrong != 1 || res.Stats.TotalQuizzes != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	w = e.do(t, http.MethodGet, "/quiz/daily", nil)
	if !decode[DailyResponse](t, w).Completed {
		t.Fatalf("playing today should mark the daily as completed")
	}

	w = e.do(t, http.MethodGet, "/quiz/stats", nil)
	if st := decode[quiz.Stats](t, w); st.TotalQuizzes != 1 || st.CorrectAnswers != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	w = e.do(t, http.MethodGet, "/quiz/badges", nil)
	for _, b := range decode[[]BadgeView](t, w) {
		if b.Earned != (b.ID == quiz.BadgeFirstQuiz) {
			t.Fatalf("badge %s earned=%v", b.ID, b.Earned)
		}
	}

	w = e.do(t, http.MethodGet, "/quiz/leaderboard", nil)
	if lb := decode[[]quiz.LeaderboardEntry](t, w); len(lb) == 0 {
		t.Fatalf("empty leaderboard")
	}
}

func TestQuiz_ResultsErrors(t *testing.T) {
	e := newEnv(t, nil)
	cases := map[string]SubmitResultsRequest{
		"unknown ids": {QuestionIDs: []int{99999}, Answers: []*int{intp(0)}},
		"mismatch":    {QuestionIDs: []int{1, 2}, Answers: []*int{intp(0)}},
		"repeated":    {QuestionIDs: []int{10, 10, 10}, Answers: []*int{intp(3), intp(3), intp(3)}},
	}
	for name, body := range cases {
		w := e.do(t, http.MethodPost, "/quiz/results", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", name, w.Code)
		}
	}
	if w := e.do(t, http.MethodPost, "/quiz/results", map[string]any{}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty body: status=%d", w.Code)
	}
}

func TestQuiz_Categories(t *testing.T) {
	e := newEnv(t, nil)
	w := e.do(t, http.MethodGet, "/quiz/categories", nil)
	cats := decode[[]quiz.Category](t, w)
	if len(cats) == 0 || cats[0].ID != quiz.CategoryAll {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

func TestQuiz_SessionFlow(t *testing.T) {
	e := newEnv(t, nil)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e.quiz.Now = func() time.Time { return now }

	w := e.do(t, http.MethodPost, "/quiz/sessions", StartSessionRequest{Mode: quiz.ModeRandom, Count: 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("start: status=%d body=%s", w.Code, w.Body.String())
	}
	v := decode[services.SessionView](t, w)
	if v.Total != 2 || v.Question == nil || v.Question.Correct != -1 {
		t.Fatalf("unexpected session: %+v", v)
	}
	base := "/quiz/sessions/" + v.ID

	// Other users cannot see it.
	if w := e.do(t, http.MethodGet, base, nil, "X-User-ID", "u2"); w.Code != http.StatusNotFound {
		t.Fatalf("foreign session: status=%d", w.Code)
	}

	if w := e.do(t, http.MethodPost, base+"/answer", AnswerRequest{Option: intp(99)}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad option: status=%d", w.Code)
	}
	if w := e.do(t, http.MethodPost, base+"/answer", AnswerRequest{Option: intp(0)}); w.Code != http.StatusOK {
		t.Fatalf("answer: status=%d body=%s", w.Code, w.Body.String())
	}
	w = e.do(t, http.MethodPost, base+"/answer", AnswerRequest{Option: intp(1)})
	if w.Code != http.StatusConflict || errCode(t, w) != ErrCodeAnswerLocked {
		t.Fatalf("second answer: status=%d", w.Code)
	}

	if w := e.do(t, http.MethodPost, base+"/next", nil); w.Code != http.StatusOK {
		t.Fatalf("next: status=%d", w.Code)
	}
	w = e.do(t, http.MethodPost, base+"/next", nil)
	v = decode[services.SessionView](t, w)
	if v.Status != quiz.Completed || v.Result == nil || v.Stats == nil || v.Stats.TotalQuizzes != 1 {
		t.Fatalf("expected finished session with stats: %+v", v)
	}

	w = e.do(t, http.MethodPost, base+"/answer", AnswerRequest{Option: intp(0)})
	if w.Code != http.StatusConflict || errCode(t, w) != ErrCodeNotInProgress {
		t.Fatalf("answer after finish: status=%d", w.Code)
	}
}

func TestQuiz_DailySessionOncePerDay(t *testing.T) {
	e := newEnv(t, nil)
	e.do(t, http.MethodPost, "/quiz/results", SubmitResultsRequest{QuestionIDs: []int{1}, Answers: []*int{nil}})

	w := e.do(t, http.MethodPost, "/quiz/sessions", StartSessionRequest{Mode: quiz.ModeDaily})
	if w.Code != http.StatusConflict || errCode(t, w) != ErrCodeDailyCompleted {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestQuiz_StartSessionErrors(t *testing.T) {
	e := newEnv(t, nil)
	w := e.do(t, http.MethodPost, "/quiz/sessions", StartSessionRequest{Category: "no-such-category"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("no questions: status=%d", w.Code)
	}
	if w := e.do(t, http.MethodPost, "/quiz/sessions", "{"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status=%d", w.Code)
	}
	if w := e.do(t, http.MethodGet, "/quiz/sessions/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing session: status=%d", w.Code)
	}
}
