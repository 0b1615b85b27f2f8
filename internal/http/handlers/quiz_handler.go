// Quiz HTTP handlers.
//
// Free play:
//   - GET  /quiz/questions      (random questions, answer key stripped)
//   - GET  /quiz/daily          (today's questions and whether they were played)
//   - POST /quiz/results        (grade answers and update stats)
//
// Timed sessions, graded on the server:
//   - POST /quiz/sessions
//   - GET  /quiz/sessions/{id}
//   - POST /quiz/sessions/{id}/answer
//   - POST /quiz/sessions/{id}/next
//
// Progress:
//   - GET /quiz/stats, /quiz/leaderboard, /quiz/badges, /quiz/categories
package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/quiz"
	"github.com/tbourn/go-movie-backend/internal/services"
	"github.com/tbourn/go-movie-backend/internal/utils"
)

// QuestionsResponse carries questions without their answer key.
type QuestionsResponse struct {
	Questions []quiz.Question `json:"questions"`
}

// DailyResponse is today's quiz.
type DailyResponse struct {
	Date      string          `json:"date" example:"2024-06-01"`
	Completed bool            `json:"completed" example:"false"`
	Questions []quiz.Question `json:"questions"`
}

// SubmitResultsRequest pairs question ids with the chosen option indexes.
// A null answer counts as wrong.
type SubmitResultsRequest struct {
	QuestionIDs []int  `json:"questionIds" binding:"required,min=1" example:"1,2,3"`
	Answers     []*int `json:"answers" binding:"required"`
}

// ResultResponse is a graded quiz and the stats after it.
type ResultResponse struct {
	Result quiz.Result `json:"result"`
	Stats  quiz.Stats  `json:"stats"`
}

// BadgeView is a badge and whether the caller earned it.
type BadgeView struct {
	quiz.Badge
	Earned bool `json:"earned" example:"true"`
}

// StartSessionRequest selects what a session plays.
type StartSessionRequest struct {
	Mode       string `json:"mode" example:"random" enums:"random,daily"`
	Count      int    `json:"count" example:"10"`
	Difficulty string `json:"difficulty" example:"easy"`
	Category   string `json:"category" example:"all"`
}

// AnswerRequest is the chosen option of the current question.
type AnswerRequest struct {
	Option *int `json:"option" binding:"required" example:"1"`
}

// Questions godoc
// @ID          quizQuestions
// @Summary     Random quiz questions
// @Tags        Quiz
// @Produce     json
//
// @Param       count       query  int     false "Number of questions"  default(10)
// @Param       difficulty  query  string  false "easy, medium, hard or all"
// @Param       category    query  string  false "Category id or all"
//
// @Success     200  {object}  handlers.QuestionsResponse
// @Router      /quiz/questions [get]
func (h *Handlers) Questions(c *gin.Context) {
	count := utils.IntInRange(c.Query("count"), quiz.DefaultCount, 1, 50)
	qs := h.quiz.Questions(count, c.Query("difficulty"), c.Query("category"))
	ok(c, http.StatusOK, QuestionsResponse{Questions: quiz.Public(qs)})
}

// Daily godoc
// @ID          quizDaily
// @Summary     Today's quiz
// @Description The same five questions for everyone on a calendar day.
// @Tags        Quiz
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  handlers.DailyResponse
// @Router      /quiz/daily [get]
func (h *Handlers) Daily(c *gin.Context) {
	ok(c, http.StatusOK, DailyResponse{
		Date:      h.quiz.Today(),
		Completed: h.quiz.DailyCompleted(c.Request.Context(), userID(c)),
		Questions: quiz.Public(h.quiz.Daily()),
	})
}

// SubmitResults godoc
// @ID          quizResults
// @Summary     Grade a quiz
// @Description Scores the answers, updates stats and awards badges.
// @Tags        Quiz
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.SubmitResultsRequest  true  "Answers"
//
// @Success     200  {object}  handlers.ResultResponse
// @Failure     400  {object}  handlers.ErrorResponse "Unknown questions or mismatched answers"
// @Router      /quiz/results [post]
func (h *Handlers) SubmitResults(c *gin.Context) {
	var req SubmitResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "questionIds and answers are required")
		return
	}
	r, st, err := h.quiz.Finish(c.Request.Context(), userID(c), req.QuestionIDs, req.Answers)
	if err != nil {
		writeQuizError(c, err)
		return
	}
	ok(c, http.StatusOK, ResultResponse{Result: r, Stats: st})
}

// QuizStats godoc
// @ID          quizStats
// @Summary     Quiz stats
// @Tags        Quiz
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  quiz.Stats
// @Router      /quiz/stats [get]
func (h *Handlers) QuizStats(c *gin.Context) {
	ok(c, http.StatusOK, h.quiz.Stats(c.Request.Context(), userID(c)))
}

// Leaderboard godoc
// @ID          quizLeaderboard
// @Summary     Leaderboard
// @Tags        Quiz
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}  quiz.LeaderboardEntry
// @Router      /quiz/leaderboard [get]
func (h *Handlers) Leaderboard(c *gin.Context) {
	ok(c, http.StatusOK, h.quiz.Leaderboard(c.Request.Context(), userID(c)))
}

// Badges godoc
// @ID          quizBadges
// @Summary     Badges
// @Description Every badge, flagged when the caller has earned it.
// @Tags        Quiz
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}  handlers.BadgeView
// @Router      /quiz/badges [get]
func (h *Handlers) Badges(c *gin.Context) {
	earned := h.quiz.Stats(c.Request.Context(), userID(c)).Badges
	all := quiz.Badges()
	out := make([]BadgeView, 0, len(all))
	for _, b := range all {
		out = append(out, BadgeView{Badge: b, Earned: slices.Contains(earned, b.ID)})
	}
	ok(c, http.StatusOK, out)
}

// Categories godoc
// @ID          quizCategories
// @Summary     Quiz categories
// @Tags        Quiz
// @Produce     json
//
// @Success     200  {array}  quiz.Category
// @Router      /quiz/categories [get]
func (h *Handlers) Categories(c *gin.Context) {
	ok(c, http.StatusOK, quiz.Categories())
}

// StartSession godoc
// @ID          quizStartSession
// @Summary     Start a timed quiz
// @Description Each question has a countdown; questions left unanswered when it runs out count as wrong. Daily mode can be played once per day.
// @Tags        Quiz
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.StartSessionRequest  false  "Session options"
//
// @Success     201  {object}  services.SessionView
// @Failure     400  {object}  handlers.ErrorResponse "No questions match"
// @Failure     409  {object}  handlers.ErrorResponse "Daily quiz already completed"
// @Router      /quiz/sessions [post]
func (h *Handlers) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	v, err := h.quiz.StartSession(c.Request.Context(), userID(c), req.Mode, req.Count, req.Difficulty, req.Category)
	if err != nil {
		writeQuizError(c, err)
		return
	}
	ok(c, http.StatusCreated, v)
}

// GetSession godoc
// @ID          quizGetSession
// @Summary     Session state
// @Description Applies expired countdowns before answering.
// @Tags        Quiz
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Session ID"
//
// @Success     200  {object}  services.SessionView
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Router      /quiz/sessions/{id} [get]
func (h *Handlers) GetSession(c *gin.Context) {
	v, err := h.quiz.Session(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		writeQuizError(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// AnswerSession godoc
// @ID          quizAnswer
// @Summary     Answer the current question
// @Tags        Quiz
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Session ID"
// @Param       body       body    handlers.AnswerRequest  true  "Answer"
//
// @Success     200  {object}  services.SessionView
// @Failure     400  {object}  handlers.ErrorResponse "Option out of range"
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Failure     409  {object}  handlers.ErrorResponse "Already answered or finished"
// @Router      /quiz/sessions/{id}/answer [post]
func (h *Handlers) AnswerSession(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "option is required")
		return
	}
	v, err := h.quiz.AnswerSession(c.Request.Context(), userID(c), c.Param("id"), *req.Option)
	if err != nil {
		writeQuizError(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// NextQuestion godoc
// @ID          quizNext
// @Summary     Move to the next question
// @Description Finishes the session after the last question.
// @Tags        Quiz
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Session ID"
//
// @Success     200  {object}  services.SessionView
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Failure     409  {object}  handlers.ErrorResponse "Session finished"
// @Router      /quiz/sessions/{id}/next [post]
func (h *Handlers) NextQuestion(c *gin.Context) {
	v, err := h.quiz.NextSession(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		writeQuizError(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

func writeQuizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrDailyCompleted):
		fail(c, http.StatusConflict, ErrCodeDailyCompleted, err.Error())
	case errors.Is(err, services.ErrAnswerLocked):
		fail(c, http.StatusConflict, ErrCodeAnswerLocked, err.Error())
	case errors.Is(err, services.ErrNotInProgress):
		fail(c, http.StatusConflict, ErrCodeNotInProgress, err.Error())
	case errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrNoQuestions),
		errors.Is(err, services.ErrAnswerMismatch),
		errors.Is(err, services.ErrDuplicateQuestion):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
