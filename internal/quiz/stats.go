package quiz

import (
	"slices"
	"sort"
	"time"
)

// Result is the outcome of one finished quiz.
type Result struct {
	Score   int `json:"score"`
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// Score grades answers against questions by position. A nil answer never
// matches. Answers past the end of questions are ignored.
func Score(questions []Question, answers []*int) Result {
	var r Result
	for i, a := range answers {
		if i >= len(questions) {
			break
		}
		if a != nil && *a == questions[i].Correct {
			r.Score += questions[i].Points
			r.Correct++
		} else {
			r.Wrong++
		}
	}
	return r
}

// Stats are a user's cumulative quiz totals.
type Stats struct {
	TotalQuizzes   int        `json:"totalQuizzes"`
	TotalScore     int        `json:"totalScore"`
	HighScore      int        `json:"highScore"`
	CorrectAnswers int        `json:"correctAnswers"`
	WrongAnswers   int        `json:"wrongAnswers"`
	Badges         []string   `json:"badges"`
	LastPlayed     *time.Time `json:"lastPlayed"`
}

// DefaultStats is what a user who never played has.
func DefaultStats() Stats {
	return Stats{Badges: []string{}}
}

// Apply folds r into s, stamps LastPlayed and unions any newly earned
// badges. Badges are never removed.
func (s Stats) Apply(r Result, now time.Time) Stats {
	s.TotalQuizzes++
	s.TotalScore += r.Score
	s.HighScore = max(s.HighScore, r.Score)
	s.CorrectAnswers += r.Correct
	s.WrongAnswers += r.Wrong
	t := now
	s.LastPlayed = &t

	badges := append([]string{}, s.Badges...)
	for _, b := range EarnedBadges(s) {
		if !slices.Contains(badges, b) {
			badges = append(badges, b)
		}
	}
	s.Badges = badges
	return s
}

// DailyCompleted reports whether the last play happened on today's calendar
// date in loc. Any quiz counts, not only the daily one.
func DailyCompleted(s Stats, now time.Time, loc *time.Location) bool {
	if s.LastPlayed == nil {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	return s.LastPlayed.In(loc).Format(time.DateOnly) == now.In(loc).Format(time.DateOnly)
}

// LeaderboardEntry is one leaderboard row.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	Quizzes       int    `json:"quizzes"`
	IsCurrentUser bool   `json:"isCurrentUser,omitempty"`
}

// Leaderboard mixes the caller's totals into a fixed set of competitors and
// ranks by score, highest first. Ties keep their listed order.
func Leaderboard(s Stats) []LeaderboardEntry {
	rows := []LeaderboardEntry{
		{Name: "MovieBuff123", Score: 1250, Quizzes: 45},
		{Name: "CinemaLover", Score: 1180, Quizzes: 42},
		{Name: "FilmFanatic", Score: 1050, Quizzes: 38},
		{Name: "You", Score: s.TotalScore, Quizzes: s.TotalQuizzes, IsCurrentUser: true},
		{Name: "QuizMaster", Score: 890, Quizzes: 32},
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
