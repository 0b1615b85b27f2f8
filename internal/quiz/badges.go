package quiz

// Badge ids.
const (
	BadgeFirstQuiz       = "first-quiz"
	BadgeQuizMaster      = "quiz-master"
	BadgeQuizLegend      = "quiz-legend"
	BadgeHighScorer      = "high-scorer"
	BadgePerfectScore    = "perfect-score"
	BadgeKnowledgeSeeker = "knowledge-seeker"
	BadgeMovieExpert     = "movie-expert"
)

// Badge describes an achievement.
type Badge struct {
	ID          string `json:"id" example:"quiz-master"`
	Name        string `json:"name" example:"Quiz Master"`
	Icon        string `json:"icon" example:"🏆"`
	Description string `json:"description" example:"Completed 10 quizzes"`
}

var badgeInfo = []Badge{
	{BadgeFirstQuiz, "First Quiz", "🎬", "Completed your first quiz"},
	{BadgeQuizMaster, "Quiz Master", "🏆", "Completed 10 quizzes"},
	{BadgeQuizLegend, "Quiz Legend", "👑", "Completed 50 quizzes"},
	{BadgeHighScorer, "High Scorer", "⭐", "Scored 50+ points in a quiz"},
	{BadgePerfectScore, "Perfect Score", "💯", "Scored 100+ points in a quiz"},
	{BadgeKnowledgeSeeker, "Knowledge Seeker", "📚", "50 correct answers"},
	{BadgeMovieExpert, "Movie Expert", "🎓", "100 correct answers"},
}

// EarnedBadges lists every badge whose threshold s meets.
func EarnedBadges(s Stats) []string {
	var out []string
	if s.TotalQuizzes >= 1 {
		out = append(out, BadgeFirstQuiz)
	}
	if s.TotalQuizzes >= 10 {
		out = append(out, BadgeQuizMaster)
	}
	if s.TotalQuizzes >= 50 {
		out = append(out, BadgeQuizLegend)
	}
	if s.HighScore >= 50 {
		out = append(out, BadgeHighScorer)
	}
	if s.HighScore >= 100 {
		out = append(out, BadgePerfectScore)
	}
	if s.CorrectAnswers >= 50 {
		out = append(out, BadgeKnowledgeSeeker)
	}
	if s.CorrectAnswers >= 100 {
		out = append(out, BadgeMovieExpert)
	}
	return out
}

// BadgeInfo describes id, or returns an "Unknown" badge.
func BadgeInfo(id string) Badge {
	for _, b := range badgeInfo {
		if b.ID == id {
			return b
		}
	}
	return Badge{ID: id, Name: "Unknown", Icon: "❓", Description: "Unknown badge"}
}

// Badges returns every known badge.
func Badges() []Badge {
	return append([]Badge(nil), badgeInfo...)
}
