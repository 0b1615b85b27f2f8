// Package quiz is the movie trivia engine: a static question bank, random
// and daily selection, scoring, badge evaluation, a synthetic leaderboard,
// and the timed session state machine. Everything here is pure; persistence
// of stats and the session registry live in the services package.
package quiz

// Difficulty tiers.
const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

// Question is one multiple-choice item. Correct indexes Options.
type Question struct {
	ID         int      `json:"id" example:"2"`
	Question   string   `json:"question" example:"Who directed 'The Dark Knight' trilogy?"`
	Options    []string `json:"options"`
	Correct    int      `json:"correct" example:"1"`
	Difficulty string   `json:"difficulty" example:"easy"`
	Category   string   `json:"category" example:"directors"`
	Points     int      `json:"points" example:"5"`
}

// Category is a selectable question category.
type Category struct {
	ID   string `json:"id" example:"awards"`
	Name string `json:"name" example:"Awards"`
	Icon string `json:"icon" example:"🏆"`
}

// CategoryAll disables category filtering.
const CategoryAll = "all"

var bank = []Question{
	{1, "Which movie won the Oscar for Best Picture in 2020?", []string{"1917", "Joker", "Parasite", "Once Upon a Time in Hollywood"}, 2, Medium, "awards", 10},
	{2, "Who directed 'The Dark Knight' trilogy?", []string{"Steven Spielberg", "Christopher Nolan", "Martin Scorsese", "Quentin Tarantino"}, 1, Easy, "directors", 5},
	{3, "In which year was the first 'Avengers' movie released?", []string{"2010", "2011", "2012", "2013"}, 2, Easy, "marvel", 5},
	{4, "Which actor played the Joker in 'The Dark Knight'?", []string{"Jared Leto", "Joaquin Phoenix", "Heath Ledger", "Jack Nicholson"}, 2, Easy, "actors", 5},
	{5, "What is the highest-grossing film of all time (not adjusted for inflation)?", []string{"Avengers: Endgame", "Avatar", "Titanic", "Star Wars: The Force Awakens"}, 1, Medium, "box-office", 10},
	{6, "Which movie features the line 'I'll be back'?", []string{"Die Hard", "The Terminator", "Predator", "RoboCop"}, 1, Easy, "quotes", 5},
	{7, "Who composed the music for 'Inception'?", []string{"John Williams", "Hans Zimmer", "Ennio Morricone", "Howard Shore"}, 1, Medium, "music", 10},
	{8, "Which Bollywood movie is the highest-grossing Indian film worldwide?", []string{"Dangal", "Baahubali 2", "PK", "3 Idiots"}, 0, Medium, "bollywood", 10},
	{9, "How many Infinity Stones are there in the Marvel Cinematic Universe?", []string{"4", "5", "6", "7"}, 2, Easy, "marvel", 5},
	{10, "Which movie won the most Oscars in a single year (11 awards)?", []string{"Titanic", "Ben-Hur", "The Lord of the Rings: The Return of the King", "All of the above"}, 3, Hard, "awards", 15},
}

var categories = []Category{
	{CategoryAll, "All Categories", "🎬"},
	{"awards", "Awards", "🏆"},
	{"directors", "Directors", "🎥"},
	{"actors", "Actors", "🎭"},
	{"marvel", "Marvel", "🦸"},
	{"bollywood", "Bollywood", "🇮🇳"},
	{"quotes", "Quotes", "💬"},
	{"music", "Music", "🎵"},
	{"box-office", "Box Office", "💰"},
}

// Bank returns a copy of the question bank.
func Bank() []Question {
	out := make([]Question, len(bank))
	for i, q := range bank {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Categories returns the selectable categories, "all" first.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Lookup returns the bank questions with the given ids, in ids order.
// Unknown ids are skipped.
func Lookup(ids []int) []Question {
	byID := make(map[int]Question, len(bank))
	for _, q := range Bank() {
		byID[q.ID] = q
	}
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			out = append(out, q)
		}
	}
	return out
}

// Public strips the answer key so questions can be sent to players.
func Public(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.Correct = -1
		out[i] = q
	}
	return out
}
