package quiz

import (
	"math/rand/v2"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultCount is the size of a random quiz when none is requested.
const DefaultCount = 10

// DailyCount is the size of the daily quiz.
const DailyCount = 5

// Random filters qs by difficulty and category (empty or "all" skips the
// filter), shuffles the survivors uniformly with rng and returns up to count
// of them. count <= 0 means DefaultCount.
func Random(qs []Question, count int, difficulty, category string, rng *rand.Rand) []Question {
	if count <= 0 {
		count = DefaultCount
	}
	pool := make([]Question, 0, len(qs))
	for _, q := range qs {
		if difficulty != "" && q.Difficulty != difficulty {
			continue
		}
		if category != "" && category != CategoryAll && q.Category != category {
			continue
		}
		pool = append(pool, q)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:min(count, len(pool))]
}

// DailySeed derives the daily seed from the calendar date of day.
func DailySeed(day time.Time) uint64 {
	return xxhash.Sum64String(day.Format(time.DateOnly))
}

// Daily returns the first DailyCount questions of a permutation of qs seeded
// by the calendar date of day. Every caller gets the same questions in the
// same order for the same date.
func Daily(qs []Question, day time.Time) []Question {
	seed := DailySeed(day)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(len(qs))
	n := min(DailyCount, len(qs))
	out := make([]Question, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, qs[idx])
	}
	return out
}
