package search

import (
	"testing"
)

func TestOptionsAndDefaults(t *testing.T) {
	def := defaultConfig()
	if def.minRunes != 1 || def.stopwords != nil || def.maxDocs != 0 {
		t.Fatalf("defaultConfig unexpected: %#v", def)
	}

	cfg := def
	WithMinRunes(10)(&cfg)
	WithMinRunes(-5)(&cfg) // no-op
	if cfg.minRunes != 10 {
		t.Fatalf("WithMinRunes = %d", cfg.minRunes)
	}

	WithStopwords([]string{"  The ", "", "Déjà"})(&cfg)
	if _, ok := cfg.stopwords["the"]; !ok {
		t.Fatalf("missing 'the': %#v", cfg.stopwords)
	}
	if _, ok := cfg.stopwords["deja"]; !ok {
		t.Fatalf("stopwords should be folded: %#v", cfg.stopwords)
	}

	cfg2 := def
	WithStopwords(nil)(&cfg2)
	if cfg2.stopwords != nil {
		t.Fatalf("empty stopwords should remain nil")
	}

	WithMaxDocs(2)(&cfg)
	WithMaxDocs(0)(&cfg) // no-op
	if cfg.maxDocs != 2 {
		t.Fatalf("WithMaxDocs = %d", cfg.maxDocs)
	}
}

func library() []Doc {
	return []Doc{
		{ID: 1, Title: "The Dark Knight", Source: "watchlist", Text: "action Batman faces the Joker"},
		{ID: 2, Title: "Amélie", Source: "watchlist", Text: "romance Paris"},
		{ID: 3, Title: "Dark", Source: "history", Text: "thriller"},
		{ID: 1, Title: "The Dark Knight", Source: "history", Text: "duplicate"},
		{ID: 4, Title: "   ", Source: "history"},
	}
}

func TestNew_DedupesAndSkipsEmpty(t *testing.T) {
	idx := New(library())
	if idx.Len() != 3 {
		t.Fatalf("Len = %d; want 3", idx.Len())
	}
	if got := New(library(), WithMaxDocs(2)).Len(); got != 2 {
		t.Fatalf("max docs Len = %d", got)
	}
	if got := New(library(), WithMinRunes(25)).Len(); got != 1 {
		t.Fatalf("min runes Len = %d", got)
	}
}

func TestTopK_RanksAndKeepsFirstSource(t *testing.T) {
	idx := New(library(), WithStopwords(DefaultStopwords))
	got := idx.TopK("dark", 5)
	if len(got) != 2 {
		t.Fatalf("hits = %+v", got)
	}
	// "Dark thriller" has fewer tokens, so a higher Jaccard score.
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Fatalf("order = %+v", got)
	}
	if got[1].Source != "watchlist" {
		t.Fatalf("duplicate should keep the first source, got %q", got[1].Source)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("scores not descending: %+v", got)
	}
}

func TestTopK_FoldsDiacritics(t *testing.T) {
	got := New(library()).TopK("AMELIE", 1)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("diacritic folding failed: %+v", got)
	}
}

func TestTopK_EdgeCases(t *testing.T) {
	idx := New(library(), WithStopwords([]string{"the"}))
	if idx.TopK("   ", 3) != nil {
		t.Fatalf("blank query should return nil")
	}
	if idx.TopK("the", 3) != nil {
		t.Fatalf("stopword-only query should return nil")
	}
	if idx.TopK("zebra", 3) != nil {
		t.Fatalf("no overlap should return nil")
	}
	if got := idx.TopK("dark", 0); len(got) != 2 {
		t.Fatalf("k<=0 should use the default cap, got %d", len(got))
	}
	if got := idx.TopK("dark", 1); len(got) != 1 {
		t.Fatalf("k=1 should cap results, got %d", len(got))
	}
	if New(nil).TopK("dark", 3) != nil {
		t.Fatalf("empty index should return nil")
	}
}

func TestHelpers(t *testing.T) {
	if got := normalizeWhitespace("a \t\r\n  b"); got != "a b" {
		t.Fatalf("normalizeWhitespace = %q", got)
	}
	toks := tokenize("Se7en 1917 Café", nil)
	for _, w := range []string{"se7", "en", "1917", "cafe"} {
		if _, ok := toks[w]; !ok {
			t.Fatalf("token %q missing from %v", w, toks)
		}
	}
	a := map[string]struct{}{"x": {}, "y": {}, "z": {}}
	b := map[string]struct{}{"y": {}}
	if overlap(a, b) != 1 || overlap(b, a) != 1 || overlap(nil, a) != 0 {
		t.Fatalf("overlap broken")
	}
}
