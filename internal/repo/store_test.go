package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func newBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	s := NewBadgerStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db := newIdemDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLiteStore(db)
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
		"badger": newBadgerStore(t),
	}
}

func TestStore_Contract(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := st.Get(ctx, "missing"); ok || err != nil {
				t.Fatalf("missing key: ok=%v err=%v", ok, err)
			}
			if err := st.Put(ctx, "u:a:watchlist", []byte(`[1]`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := st.Put(ctx, "u:a:watchlist", []byte(`[1,2]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, ok, err := st.Get(ctx, "u:a:watchlist")
			if err != nil || !ok || string(v) != "[1,2]" {
				t.Fatalf("get after overwrite: v=%q ok=%v err=%v", v, ok, err)
			}
			if err := st.Delete(ctx, "u:a:watchlist"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := st.Delete(ctx, "u:a:watchlist"); err != nil {
				t.Fatalf("delete of missing key should be a no-op: %v", err)
			}
			if _, ok, _ := st.Get(ctx, "u:a:watchlist"); ok {
				t.Fatalf("key should be gone")
			}
		})
	}
}

func TestStore_PrefixStats(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ps, ok := st.(PrefixStatser)
			if !ok {
				t.Fatalf("%s does not implement PrefixStatser", name)
			}
			_ = st.Put(ctx, "u:a:watchlist", []byte(`[]`))
			_ = st.Put(ctx, "u:a:friends", []byte(`[]`))
			_ = st.Put(ctx, "u:ab:friends", []byte(`[]`))

			n, _, err := ps.PrefixStats(ctx, "u:a:")
			if err != nil || n != 2 {
				t.Fatalf("stats = %d, %v; want 2", n, err)
			}
			n, ts, err := ps.PrefixStats(ctx, "u:zz:")
			if err != nil || n != 0 || ts != nil {
				t.Fatalf("empty prefix stats = %d, %v, %v", n, ts, err)
			}
		})
	}
}

func TestSQLiteStore_PrefixStats_EscapesWildcards(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	_ = st.Put(ctx, "u:a_b:x", []byte(`1`))
	_ = st.Put(ctx, "u:aXb:x", []byte(`1`))

	n, ts, err := st.PrefixStats(ctx, "u:a_b:")
	if err != nil || n != 1 || ts == nil {
		t.Fatalf("stats = %d, %v, %v; want 1 with timestamp", n, ts, err)
	}
}

func TestMemoryStore_CopiesAndClose(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	buf := []byte(`"a"`)
	_ = st.Put(ctx, "k", buf)
	buf[1] = 'z'
	v, _, _ := st.Get(ctx, "k")
	if string(v) != `"a"` {
		t.Fatalf("stored value aliased caller buffer: %q", v)
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d", st.Len())
	}
	_ = st.Close()
	if _, _, err := st.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, st := range map[string]Store{"memory": NewMemoryStore(), "badger": newBadgerStore(t)} {
		if err := st.Put(ctx, "k", []byte("1")); !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: expected context.Canceled, got %v", name, err)
		}
	}
}
