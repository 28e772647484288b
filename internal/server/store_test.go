package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	require.NoError(t, RunMigrations(db, log))
	// Migrations must be safe to run twice.
	require.NoError(t, RunMigrations(db, log))
	return NewSQLiteStore(db)
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return newSQLiteStore(t) },
	}
	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			testStore(t, mk(t))
		})
	}
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	v, err := s.Read(ctx, CollectionUsers, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "", v, "missing records read as empty")

	require.NoError(t, s.Create(ctx, CollectionUsers, "b@b.c", `{"n":2}`))
	require.NoError(t, s.Create(ctx, CollectionUsers, "a@b.c", `{"n":1}`))
	assert.ErrorIs(t, s.Create(ctx, CollectionUsers, "a@b.c", `{"n":3}`), ErrExists)

	// Same key in another collection is a different record.
	require.NoError(t, s.Create(ctx, CollectionTokens, "a@b.c", `{"t":1}`))

	v, err = s.Read(ctx, CollectionUsers, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, `{"n":1}`, v)

	require.NoError(t, s.Update(ctx, CollectionUsers, "a@b.c", `{"n":4}`))
	v, _ = s.Read(ctx, CollectionUsers, "a@b.c")
	assert.Equal(t, `{"n":4}`, v)
	assert.ErrorIs(t, s.Update(ctx, CollectionUsers, "x@b.c", `{}`), ErrNotFound)

	keys, err := s.List(ctx, CollectionUsers)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.c", "b@b.c"}, keys)

	require.NoError(t, s.Delete(ctx, CollectionUsers, "a@b.c"))
	assert.ErrorIs(t, s.Delete(ctx, CollectionUsers, "a@b.c"), ErrNotFound)

	keys, err = s.List(ctx, CollectionUsers)
	require.NoError(t, err)
	assert.Equal(t, []string{"b@b.c"}, keys)

	keys, err = s.List(ctx, CollectionServices)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCountByCollection(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	require.NoError(t, s.Create(ctx, CollectionUsers, "a", "{}"))
	require.NoError(t, s.Create(ctx, CollectionUsers, "b", "{}"))
	require.NoError(t, s.Create(ctx, CollectionServices, "c", "{}"))

	counts, err := s.CountByCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{CollectionUsers: 2, CollectionServices: 1}, counts)
}

func TestRecordHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type doc struct {
		Name string `json:"name"`
	}
	_, found, err := readRecord[doc](ctx, s, "docs", "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, createRecord(ctx, s, "docs", "k", doc{Name: "one"}))
	require.NoError(t, updateRecord(ctx, s, "docs", "k", doc{Name: "two"}))

	d, found, err := readRecord[doc](ctx, s, "docs", "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", d.Name)

	require.NoError(t, s.Create(ctx, "docs", "bad", "{not json"))
	_, _, err = readRecord[doc](ctx, s, "docs", "bad")
	assert.Error(t, err)
}
