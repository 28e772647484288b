package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Virginijus03/45-server/internal/server"
)

func TestReportFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")

	var out bytes.Buffer
	require.NoError(t, report(context.Background(), path, &out))
	assert.Contains(t, out.String(), " - records\n")
	assert.Contains(t, out.String(), "Records:\n")
}

func TestReportCounts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "server.db")
	require.NoError(t, report(ctx, path, &bytes.Buffer{}))

	db, err := server.OpenDB(path)
	require.NoError(t, err)
	store := server.NewSQLiteStore(db)
	require.NoError(t, store.Create(ctx, server.CollectionUsers, "a@b.c", "{}"))
	require.NoError(t, store.Create(ctx, server.CollectionServices, "s1", "{}"))
	require.NoError(t, store.Create(ctx, server.CollectionServices, "s2", "{}"))
	require.NoError(t, db.Close())

	var out bytes.Buffer
	require.NoError(t, report(ctx, path, &out))
	assert.Contains(t, out.String(), " - services: 2\n")
	assert.Contains(t, out.String(), " - users: 1\n")
}
