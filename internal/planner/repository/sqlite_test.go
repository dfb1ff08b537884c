package repository

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/state"
	"floorplanner/internal/planner/models"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	require.NoError(t, repo.Init(context.Background()))
	// a second run must not fail
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	doc := state.NewDocument()
	doc.InsertZone(-1, editor.Zone{ID: "z1", ZoneID: "kitchen", Name: "Kitchen", Width: 300, Height: 200})
	doc.InsertFurniture(-1, editor.FurnitureItem{ID: "f1", Name: "Table", X: 10, Y: 10, Width: 80, Height: 80, ZoneID: "kitchen"})

	p := &models.Project{ID: "p1", Name: "Flat", Settings: editor.DefaultSettings(), Document: doc}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEmpty(t, p.CreatedAt)

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Flat", got.Name)
	assert.Equal(t, editor.DefaultSettings(), got.Settings)
	assert.Equal(t, doc, got.Document)
	assert.NotNil(t, got.Document.Shapes)

	got.Name = "Flat 2"
	got.Document.Zones[0].Width = 350
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Flat 2", again.Name)
	assert.Equal(t, 350.0, again.Document.Zones[0].Width)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryMissingProject(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Save(ctx, &models.Project{ID: "nope"}), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "nope"), ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
