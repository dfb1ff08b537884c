package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/session"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/repository"
)

type memStore struct {
	mu       sync.Mutex
	projects map[string]models.Project
	saves    int
}

func newMemStore() *memStore {
	return &memStore{projects: make(map[string]models.Project)}
}

func (s *memStore) Create(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = *p
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) Save(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return repository.ErrNotFound
	}
	s.projects[p.ID] = *p
	s.saves++
	return nil
}

func (s *memStore) List(_ context.Context) ([]models.ProjectSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProjectSummary
	for _, p := range s.projects {
		out = append(out, models.ProjectSummary{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func TestSessionManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	m := NewSessionManager(store, editor.DefaultSettings(), session.DefaultOptions())

	p, err := m.Create(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Untitled plan", p.Name)
	assert.Equal(t, editor.DefaultSettings(), p.Settings)

	err = m.With(ctx, p.ID, func(e *session.Editor) error {
		_, err := e.AddZone(editor.Zone{ZoneID: "hall", Name: "Hall", Width: 200, Height: 200})
		return err
	})
	require.NoError(t, err)
	require.NoError(t, m.Rename(ctx, p.ID, "Flat"))

	saved, err := m.Save(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flat", saved.Name)
	require.Len(t, saved.Document.Zones, 1)
	assert.Equal(t, 1, store.saves)

	// a closed project is loaded again from the store
	assert.True(t, m.Close(p.ID))
	assert.False(t, m.Close(p.ID))

	got, err := m.Project(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flat", got.Name)
	require.Len(t, got.Document.Zones, 1)
	assert.Equal(t, "hall", got.Document.Zones[0].ZoneID)

	require.NoError(t, m.Delete(ctx, p.ID))
	_, err = m.Project(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionManagerRejectsInvalidSettings(t *testing.T) {
	m := NewSessionManager(newMemStore(), editor.DefaultSettings(), session.DefaultOptions())

	bad := editor.DefaultSettings()
	bad.Scale = 0
	_, err := m.Create(context.Background(), "x", &bad)
	assert.ErrorIs(t, err, session.ErrInvalidGeometry)
}

func TestSessionManagerUnknownProject(t *testing.T) {
	m := NewSessionManager(newMemStore(), editor.DefaultSettings(), session.DefaultOptions())

	called := false
	err := m.With(context.Background(), "missing", func(*session.Editor) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
}

func TestSessionManagerSerialisesEdits(t *testing.T) {
	ctx := context.Background()
	m := NewSessionManager(newMemStore(), editor.DefaultSettings(), session.DefaultOptions())
	p, err := m.Create(ctx, "busy", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.With(ctx, p.ID, func(e *session.Editor) error {
				_, err := e.AddFurniture(editor.FurnitureItem{Name: "chair", Width: 40, Height: 40})
				return err
			})
		}()
	}
	wg.Wait()

	got, err := m.Project(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Document.Furniture, 20)
}
