package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	editor "floorplanner/internal/editor/models"
	"floorplanner/internal/editor/session"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/repository"
)

// ErrNotFound is returned for projects that do not exist.
var ErrNotFound = repository.ErrNotFound

// Store persists projects. *repository.Repository implements it.
type Store interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id string) (*models.Project, error)
	Save(ctx context.Context, p *models.Project) error
	List(ctx context.Context) ([]models.ProjectSummary, error)
	Delete(ctx context.Context, id string) error
}

// ============================================================
// Session Manager
// ============================================================

// SessionManager keeps one open editor per project. Calls on the same
// project are serialised; different projects proceed in parallel.
type SessionManager struct {
	store    Store
	defaults editor.Settings
	opts     session.Options

	mu       sync.Mutex
	sessions map[string]*openProject // projectID -> session
}

type openProject struct {
	mu        sync.Mutex
	name      string
	createdAt string
	editor    *session.Editor
}

func NewSessionManager(store Store, defaults editor.Settings, opts session.Options) *SessionManager {
	return &SessionManager{
		store:    store,
		defaults: defaults,
		opts:     opts,
		sessions: make(map[string]*openProject),
	}
}

// Create stores a new empty project and opens it. nil settings means the
// configured defaults.
func (m *SessionManager) Create(ctx context.Context, name string, settings *editor.Settings) (*models.Project, error) {
	s := m.defaults
	if settings != nil {
		s = *settings
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrInvalidGeometry, err)
	}
	if name == "" {
		name = "Untitled plan"
	}

	p := &models.Project{ID: uuid.NewString(), Name: name, Settings: s}
	if err := m.store.Create(ctx, p); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[p.ID] = m.newSession(p)
	m.mu.Unlock()

	log.Printf("[SESSION] Created project %s (%s)", p.ID, p.Name)
	return p, nil
}

// With runs fn against the project's editor, loading it first if needed.
func (m *SessionManager) With(ctx context.Context, id string, fn func(e *session.Editor) error) error {
	op, err := m.open(ctx, id)
	if err != nil {
		return err
	}

	op.mu.Lock()
	defer op.mu.Unlock()
	return fn(op.editor)
}

// Project returns the current, possibly unsaved, state of a project.
func (m *SessionManager) Project(ctx context.Context, id string) (*models.Project, error) {
	op, err := m.open(ctx, id)
	if err != nil {
		return nil, err
	}

	op.mu.Lock()
	defer op.mu.Unlock()
	return snapshot(id, op), nil
}

// Rename changes the project name. It is stored with the next Save.
func (m *SessionManager) Rename(ctx context.Context, id, name string) error {
	op, err := m.open(ctx, id)
	if err != nil {
		return err
	}

	op.mu.Lock()
	defer op.mu.Unlock()
	op.name = name
	return nil
}

// Save writes the open editor state to the store.
func (m *SessionManager) Save(ctx context.Context, id string) (*models.Project, error) {
	op, err := m.open(ctx, id)
	if err != nil {
		return nil, err
	}

	op.mu.Lock()
	defer op.mu.Unlock()

	p := snapshot(id, op)
	if err := m.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save project %s: %w", id, err)
	}
	log.Printf("[SESSION] Saved project %s", id)
	return p, nil
}

func (m *SessionManager) List(ctx context.Context) ([]models.ProjectSummary, error) {
	return m.store.List(ctx)
}

// Close drops the open session without saving. Unsaved changes are lost.
func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	log.Printf("[SESSION] Closed project %s", id)
	return true
}

func (m *SessionManager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.Close(id)
	return nil
}

func (m *SessionManager) open(ctx context.Context, id string) (*openProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if op, ok := m.sessions[id]; ok {
		return op, nil
	}

	p, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}

	op := m.newSession(p)
	m.sessions[id] = op
	log.Printf("[SESSION] Opened project %s", id)
	return op, nil
}

func (m *SessionManager) newSession(p *models.Project) *openProject {
	return &openProject{
		name:      p.Name,
		createdAt: p.CreatedAt,
		editor:    session.NewEditor(p.Settings, p.Document, m.opts),
	}
}

func snapshot(id string, op *openProject) *models.Project {
	return &models.Project{
		ID:        id,
		Name:      op.name,
		Settings:  op.editor.Settings(),
		Document:  op.editor.Document(),
		CreatedAt: op.createdAt,
	}
}
