package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"floorplanner/internal/editor/state"
	"floorplanner/internal/planner/models"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("project not found")

//go:embed migrations/001_init_planner.sql
var initMigration string

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the schema. It is safe to run on every start.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, initMigration); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, p *models.Project) error {
	settings, document, err := encode(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, settings, document)
        VALUES (?, ?, ?, ?)
    `, p.ID, p.Name, settings, document)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	return r.stamps(ctx, p)
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, settings, document, created_at, updated_at
        FROM projects
        WHERE id = ?
    `, id)

	var (
		p                  models.Project
		settings, document string
	)
	if err := row.Scan(&p.ID, &p.Name, &settings, &document, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(settings), &p.Settings); err != nil {
		return nil, fmt.Errorf("decode settings of %s: %w", id, err)
	}
	p.Document = state.NewDocument()
	if err := json.Unmarshal([]byte(document), p.Document); err != nil {
		return nil, fmt.Errorf("decode document of %s: %w", id, err)
	}
	// a stored null collection must not come back as nil
	p.Document = p.Document.Clone()
	return &p, nil
}

// Save overwrites name, settings and document of an existing project.
func (r *Repository) Save(ctx context.Context, p *models.Project) error {
	settings, document, err := encode(p)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE projects
        SET name = ?, settings = ?, document = ?, updated_at = datetime('now')
        WHERE id = ?
    `, p.Name, settings, document, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return r.stamps(ctx, p)
}

func (r *Repository) List(ctx context.Context) ([]models.ProjectSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, created_at, updated_at
        FROM projects
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []models.ProjectSummary{}
	for rows.Next() {
		var s models.ProjectSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) stamps(ctx context.Context, p *models.Project) error {
	row := r.db.QueryRowContext(ctx, `SELECT created_at, updated_at FROM projects WHERE id = ?`, p.ID)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("read timestamps: %w", err)
	}
	return nil
}

func encode(p *models.Project) (string, string, error) {
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return "", "", fmt.Errorf("encode settings: %w", err)
	}
	doc := p.Document
	if doc == nil {
		doc = state.NewDocument()
	}
	document, err := json.Marshal(doc)
	if err != nil {
		return "", "", fmt.Errorf("encode document: %w", err)
	}
	return string(settings), string(document), nil
}

// OpenSQLite opens (and creates if needed) the database file at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
