package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS projects (
        id TEXT PRIMARY KEY, -- UUID
        name TEXT NOT NULL,
        slug TEXT UNIQUE NOT NULL,
        description TEXT,
        owner_email TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS feedback (
        id TEXT PRIMARY KEY, -- UUID
        project_id TEXT NOT NULL,
        content TEXT NOT NULL,
        rating INTEGER CHECK (rating BETWEEN 1 AND 5),
        email TEXT,
        sentiment REAL NOT NULL DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (project_id) REFERENCES projects (id)
    );

    CREATE INDEX IF NOT EXISTS idx_feedback_project ON feedback (project_id, created_at);
    `
	_, err := s.db.Exec(schema)
	return err
}

// Project methods

func (s *SQLiteStore) CreateProject(name, slug string, description *string, ownerEmail string) (*Project, error) {
	stmt, err := s.db.Prepare("INSERT INTO projects (id, name, slug, description, owner_email, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare project insert: %w", err)
	}
	defer stmt.Close()

	projectID := uuid.NewString()
	now := time.Now()
	_, err = stmt.Exec(projectID, name, slug, description, ownerEmail, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute project insert: %w", err)
	}
	return &Project{ID: projectID, Name: name, Slug: slug, Description: description, OwnerEmail: ownerEmail, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetProjectByID(projectID string) (*Project, error) {
	row := s.db.QueryRow("SELECT id, name, slug, description, owner_email, created_at FROM projects WHERE id = ?", projectID)
	return scanProject(row)
}

func (s *SQLiteStore) GetProjectBySlug(slug string) (*Project, error) {
	row := s.db.QueryRow("SELECT id, name, slug, description, owner_email, created_at FROM projects WHERE slug = ?", slug)
	return scanProject(row)
}

// FindProjectByNameAndOwner matches the exact (trimmed) name and the
// lowercased owner email, mirroring how owners locate their dashboard.
func (s *SQLiteStore) FindProjectByNameAndOwner(name, ownerEmail string) (*Project, error) {
	row := s.db.QueryRow(
		"SELECT id, name, slug, description, owner_email, created_at FROM projects WHERE name = ? AND owner_email = ?",
		strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(ownerEmail)),
	)
	return scanProject(row)
}

func (s *SQLiteStore) GetProjectsByOwner(ownerEmail string) ([]Project, error) {
	rows, err := s.db.Query("SELECT id, name, slug, description, owner_email, created_at FROM projects WHERE owner_email = ? ORDER BY created_at DESC", ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &description, &p.OwnerEmail, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		if description.Valid {
			p.Description = &description.String
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(row *sql.Row) (*Project, error) {
	var p Project
	var description sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &description, &p.OwnerEmail, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if description.Valid {
		p.Description = &description.String
	}
	return &p, nil
}

// Feedback methods

// CreateFeedback persists exactly content, rating, email, project
// reference and the numeric sentiment. The derived label and the full
// analysis object are never stored.
func (s *SQLiteStore) CreateFeedback(fb *Feedback) error {
	fb.ID = uuid.NewString()
	fb.CreatedAt = time.Now()

	stmt, err := s.db.Prepare("INSERT INTO feedback (id, project_id, content, rating, email, sentiment, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare feedback insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(fb.ID, fb.ProjectID, fb.Content, fb.Rating, fb.Email, fb.Sentiment, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute feedback insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetFeedbackByProject(projectID string) ([]Feedback, error) {
	rows, err := s.db.Query(
		"SELECT id, project_id, content, rating, email, sentiment, created_at FROM feedback WHERE project_id = ? ORDER BY created_at DESC, id DESC",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var feedback []Feedback
	for rows.Next() {
		var fb Feedback
		var rating sql.NullInt64
		var email sql.NullString
		if err := rows.Scan(&fb.ID, &fb.ProjectID, &fb.Content, &rating, &email, &fb.Sentiment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		if rating.Valid {
			r := int(rating.Int64)
			fb.Rating = &r
		}
		if email.Valid {
			fb.Email = &email.String
		}
		feedback = append(feedback, fb)
	}
	return feedback, rows.Err()
}
