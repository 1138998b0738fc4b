package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"echoform.io/feedback-hub/internal/store"
)

type ProjectService struct {
	dbStore *store.SQLiteStore
}

func NewProjectService(db *store.SQLiteStore) *ProjectService {
	return &ProjectService{dbStore: db}
}

// CreateProject creates a feedback hub. The slug is derived from the
// name plus a random suffix at creation time and never changes.
func (s *ProjectService) CreateProject(name string, description *string, ownerEmail string) (*store.Project, error) {
	slug := GenerateSlug(name)
	project, err := s.dbStore.CreateProject(strings.TrimSpace(name), slug, description, strings.ToLower(strings.TrimSpace(ownerEmail)))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// FindProject locates a project by its exact name and owner email.
// Returns nil when no project matches.
func (s *ProjectService) FindProject(name, email string) (*store.Project, error) {
	return s.dbStore.FindProjectByNameAndOwner(name, email)
}

func (s *ProjectService) ListProjectsByOwner(email string) ([]store.Project, error) {
	return s.dbStore.GetProjectsByOwner(email)
}

// GetProjectBySlug resolves the public feedback form path to its
// project. Returns nil when the slug is unknown.
func (s *ProjectService) GetProjectBySlug(slug string) (*store.Project, error) {
	return s.dbStore.GetProjectBySlug(slug)
}

// GenerateSlug lowercases the name, collapses whitespace into hyphens
// and appends a 6-character random suffix so equal names never collide.
func GenerateSlug(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.Join(strings.Fields(base), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
