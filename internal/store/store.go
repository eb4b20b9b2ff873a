package store

import (
	"errors"

	"impltrack/internal/models"
)

// ErrNotFound is returned when a project id or name does not resolve.
var ErrNotFound = errors.New("project not found")

// Store defines the persistence interface for the project collection.
// Mutators persist the full snapshot immediately: the access discipline is
// load once at startup, save after every mutation.
type Store interface {
	Load() error
	Projects() []*models.Project
	Get(id string) (*models.Project, error)
	GetByName(name string) (*models.Project, error)
	Add(p *models.Project) error
	Update(p *models.Project) error
	Delete(id string) error
	Save() error
}
