package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"impltrack/internal/models"
)

const documentVersion = "1.0"

// document is the on-disk shape of the store file.
type document struct {
	Version     string            `json:"version"`
	Projects    []*models.Project `json:"projects"`
	LastUpdated time.Time         `json:"last_updated"`
}

// FileStore persists the full project collection as one JSON document.
// Single-writer, single-process; concurrent external writers are last-writer-
// wins, which is an accepted limitation.
type FileStore struct {
	path     string
	projects []*models.Project
}

// NewFileStore creates a store backed by the given file path. Call Load
// before use.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, projects: []*models.Project{}}
}

// newULID generates a new ULID string for locally created projects.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Load reads the store file. An absent file yields an empty collection and
// no error.
func (s *FileStore) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.projects = []*models.Project{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse store file %s: %w", s.path, err)
	}

	s.projects = doc.Projects
	if s.projects == nil {
		s.projects = []*models.Project{}
	}
	return nil
}

// Save writes the full collection. The previous file is first copied to a
// .backup sibling; a failed backup aborts the save, since silently losing the
// only safety copy is the failure mode that matters. The new document is
// written to a temp file and renamed into place.
func (s *FileStore) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.path+".backup", prev, 0644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read existing store file: %w", err)
	}

	doc := document{
		Version:     documentVersion,
		Projects:    s.projects,
		LastUpdated: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store document: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".impltrack-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Projects returns the in-memory project list.
func (s *FileStore) Projects() []*models.Project {
	return s.projects
}

// Get returns the project with the given id.
func (s *FileStore) Get(id string) (*models.Project, error) {
	for _, p := range s.projects {
		if p.ProjectID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// GetByName returns the project with the given name.
func (s *FileStore) GetByName(name string) (*models.Project, error) {
	for _, p := range s.projects {
		if p.ProjectName == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Add appends a project and persists. A missing id gets a fresh ULID;
// imported projects keep their upstream id.
func (s *FileStore) Add(p *models.Project) error {
	if p.ProjectID == "" {
		p.ProjectID = newULID()
	}
	for _, existing := range s.projects {
		if existing.ProjectID == p.ProjectID {
			return fmt.Errorf("project already exists: %s", p.ProjectID)
		}
	}
	s.projects = append(s.projects, p)
	return s.Save()
}

// Update replaces the stored project with the same id and persists.
func (s *FileStore) Update(p *models.Project) error {
	for i, existing := range s.projects {
		if existing.ProjectID == p.ProjectID {
			s.projects[i] = p
			return s.Save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, p.ProjectID)
}

// Delete removes the project with the given id and persists.
func (s *FileStore) Delete(id string) error {
	for i, existing := range s.projects {
		if existing.ProjectID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			return s.Save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
