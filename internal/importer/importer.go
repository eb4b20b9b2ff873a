// Package importer ingests Phase 2 snapshot files and turns them into new
// projects with provenance recorded in ImportInfo.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"impltrack/internal/checksum"
	"impltrack/internal/models"
)

// ExpectedSource is the source marker a Phase 2 export must carry.
const ExpectedSource = "Phase2_Design"

// ErrChecksumMismatch is returned when the embedded checksum does not match
// the file contents. The whole import is rejected; nothing is applied.
var ErrChecksumMismatch = errors.New("checksum mismatch: file may have been tampered with")

// Importer reads Phase 2 exports and keeps a copy of each ingested file.
type Importer struct {
	importsDir string
}

// New creates an Importer that archives ingested files into importsDir.
func New(importsDir string) *Importer {
	return &Importer{importsDir: importsDir}
}

// ImportSnapshot validates and ingests one Phase 2 export file, returning a
// new project. Validation and checksum failures reject the file wholesale.
func (im *Importer) ImportSnapshot(path string) (*models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}

	if err := validateSnapshot(doc); err != nil {
		return nil, err
	}

	if cs, ok := doc["checksum"].(string); ok {
		payload := make(map[string]any, len(doc))
		for k, v := range doc {
			if k != "checksum" {
				payload[k] = v
			}
		}
		match, err := checksum.Verify(payload, cs)
		if err != nil {
			return nil, fmt.Errorf("verify checksum: %w", err)
		}
		if !match {
			return nil, ErrChecksumMismatch
		}
	}

	projectData := doc["project"].(map[string]any)
	p := models.NewProject(asString(projectData["project_id"]), asString(projectData["project_name"]))
	p.ImportInfo = models.ImportInfo{
		SourceFile:       filepath.Base(path),
		ImportDate:       time.Now().UTC(),
		Phase2ExportDate: asString(doc["exported_at"]),
		OriginalPhase1ID: asString(projectData["original_phase1_id"]),
		Phase1Data:       asMap(projectData["phase1_data"]),
		DesignData:       asMap(projectData["design_data"]),
	}

	if err := im.archive(path, data); err != nil {
		return nil, err
	}

	return p, nil
}

// validateSnapshot checks the structural contract of a Phase 2 export and
// reports every violation at once.
func validateSnapshot(doc map[string]any) error {
	var problems []string

	if doc["source"] != ExpectedSource {
		problems = append(problems, "not a Phase 2 export file (wrong or missing source marker)")
	}

	project, ok := doc["project"].(map[string]any)
	if !ok {
		problems = append(problems, "required field 'project' is missing")
	} else {
		if asString(project["project_id"]) == "" {
			problems = append(problems, "required field 'project.project_id' is missing or empty")
		}
		if asString(project["project_name"]) == "" {
			problems = append(problems, "required field 'project.project_name' is missing or empty")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid import file: %s", strings.Join(problems, "; "))
	}
	return nil
}

// archive keeps a copy of the ingested file for provenance.
func (im *Importer) archive(srcPath string, data []byte) error {
	if err := os.MkdirAll(im.importsDir, 0755); err != nil {
		return fmt.Errorf("create imports directory: %w", err)
	}
	dest := filepath.Join(im.importsDir, filepath.Base(srcPath))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("archive import file: %w", err)
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
