// Package repository persists the finished skill graph.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/skillgraph/internal/domain/model"
	"github.com/okian/skillgraph/internal/domain/types"
)

// Default output file names.
const (
	SkillsFile        = "skills.json"
	RelationshipsFile = "relationships.json"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// Store writes a complete graph, replacing whatever an earlier run wrote.
type Store interface {
	Save(ctx context.Context, g types.Graph) error
}

// JSONStore writes skills.json and relationships.json into a directory.
type JSONStore struct {
	dir               string
	skillsFile        string
	relationshipsFile string
}

// NewJSONStore creates a store writing into dir.
func NewJSONStore(dir string, opts ...Option) *JSONStore {
	s := &JSONStore{
		dir:               dir,
		skillsFile:        SkillsFile,
		relationshipsFile: RelationshipsFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paths returns the skills and relationships file paths.
func (s *JSONStore) Paths() (skills, relationships string) {
	return filepath.Join(s.dir, s.skillsFile), filepath.Join(s.dir, s.relationshipsFile)
}

// Save writes both files. Each file is written to a temporary name first and
// renamed into place, so readers never see a partial document.
func (s *JSONStore) Save(ctx context.Context, g types.Graph) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, s.dir, err)
	}
	skills, rels := g.Skills, g.Relationships
	if skills == nil {
		skills = []model.SkillNode{}
	}
	if rels == nil {
		rels = []model.Edge{}
	}
	skillsPath, relsPath := s.Paths()
	if err := s.writeJSON(skillsPath, skills); err != nil {
		return err
	}
	return s.writeJSON(relsPath, rels)
}

func (s *JSONStore) writeJSON(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: encode %s: %w", ErrWriteOutput, path, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	return nil
}
