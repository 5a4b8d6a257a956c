package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pytexp/internal/discovery"
	"pytexp/internal/domain"
)

// ErrNoOutputPath is returned when no JSON output file was configured
var ErrNoOutputPath = errors.New("no output path configured")

// NewCollection builds a snapshot of a discovery run rooted at root.
func NewCollection(root string, result *discovery.Result) *domain.Collection {
	tree := result.Tree
	tests := make([]domain.CollectedTest, 0, tree.Len())
	for _, e := range tree.Entities() {
		tests = append(tests, domain.CollectedTest{
			Path: tree.FullPath(e),
			Kind: e.Kind.String(),
			File: tree.File(e),
			Line: e.Line,
		})
	}

	var skipped []string
	for _, perr := range result.Skipped {
		skipped = append(skipped, perr.Path)
	}

	return &domain.Collection{
		Meta: domain.CollectionMeta{
			Root:         root,
			TotalFiles:   len(result.Files),
			TotalTests:   len(tests),
			SkippedFiles: skipped,
			Timestamp:    time.Now().Format(time.RFC3339),
		},
		Tests: tests,
	}
}

// Save writes the snapshot to the configured JSON output file.
func (s *JSONStorage) Save(collection *domain.Collection) error {
	path := s.cfg.GetOutputPath()
	if path == "" {
		return ErrNoOutputPath
	}

	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}

// Load reads the last snapshot from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.Collection, error) {
	path := s.cfg.GetOutputPath()
	if path == "" {
		return nil, ErrNoOutputPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection file: %w", err)
	}
	var collection domain.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("parse collection: %w", err)
	}
	return &collection, nil
}
