package storage

import (
	"pytexp/internal/config"
	"pytexp/internal/domain"
)

// Storage persists and loads collection snapshots (collect --json).
type Storage interface {
	Save(collection *domain.Collection) error
	Load() (*domain.Collection, error)
}

// JSONStorage stores snapshots in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
