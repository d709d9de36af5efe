package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tdisc/internal/domain"
)

// Storage persists and loads discovery reports (e.g. for the browse viewer).
type Storage interface {
	Save(report *domain.DiscoveryReport) error
	Load() (*domain.DiscoveryReport, error)
	Path() string
}

// New returns a Storage for path, picking the format from its extension.
// .yaml and .yml select YAML, anything else JSON.
func New(path string) Storage {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLStorage(path)
	default:
		return NewJSONStorage(path)
	}
}

func writeReport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func readReport(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	return data, nil
}
