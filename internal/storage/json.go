package storage

import (
	"encoding/json"
	"fmt"

	"tdisc/internal/domain"
)

// JSONStorage stores reports in an indented JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage that reads/writes path as JSON.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the report file location.
func (s *JSONStorage) Path() string {
	return s.path
}

// Save writes the report.
func (s *JSONStorage) Save(report *domain.DiscoveryReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeReport(s.path, append(data, '\n'))
}

// Load reads a report written by Save.
func (s *JSONStorage) Load() (*domain.DiscoveryReport, error) {
	data, err := readReport(s.path)
	if err != nil {
		return nil, err
	}
	var report domain.DiscoveryReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}
