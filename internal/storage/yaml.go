package storage

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"tdisc/internal/domain"
)

// YAMLStorage stores reports as YAML.
type YAMLStorage struct {
	path string
}

// NewYAMLStorage returns a Storage that reads/writes path as YAML.
func NewYAMLStorage(path string) *YAMLStorage {
	return &YAMLStorage{path: path}
}

// Path returns the report file location.
func (s *YAMLStorage) Path() string {
	return s.path
}

// Save writes the report.
func (s *YAMLStorage) Save(report *domain.DiscoveryReport) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeReport(s.path, buf.Bytes())
}

// Load reads a report written by Save.
func (s *YAMLStorage) Load() (*domain.DiscoveryReport, error) {
	data, err := readReport(s.path)
	if err != nil {
		return nil, err
	}
	var report domain.DiscoveryReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}
