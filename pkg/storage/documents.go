package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DocumentStore persists JSON documents on disk under a base directory,
// one file per document ID.
type DocumentStore struct {
	baseDir string
}

// NewDocumentStore ensures the base directory exists and returns a handle.
func NewDocumentStore(baseDir string) (*DocumentStore, error) {
	if baseDir == "" {
		baseDir = "./data/schedules"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create schedules directory: %w", err)
	}
	return &DocumentStore{baseDir: baseDir}, nil
}

// Save marshals the document and writes it under the given ID.
func (s *DocumentStore) Save(id string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schedule document: %w", err)
	}
	if err := os.WriteFile(s.resolve(id), data, 0o644); err != nil {
		return fmt.Errorf("write schedule document: %w", err)
	}
	return nil
}

// Load reads the document stored under the given ID into dst. It reports
// os.ErrNotExist when no such document exists.
func (s *DocumentStore) Load(id string, dst interface{}) error {
	data, err := os.ReadFile(s.resolve(id))
	if err != nil {
		return fmt.Errorf("read schedule document: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode schedule document: %w", err)
	}
	return nil
}

// Exists reports whether a document is stored under the given ID.
func (s *DocumentStore) Exists(id string) bool {
	_, err := os.Stat(s.resolve(id))
	return err == nil
}

// List returns the IDs of all stored documents, sorted.
func (s *DocumentStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list schedule documents: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes a stored document if present.
func (s *DocumentStore) Delete(id string) error {
	if err := os.Remove(s.resolve(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete schedule document: %w", err)
	}
	return nil
}

// Path exposes the underlying file path (useful for debugging).
func (s *DocumentStore) Path(id string) string {
	return s.resolve(id)
}

func (s *DocumentStore) resolve(id string) string {
	name := filepath.Base(id)
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(s.baseDir, name)
}
