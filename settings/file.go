package settings

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

// FileStore persists settings as a single TOML document, one table per sink
// name. Writes rewrite the whole file; the store is meant for a handful of
// sinks, not high churn.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	values, ok := doc[key]
	if !ok {
		return map[string]any{}, nil
	}
	return values, nil
}

func (s *FileStore) Put(key string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[key] = encodableValues(values)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() (map[string]map[string]any, error) {
	doc := map[string]map[string]any{}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}

	// toml decodes missing tables as nil maps
	maps.DeleteFunc(doc, func(_ string, v map[string]any) bool { return v == nil })
	return doc, nil
}

var _ Store = (*FileStore)(nil)
