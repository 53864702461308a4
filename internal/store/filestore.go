package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/edvin/modelerd/internal/model"
)

// fileState is the on-disk layout of the store file.
type fileState struct {
	Endpoints  []model.Endpoint                  `json:"endpoints"`
	TabConfigs map[string]model.TabConfiguration `json:"tab_configs"`
}

// FileStore persists endpoints and tab configs as a single JSON file.
// Access is serialized through a mutex; concurrent writers from other
// processes are not coordinated. Edits flow through one UI session,
// so last-writer-wins is acceptable.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the given file path. The file
// is created lazily on first write; a missing file reads as empty.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Endpoints(ctx context.Context) ([]model.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.load()
	if err != nil {
		return nil, err
	}
	return state.Endpoints, nil
}

func (s *FileStore) SetEndpoints(ctx context.Context, endpoints []model.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.load()
	if err != nil {
		return err
	}
	state.Endpoints = endpoints
	return s.save(state)
}

func (s *FileStore) TabConfig(ctx context.Context, documentPath string) (model.TabConfiguration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.load()
	if err != nil {
		return model.TabConfiguration{}, false, err
	}
	cfg, ok := state.TabConfigs[documentPath]
	return cfg, ok, nil
}

func (s *FileStore) SetTabConfig(ctx context.Context, documentPath string, cfg model.TabConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.load()
	if err != nil {
		return err
	}
	state.TabConfigs[documentPath] = cfg
	return s.save(state)
}

func (s *FileStore) load() (*fileState, error) {
	state := &fileState{TabConfigs: make(map[string]model.TabConfiguration)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", s.path, err)
	}
	if state.TabConfigs == nil {
		state.TabConfigs = make(map[string]model.TabConfiguration)
	}
	return state, nil
}

// save writes through a temp file and renames, so a crash mid-write
// never leaves a truncated store behind.
func (s *FileStore) save(state *fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
