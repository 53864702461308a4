// Package store persists named connection endpoints and per-file
// deployment configuration for the modeler shell.
package store

import (
	"context"
	"sync"

	"github.com/edvin/modelerd/internal/model"
)

// Store is the endpoint/tab-config persistence contract. Reads of a
// missing key return the zero value and ok=false, never an error.
type Store interface {
	Endpoints(ctx context.Context) ([]model.Endpoint, error)
	SetEndpoints(ctx context.Context, endpoints []model.Endpoint) error
	TabConfig(ctx context.Context, documentPath string) (model.TabConfiguration, bool, error)
	SetTabConfig(ctx context.Context, documentPath string, cfg model.TabConfiguration) error
}

// MemStore is an in-memory Store used by tests and by sessions that
// opt out of persistence.
type MemStore struct {
	mu         sync.Mutex
	endpoints  []model.Endpoint
	tabConfigs map[string]model.TabConfiguration
}

func NewMemStore() *MemStore {
	return &MemStore{tabConfigs: make(map[string]model.TabConfiguration)}
}

func (s *MemStore) Endpoints(ctx context.Context) ([]model.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Endpoint, len(s.endpoints))
	copy(out, s.endpoints)
	return out, nil
}

func (s *MemStore) SetEndpoints(ctx context.Context, endpoints []model.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints = make([]model.Endpoint, len(endpoints))
	copy(s.endpoints, endpoints)
	return nil
}

func (s *MemStore) TabConfig(ctx context.Context, documentPath string) (model.TabConfiguration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.tabConfigs[documentPath]
	return cfg, ok, nil
}

func (s *MemStore) SetTabConfig(ctx context.Context, documentPath string, cfg model.TabConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabConfigs[documentPath] = cfg
	return nil
}
