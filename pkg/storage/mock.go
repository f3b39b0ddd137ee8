package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// MockStorage is an in-memory Storage for tests and local play.
type MockStorage struct {
	mu        sync.RWMutex
	scenes    map[uuid.UUID]map[string][]byte
	sessions  map[uuid.UUID]*Snapshot
	pingError error
	saveError error
	saves     int
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		scenes:   make(map[uuid.UUID]map[string][]byte),
		sessions: make(map[uuid.UUID]*Snapshot),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every save fail with err.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SceneSaves counts successful scene state writes.
func (m *MockStorage) SceneSaves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// PutRawSceneState stores data as-is, bypassing any encoding.
func (m *MockStorage) PutRawSceneState(sessionID uuid.UUID, scene string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scenes[sessionID] == nil {
		m.scenes[sessionID] = make(map[string][]byte)
	}
	m.scenes[sessionID][scene] = data
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) LoadSceneState(ctx context.Context, sessionID uuid.UUID, scene string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.scenes[sessionID][scene]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MockStorage) SaveSceneState(ctx context.Context, sessionID uuid.UUID, scene string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	if m.scenes[sessionID] == nil {
		m.scenes[sessionID] = make(map[string][]byte)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.scenes[sessionID][scene] = stored
	m.saves++
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	cp := *snap
	m.sessions[snap.ID] = &cp
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *snap
	return &cp, nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.scenes, id)
	return nil
}
