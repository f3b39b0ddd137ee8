package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

// Manager keeps the live sessions of a process and resumes stored ones on
// demand. Sessions unused for longer than Options.IdleTimeout are dropped
// from memory by Sweep; their state stays in the store.
type Manager struct {
	opts Options

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

type entry struct {
	s    *Session
	used time.Time
}

func NewManager(opts Options) (*Manager, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	return &Manager{opts: opts, sessions: make(map[uuid.UUID]*entry)}, nil
}

// Create starts a new session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s, err := New(ctx, m.opts)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = &entry{s: s, used: m.opts.Now()}
	m.mu.Unlock()
	m.live(1)
	return s, nil
}

// Get returns a live session, resuming it from storage when this process
// has not seen it yet. A cached session is rebuilt when the store holds a
// newer snapshot than the one it last wrote, and dropped when the store no
// longer has it.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.opts.Now()
	if e, ok := m.sessions[id]; ok {
		if m.current(ctx, e.s) {
			e.used = now
			return e.s, nil
		}
		e.s.Close()
		delete(m.sessions, id)
		m.live(-1)
	}
	s, err := Resume(ctx, id, m.opts)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = &entry{s: s, used: now}
	m.live(1)
	return s, nil
}

// current reports whether s still matches the stored snapshot. Store
// failures keep the cached session.
func (m *Manager) current(ctx context.Context, s *Session) bool {
	snap, err := m.opts.Store.LoadSession(ctx, s.ID())
	if err != nil {
		m.opts.Logger.Warn("failed to check stored session, using cached copy",
			"session_id", s.ID().String(), "error", err)
		return true
	}
	return snap != nil && !snap.UpdatedAt.After(s.savedAt())
}

// Delete closes a session and removes its stored state.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		e.s.Close()
		m.live(-1)
	}

	snap, err := m.opts.Store.LoadSession(ctx, id)
	if err != nil && !errors.Is(err, storage.ErrCorruptState) {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if !ok && snap == nil && err == nil {
		return storage.ErrSessionNotFound
	}
	return m.opts.Store.DeleteSession(ctx, id)
}

// Sweep closes the sessions that have been idle for longer than the idle
// timeout and returns how many it closed.
func (m *Manager) Sweep() int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.opts.Now().Add(-m.opts.IdleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, e := range m.sessions {
		if e.used.Before(cutoff) {
			idle = append(idle, e.s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
		m.live(-1)
	}
	if len(idle) > 0 {
		m.opts.Logger.Info("evicted idle sessions", "count", len(idle))
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) live(delta int) {
	if m.opts.LiveSessions != nil {
		m.opts.LiveSessions(delta)
	}
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close closes every live session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		e.s.Close()
		delete(m.sessions, id)
		m.live(-1)
	}
}
