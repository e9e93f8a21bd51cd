package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Lixing-Zhang/lunch-order/internal/service"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("ordering session not found")
)

// SessionRepository stores the ordering session of each form visitor
type SessionRepository interface {
	Create(ctx context.Context, controller *service.OrderController) (string, error)
	Get(ctx context.Context, id string) (*service.OrderController, error)
	Delete(ctx context.Context, id string) error
}

type sessionEntry struct {
	controller *service.OrderController
	lastSeen   time.Time
}

// InMemorySessionRepository keeps sessions in memory. Sessions idle for
// longer than ttl are dropped by PurgeExpired; a zero ttl keeps them forever.
type InMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewInMemorySessionRepository creates an empty repository
func NewInMemorySessionRepository(ttl time.Duration) *InMemorySessionRepository {
	return &InMemorySessionRepository{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores controller under a new random ID
func (r *InMemorySessionRepository) Create(ctx context.Context, controller *service.OrderController) (string, error) {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{controller: controller, lastSeen: r.now()}
	return id, nil
}

// Get returns the session's controller and marks it as recently used
func (r *InMemorySessionRepository) Get(ctx context.Context, id string) (*service.OrderController, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.sessions[id]
	if !exists || r.expired(entry) {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = r.now()
	return entry.controller, nil
}

// Delete removes a session
func (r *InMemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired or not
func (r *InMemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// PurgeExpired removes idle sessions and returns how many were removed
func (r *InMemorySessionRepository) PurgeExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		if r.expired(entry) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor purges expired sessions every interval until ctx is done
func (r *InMemorySessionRepository) RunJanitor(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.PurgeExpired()
		}
	}
}

func (r *InMemorySessionRepository) expired(entry *sessionEntry) bool {
	return r.ttl > 0 && r.now().Sub(entry.lastSeen) > r.ttl
}
