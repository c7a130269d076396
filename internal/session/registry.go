package session

import (
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCapacity = 1024

// Registry keeps the most recently used sessions; the least recently used
// one is dropped when capacity is reached.
type Registry struct {
	cache    *lru.Cache[string, *Session]
	runner   Runner
	archiver Archiver
}

func NewRegistry(capacity int, runner Runner, archiver Archiver) (*Registry, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[string, *Session](capacity)
	if err != nil {
		return nil, fmt.Errorf("init session cache: %w", err)
	}
	return &Registry{cache: cache, runner: runner, archiver: archiver}, nil
}

// Create registers a new session in the input step.
func (r *Registry) Create() *Session {
	s := New(uuid.NewString(), r.runner, r.archiver)
	r.cache.Add(s.ID, s)
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	return r.cache.Get(id)
}

// Remove drops the session and reports whether it was registered. A run in
// flight still finishes and archives its plan.
func (r *Registry) Remove(id string) bool {
	return r.cache.Remove(id)
}
