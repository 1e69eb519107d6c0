package job

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/extractd/internal/extractor"
)

// Store is a thread-safe in-memory job registry with TTL eviction. Each
// backend instance owns one; job ids are scoped to the instance that issued
// them. At most one live job exists per id.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *Store) Put(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID()] = j
}

// Delete removes the job for id. A no-op for unknown ids.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

// Get returns the job for id, or ErrNotFound if this store never saw it.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", extractor.ErrNotFound, id)
	}
	return j, nil
}

// inFlightGrace is the multiple of the TTL a non-terminal job may sit
// without an update before it is considered abandoned. A webhook-only job
// whose callback was lost would otherwise stay in the store for the process
// lifetime.
const inFlightGrace = 24

// Cleanup evicts terminal jobs whose last update is older than the TTL, and
// in-flight jobs untouched for inFlightGrace times the TTL.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	terminalCutoff := now.Add(-s.ttl)
	staleCutoff := now.Add(-s.ttl * inFlightGrace)
	for id, j := range s.jobs {
		updated := j.lastUpdated()
		if j.Status().Terminal() {
			if updated.Before(terminalCutoff) {
				delete(s.jobs, id)
			}
			continue
		}
		if updated.Before(staleCutoff) {
			delete(s.jobs, id)
		}
	}
}

// Len reports the number of tracked jobs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
