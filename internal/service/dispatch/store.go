package dispatch

import "sync"

// JobStore holds live assignment jobs keyed by booking id.
type JobStore interface {
	Get(bookingID string) (*Job, bool)
	Put(j *Job)
	Delete(bookingID string)
	Len() int
}

// MemoryStore is an in-process JobStore. The store mutex only protects the
// map; per-job state is guarded by the job's own mutex.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

func (s *MemoryStore) Get(bookingID string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[bookingID]
	return j, ok
}

func (s *MemoryStore) Put(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.BookingID] = j
}

func (s *MemoryStore) Delete(bookingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, bookingID)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
