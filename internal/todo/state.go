package todo

import (
	"sync"

	"github.com/fentz26/todo/internal/models"
)

// RefreshSignal is an application-lifetime counter. Any increment asks
// subscribers to re-fetch the task list; the value itself carries no meaning.
type RefreshSignal struct {
	mu     sync.Mutex
	value  uint64
	nextID int
	subs   map[int]func(uint64)
}

// NewRefreshSignal returns a signal starting at zero.
func NewRefreshSignal() *RefreshSignal {
	return &RefreshSignal{subs: make(map[int]func(uint64))}
}

// Value returns the current counter.
func (s *RefreshSignal) Value() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Trigger increments the counter and notifies every subscriber. Callbacks run
// on the caller's goroutine, outside the lock.
func (s *RefreshSignal) Trigger() {
	s.mu.Lock()
	s.value++
	v := s.value
	fns := make([]func(uint64), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn for every change and returns an unsubscribe func.
func (s *RefreshSignal) Subscribe(fn func(uint64)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// FilterState is the single global display filter.
type FilterState struct {
	mu     sync.RWMutex
	value  models.Filter
	nextID int
	subs   map[int]func(models.Filter)
}

// NewFilterState returns a filter state holding f.
func NewFilterState(f models.Filter) *FilterState {
	if f == "" {
		f = models.FilterAll
	}
	return &FilterState{value: f, subs: make(map[int]func(models.Filter))}
}

// Get returns the current filter.
func (s *FilterState) Get() models.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the filter, notifying subscribers if it changed.
func (s *FilterState) Set(f models.Filter) {
	s.mu.Lock()
	if s.value == f {
		s.mu.Unlock()
		return
	}
	s.value = f
	fns := make([]func(models.Filter), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(f)
	}
}

// Cycle advances to the next filter and returns it.
func (s *FilterState) Cycle() models.Filter {
	next := s.Get().Next()
	s.Set(next)
	return next
}

// Subscribe registers fn for filter changes and returns an unsubscribe func.
func (s *FilterState) Subscribe(fn func(models.Filter)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
