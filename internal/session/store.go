package session

import (
	"fmt"
	"sync"

	"github.com/kursadbilgin/barcode-dispatch/internal/domain"
)

// Store keeps successful generation results in arrival order.
type Store struct {
	mu      sync.RWMutex
	results []domain.GenerationResult
}

func NewStore() *Store {
	return &Store{}
}

// Add appends a successful result. Failed results are rejected.
func (s *Store) Add(result domain.GenerationResult) error {
	if !result.Succeeded {
		return fmt.Errorf("%w: only successful results can be stored", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, result)
	return nil
}

// All returns a copy of the stored results.
func (s *Store) All() []domain.GenerationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.GenerationResult, len(s.results))
	copy(out, s.results)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.results)
}

// Clear empties the store and reports how many entries were dropped.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.results)
	s.results = nil
	return n
}
