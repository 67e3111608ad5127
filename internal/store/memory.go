package store

import (
	"context"
	"sync"
)

// MemoryStore keeps the mapping in process memory. It is meant for local
// development and tests; nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	images map[uint]uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{images: make(map[uint]uint)}
}

func (s *MemoryStore) Get(_ context.Context, termID uint) (uint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	imageID, ok := s.images[termID]
	return imageID, ok, nil
}

func (s *MemoryStore) GetMany(_ context.Context, termIDs []uint) (map[uint]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[uint]uint, len(termIDs))
	for _, termID := range termIDs {
		if imageID, ok := s.images[termID]; ok {
			result[termID] = imageID
		}
	}
	return result, nil
}

func (s *MemoryStore) Set(_ context.Context, termID, imageID uint) error {
	if imageID == 0 {
		return ErrZeroImage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[termID] = imageID
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, termID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.images, termID)
	return nil
}

// Len reports how many associations are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
