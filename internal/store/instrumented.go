package store

import (
	"context"
	"time"

	"termimage/backend/internal/metrics"
)

type instrumented struct {
	next    Store
	backend string
}

// Instrument wraps s so every call is counted and timed under backend.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

func (s *instrumented) Get(ctx context.Context, termID uint) (uint, bool, error) {
	start := time.Now()
	imageID, ok, err := s.next.Get(ctx, termID)
	metrics.ObserveStore(s.backend, "get", err, time.Since(start))
	return imageID, ok, err
}

func (s *instrumented) GetMany(ctx context.Context, termIDs []uint) (map[uint]uint, error) {
	start := time.Now()
	result, err := s.next.GetMany(ctx, termIDs)
	metrics.ObserveStore(s.backend, "get_many", err, time.Since(start))
	return result, err
}

func (s *instrumented) Set(ctx context.Context, termID, imageID uint) error {
	start := time.Now()
	err := s.next.Set(ctx, termID, imageID)
	metrics.ObserveStore(s.backend, "set", err, time.Since(start))
	return err
}

func (s *instrumented) Remove(ctx context.Context, termID uint) error {
	start := time.Now()
	err := s.next.Remove(ctx, termID)
	metrics.ObserveStore(s.backend, "remove", err, time.Since(start))
	return err
}
