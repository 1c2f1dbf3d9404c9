// Package missiontest provides an in-memory mission store for tests.
package missiontest

import (
	"context"
	"sort"
	"sync"

	"github.com/missiontracker/mission-backend/internal/missions/domain"
)

// Store is a concurrency-safe in-memory implementation of service.Store.
// Set Err to make every call fail with it.
type Store struct {
	mu       sync.Mutex
	missions map[string]domain.Mission
	Err      error
}

func NewStore() *Store {
	return &Store{missions: make(map[string]domain.Mission)}
}

func (s *Store) ListByOwner(_ context.Context, ownerID string) ([]domain.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]domain.Mission, 0)
	for _, m := range s.missions {
		if m.OwnerID == ownerID {
			out = append(out, clone(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) Insert(_ context.Context, m *domain.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.missions[m.ID] = clone(*m)
	return nil
}

func (s *Store) GetOwned(_ context.Context, ownerID, missionID string) (*domain.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	m, ok := s.missions[missionID]
	if !ok || m.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	c := clone(m)
	return &c, nil
}

func (s *Store) Update(_ context.Context, m *domain.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.missions[m.ID]
	if !ok || existing.OwnerID != m.OwnerID {
		return domain.ErrNotFound
	}
	existing.Title = m.Title
	existing.Description = m.Description
	existing.Status = m.Status
	existing.UpdatedAt = m.UpdatedAt
	s.missions[m.ID] = clone(existing)
	return nil
}

func (s *Store) Delete(_ context.Context, ownerID, missionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	m, ok := s.missions[missionID]
	if !ok || m.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(s.missions, missionID)
	return nil
}

// Get returns a stored mission regardless of owner.
func (s *Store) Get(missionID string) (domain.Mission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.missions[missionID]
	return clone(m), ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.missions)
}

func clone(m domain.Mission) domain.Mission {
	if m.Description != nil {
		d := *m.Description
		m.Description = &d
	}
	return m
}
