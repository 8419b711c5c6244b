package store

import (
	"context"
	"sync"

	"onegov/internal/profile/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in a map guarded by an RWMutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.CitizenID]*models.CitizenProfile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.CitizenID]*models.CitizenProfile)}
}

func (s *InMemoryStore) FindByCitizen(_ context.Context, citizenID id.CitizenID) (*models.CitizenProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[citizenID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(p), nil
}

// Upsert creates the profile or replaces it in place, keeping CreatedAt.
func (s *InMemoryStore) Upsert(_ context.Context, p *models.CitizenProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := clone(p)
	if existing, ok := s.profiles[p.CitizenID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	s.profiles[p.CitizenID] = stored
	return nil
}

func clone(p *models.CitizenProfile) *models.CitizenProfile {
	c := *p
	if p.Age != nil {
		c.Age = models.IntPtr(*p.Age)
	}
	if p.AnnualIncome != nil {
		c.AnnualIncome = models.Int64Ptr(*p.AnnualIncome)
	}
	if p.HasBPLCard != nil {
		c.HasBPLCard = models.BoolPtr(*p.HasBPLCard)
	}
	if p.Extra != nil {
		c.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}
