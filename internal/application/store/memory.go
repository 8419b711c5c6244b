package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"onegov/internal/application/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
)

// InMemoryStore keeps applications in maps guarded by an RWMutex. Transition
// applies the same compare-and-swap as the Postgres store.
type InMemoryStore struct {
	mu         sync.RWMutex
	apps       map[id.ApplicationID]*models.Application
	byTracking map[string]id.ApplicationID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		apps:       make(map[id.ApplicationID]*models.Application),
		byTracking: make(map[string]id.ApplicationID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byTracking[app.TrackingID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	if _, exists := s.apps[app.ID]; exists {
		return sentinel.ErrConflict
	}
	s.apps[app.ID] = app.Clone()
	s.byTracking[app.TrackingID] = app.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, appID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return app.Clone(), nil
}

func (s *InMemoryStore) FindByTrackingID(_ context.Context, trackingID string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appID, ok := s.byTracking[trackingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.apps[appID].Clone(), nil
}

// ListByCitizen returns the citizen's applications newest first.
func (s *InMemoryStore) ListByCitizen(_ context.Context, citizenID id.CitizenID) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, 0)
	for _, app := range s.apps {
		if app.CitizenID == citizenID {
			out = append(out, *app.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newer(out[i], out[j])
	})
	return out, nil
}

// ListByStatus returns up to limit applications in status, oldest first.
func (s *InMemoryStore) ListByStatus(_ context.Context, status models.Status, limit int) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, 0)
	for _, app := range s.apps {
		if app.Status == status {
			out = append(out, *app.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newer(out[j], out[i])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Transition replaces the stored application with app if the stored copy is
// still at prevStatus and prevUpdatedAt; otherwise it reports ErrInvalidState.
func (s *InMemoryStore) Transition(_ context.Context, app *models.Application, prevStatus models.Status, prevUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.apps[app.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Status != prevStatus || !current.UpdatedAt.Equal(prevUpdatedAt) {
		return sentinel.ErrInvalidState
	}
	s.apps[app.ID] = app.Clone()
	return nil
}

func newer(a, b models.Application) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.TrackingID > b.TrackingID
	}
	return a.CreatedAt.After(b.CreatedAt)
}
