package store

import (
	"context"
	"sort"
	"sync"

	"onegov/internal/vault/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
)

// InMemoryStore keeps vault documents in a map guarded by an RWMutex.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[id.DocumentID]models.VaultDocument
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[id.DocumentID]models.VaultDocument)}
}

func (s *InMemoryStore) Save(_ context.Context, d *models.VaultDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[d.ID]; exists {
		return sentinel.ErrConflict
	}
	s.docs[d.ID] = clone(*d)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, docID id.DocumentID) (*models.VaultDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := clone(d)
	return &c, nil
}

// ListByCitizen returns the citizen's documents oldest first.
func (s *InMemoryStore) ListByCitizen(_ context.Context, citizenID id.CitizenID) ([]models.VaultDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.VaultDocument, 0)
	for _, d := range s.docs {
		if d.CitizenID == citizenID {
			out = append(out, clone(d))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}

// UpdateVerification replaces the verification fields only when the stored
// document is still pending.
func (s *InMemoryStore) UpdateVerification(_ context.Context, d *models.VaultDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.docs[d.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Status != models.VerificationPending {
		return sentinel.ErrInvalidState
	}
	current.Status = d.Status
	current.VerifiedBy = d.VerifiedBy
	current.VerifiedAt = d.VerifiedAt
	current.Remarks = d.Remarks
	s.docs[d.ID] = current
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, docID id.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[docID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.docs, docID)
	return nil
}

func clone(d models.VaultDocument) models.VaultDocument {
	if d.VerifiedAt != nil {
		t := *d.VerifiedAt
		d.VerifiedAt = &t
	}
	return d
}
