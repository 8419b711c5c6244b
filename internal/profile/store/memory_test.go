package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"onegov/internal/profile/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestFindMissing() {
	_, err := s.store.FindByCitizen(s.ctx, id.NewCitizenID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestUpsertKeepsCreatedAt() {
	citizenID := id.NewCitizenID()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Upsert(s.ctx, &models.CitizenProfile{
		CitizenID: citizenID, Name: "Asha", CreatedAt: created, UpdatedAt: created,
	}))

	later := created.Add(48 * time.Hour)
	s.Require().NoError(s.store.Upsert(s.ctx, &models.CitizenProfile{
		CitizenID: citizenID, Name: "Asha Devi", CreatedAt: later, UpdatedAt: later,
	}))

	got, err := s.store.FindByCitizen(s.ctx, citizenID)
	s.Require().NoError(err)
	s.Equal("Asha Devi", got.Name)
	s.Equal(created, got.CreatedAt)
	s.Equal(later, got.UpdatedAt)
}

func (s *InMemoryStoreSuite) TestReturnsCopies() {
	citizenID := id.NewCitizenID()
	p := &models.CitizenProfile{CitizenID: citizenID, Age: models.IntPtr(30), Extra: map[string]any{"k": "v"}}
	s.Require().NoError(s.store.Upsert(s.ctx, p))

	*p.Age = 99
	p.Extra["k"] = "changed"

	got, err := s.store.FindByCitizen(s.ctx, citizenID)
	s.Require().NoError(err)
	s.Equal(30, *got.Age)
	s.Equal("v", got.Extra["k"])
}
