package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"onegov/internal/application/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	t0    time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.t0 = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) newApp(citizenID id.CitizenID, trackingID string, at time.Time) *models.Application {
	app, err := models.NewApplication(models.Submission{
		CitizenID: citizenID, Family: models.FamilyScheme, ServiceRef: "nsp", FormSnapshot: map[string]any{},
	}, trackingID, at)
	s.Require().NoError(err)
	return app
}

func (s *InMemoryStoreSuite) TestCreateRejectsTakenTrackingID() {
	citizen := id.NewCitizenID()
	s.Require().NoError(s.store.Create(s.ctx, s.newApp(citizen, "APP100", s.t0)))
	err := s.store.Create(s.ctx, s.newApp(citizen, "APP100", s.t0))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemoryStoreSuite) TestFindReturnsCopies() {
	app := s.newApp(id.NewCitizenID(), "APP101", s.t0)
	s.Require().NoError(s.store.Create(s.ctx, app))

	got, err := s.store.FindByTrackingID(s.ctx, "APP101")
	s.Require().NoError(err)
	got.Timeline = append(got.Timeline, models.TimelineEntry{Status: models.StatusVerified})
	got.FormSnapshot["injected"] = true

	again, err := s.store.FindByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Len(again.Timeline, 1)
	s.NotContains(again.FormSnapshot, "injected")

	_, err = s.store.FindByTrackingID(s.ctx, "APP999")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestTransitionCompareAndSwap() {
	app := s.newApp(id.NewCitizenID(), "APP102", s.t0)
	s.Require().NoError(s.store.Create(s.ctx, app))

	first, _ := s.store.FindByID(s.ctx, app.ID)
	second, _ := s.store.FindByID(s.ctx, app.ID)

	_, err := first.Apply(models.Transition{Target: models.StatusVerified, Actor: id.RoleOfficer}, s.t0.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Transition(s.ctx, first, models.StatusSubmitted, app.UpdatedAt))

	_, err = second.Apply(models.Transition{Target: models.StatusUnderReview, Actor: id.RoleOfficer}, s.t0.Add(2*time.Hour))
	s.Require().NoError(err)
	err = s.store.Transition(s.ctx, second, models.StatusSubmitted, app.UpdatedAt)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	stored, _ := s.store.FindByID(s.ctx, app.ID)
	s.Equal(models.StatusVerified, stored.Status)
	s.Len(stored.Timeline, 2)

	missing := s.newApp(id.NewCitizenID(), "APP103", s.t0)
	s.ErrorIs(s.store.Transition(s.ctx, missing, models.StatusSubmitted, s.t0), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListOrdering() {
	citizen := id.NewCitizenID()
	for i, tid := range []string{"APP1", "APP2", "APP3"} {
		s.Require().NoError(s.store.Create(s.ctx, s.newApp(citizen, tid, s.t0.Add(time.Duration(i)*time.Minute))))
	}
	s.Require().NoError(s.store.Create(s.ctx, s.newApp(id.NewCitizenID(), "APP4", s.t0)))

	mine, err := s.store.ListByCitizen(s.ctx, citizen)
	s.Require().NoError(err)
	s.Require().Len(mine, 3)
	s.Equal("APP3", mine[0].TrackingID)

	queue, err := s.store.ListByStatus(s.ctx, models.StatusSubmitted, 2)
	s.Require().NoError(err)
	s.Require().Len(queue, 2)
	s.Equal(s.t0, queue[0].CreatedAt)
	s.Equal(s.t0, queue[1].CreatedAt)

	none, err := s.store.ListByStatus(s.ctx, models.StatusApproved, 10)
	s.Require().NoError(err)
	s.Empty(none)
}
