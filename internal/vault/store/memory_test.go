package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onegov/internal/vault/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
)

func TestInMemoryListOrder(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	owner := id.NewCitizenID()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	late, _ := models.NewVaultDocument(owner, id.KindPAN, "pan.pdf", 1, t0.Add(time.Hour))
	early, _ := models.NewVaultDocument(owner, id.KindAadhaar, "a.pdf", 1, t0)
	other, _ := models.NewVaultDocument(id.NewCitizenID(), id.KindPhoto, "p.jpg", 1, t0)
	for _, d := range []*models.VaultDocument{late, early, other} {
		require.NoError(t, s.Save(ctx, d))
	}
	assert.ErrorIs(t, s.Save(ctx, late), sentinel.ErrConflict)

	docs, err := s.ListByCitizen(ctx, owner)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, early.ID, docs[0].ID)
	assert.Equal(t, late.ID, docs[1].ID)
}

func TestInMemoryUpdateVerificationOnce(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d, _ := models.NewVaultDocument(id.NewCitizenID(), id.KindPAN, "pan.pdf", 1, now)
	require.NoError(t, s.Save(ctx, d))

	require.NoError(t, d.ApplyVerification(models.VerificationVerified, id.RoleOfficer, "", now))
	require.NoError(t, s.UpdateVerification(ctx, d))
	assert.ErrorIs(t, s.UpdateVerification(ctx, d), sentinel.ErrInvalidState)

	got, err := s.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, got.Status)
}
