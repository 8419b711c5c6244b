package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
)

func TestNewVaultDocument(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	owner := id.NewCitizenID()

	doc, err := NewVaultDocument(owner, id.KindAadhaar, " aadhaar.pdf ", 2048, now)
	require.NoError(t, err)
	assert.Equal(t, "aadhaar.pdf", doc.FileName)
	assert.Equal(t, VerificationPending, doc.Status)
	assert.Equal(t, owner, doc.CitizenID)

	_, err = NewVaultDocument(owner, "passport", "p.pdf", 1, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewVaultDocument(owner, id.KindPAN, "", 1, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewVaultDocument(owner, id.KindPAN, "pan.pdf", -1, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestApplyVerification(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	newDoc := func() *VaultDocument {
		d, err := NewVaultDocument(id.NewCitizenID(), id.KindPhoto, "photo.jpg", 10, now)
		require.NoError(t, err)
		return d
	}

	t.Run("verify", func(t *testing.T) {
		d := newDoc()
		require.NoError(t, d.ApplyVerification(VerificationVerified, id.RoleOfficer, "", now))
		assert.Equal(t, VerificationVerified, d.Status)
		assert.Equal(t, id.RoleOfficer, d.VerifiedBy)
		require.NotNil(t, d.VerifiedAt)
	})

	t.Run("reject needs remark", func(t *testing.T) {
		d := newDoc()
		err := d.ApplyVerification(VerificationRejected, id.RoleOfficer, "  ", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, VerificationPending, d.Status)
	})

	t.Run("decided documents are final", func(t *testing.T) {
		d := newDoc()
		require.NoError(t, d.ApplyVerification(VerificationRejected, id.RoleAdmin, "blurred scan", now))
		err := d.ApplyVerification(VerificationVerified, id.RoleAdmin, "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestParseVerificationDecision(t *testing.T) {
	d, err := ParseVerificationDecision(" Verified ")
	require.NoError(t, err)
	assert.Equal(t, VerificationVerified, d)

	_, err = ParseVerificationDecision("pending")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
