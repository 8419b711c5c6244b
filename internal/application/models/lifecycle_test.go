package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newApp(t *testing.T, family Family) *Application {
	t.Helper()
	app, err := NewApplication(Submission{
		CitizenID:    id.NewCitizenID(),
		Family:       family,
		ServiceRef:   "pm-kisan",
		FormSnapshot: map[string]any{"name": "Asha"},
	}, family.Prefix()+"1700000000000000000", t0)
	require.NoError(t, err)
	return app
}

func officer(target Status) Transition {
	return Transition{Target: target, Actor: id.RoleOfficer}
}

func TestNewApplication(t *testing.T) {
	app := newApp(t, FamilyScheme)
	assert.Equal(t, StatusSubmitted, app.Status)
	require.Len(t, app.Timeline, 1)
	assert.Equal(t, id.RoleCitizen, app.Timeline[0].ActorRole)
	assert.Equal(t, "Scheme Application", app.ServiceName)
	assert.Empty(t, app.DocumentIDs)

	_, err := NewApplication(Submission{Family: FamilyScheme, ServiceRef: "x", FormSnapshot: map[string]any{}}, "APP1", t0)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	_, err = NewApplication(Submission{CitizenID: id.NewCitizenID(), Family: FamilyScheme, ServiceRef: "x"}, "APP1", t0)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation), "snapshot is required")
}

func TestHappyPathScheme(t *testing.T) {
	app := newApp(t, FamilyScheme)
	for i, st := range []Status{StatusVerified, StatusUnderReview, StatusApproved} {
		changed, err := app.Apply(officer(st), t0.Add(time.Duration(i+1)*time.Hour))
		require.NoError(t, err)
		assert.True(t, changed)
	}
	assert.Equal(t, StatusApproved, app.Status)
	assert.Len(t, app.Timeline, 4)
	assert.Equal(t, app.LastEntry().OccurredAt, app.UpdatedAt)
}

func TestSkipForward(t *testing.T) {
	app := newApp(t, FamilyBirthCertificate)
	changed, err := app.Apply(Transition{Target: StatusIssued, Actor: id.RoleAdmin, CertificateNumber: "BC-2026-0042"}, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "BC-2026-0042", app.CertificateNumber)
	assert.Equal(t, "BC-2026-0042", app.LastEntry().CertificateNumber)
}

func TestVariantOutcomes(t *testing.T) {
	scheme := newApp(t, FamilyScheme)
	_, err := scheme.Apply(officer(StatusIssued), t0)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	cert := newApp(t, FamilyDeathCertificate)
	_, err = cert.Apply(officer(StatusApproved), t0)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	complaint := newApp(t, FamilyComplaint)
	_, err = complaint.Apply(officer(StatusApproved), t0)
	assert.NoError(t, err)
}

func TestNoRegression(t *testing.T) {
	app := newApp(t, FamilyScheme)
	_, err := app.Apply(officer(StatusUnderReview), t0.Add(time.Hour))
	require.NoError(t, err)

	for _, back := range []Status{StatusSubmitted, StatusVerified} {
		_, err := app.Apply(officer(back), t0.Add(2*time.Hour))
		assert.True(t, dErrors.Is(err, dErrors.CodeValidation), back)
	}
	assert.Equal(t, StatusUnderReview, app.Status)
	assert.Len(t, app.Timeline, 2)
}

func TestSelfTransitionIsNoop(t *testing.T) {
	app := newApp(t, FamilyScheme)
	_, err := app.Apply(officer(StatusVerified), t0.Add(time.Hour))
	require.NoError(t, err)
	updated := app.UpdatedAt

	changed, err := app.Apply(officer(StatusVerified), t0.Add(5*time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, app.Timeline, 2)
	assert.Equal(t, updated, app.UpdatedAt)
}

func TestTerminalState(t *testing.T) {
	app := newApp(t, FamilyScheme)
	_, err := app.Apply(Transition{Target: StatusRejected, Actor: id.RoleOfficer, Remarks: "income proof unreadable"}, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "income proof unreadable", app.Remarks)
	assert.Equal(t, "income proof unreadable", app.LastEntry().Remarks)

	_, err = app.Apply(officer(StatusApproved), t0.Add(2*time.Hour))
	assert.True(t, dErrors.Is(err, dErrors.CodeTerminalState))

	changed, err := app.Apply(Transition{Target: StatusRejected, Actor: id.RoleOfficer}, t0.Add(3*time.Hour))
	require.NoError(t, err, "self transition on a terminal application is a no-op")
	assert.False(t, changed)
	assert.Len(t, app.Timeline, 2)
}

func TestRejectNeedsRemark(t *testing.T) {
	app := newApp(t, FamilyScheme)
	_, err := app.Apply(Transition{Target: StatusRejected, Actor: id.RoleOfficer, Remarks: "   "}, t0)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	assert.Equal(t, StatusSubmitted, app.Status)
}

func TestOnlyStaffTransition(t *testing.T) {
	app := newApp(t, FamilyScheme)
	_, err := app.Apply(Transition{Target: StatusVerified, Actor: id.RoleCitizen}, t0)
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
	_, err = app.Apply(Transition{Target: StatusVerified}, t0)
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
}

func TestCertificateNumber(t *testing.T) {
	t.Run("only on verified or issued", func(t *testing.T) {
		app := newApp(t, FamilyHealthCard)
		_, err := app.Apply(Transition{Target: StatusUnderReview, Actor: id.RoleOfficer, CertificateNumber: "HC-1"}, t0)
		assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	})

	t.Run("immutable once set", func(t *testing.T) {
		app := newApp(t, FamilyHealthCard)
		_, err := app.Apply(Transition{Target: StatusVerified, Actor: id.RoleOfficer, CertificateNumber: "HC-1"}, t0)
		require.NoError(t, err)

		_, err = app.Apply(Transition{Target: StatusIssued, Actor: id.RoleOfficer, CertificateNumber: "HC-2"}, t0.Add(time.Hour))
		assert.True(t, dErrors.Is(err, dErrors.CodeImmutableField))
		assert.Equal(t, StatusVerified, app.Status)

		_, err = app.Apply(Transition{Target: StatusIssued, Actor: id.RoleOfficer, CertificateNumber: "HC-1"}, t0.Add(time.Hour))
		require.NoError(t, err, "restating the same number is not an overwrite")
		assert.Equal(t, "HC-1", app.CertificateNumber)
	})
}

func TestCheckOrder(t *testing.T) {
	t.Run("terminal wins over certificate", func(t *testing.T) {
		app := newApp(t, FamilyBirthCertificate)
		_, err := app.Apply(Transition{Target: StatusIssued, Actor: id.RoleOfficer, CertificateNumber: "BC-1"}, t0)
		require.NoError(t, err)

		_, err = app.Apply(Transition{Target: StatusRejected, Actor: id.RoleOfficer, Remarks: "duplicate", CertificateNumber: "BC-2"}, t0.Add(time.Hour))
		assert.True(t, dErrors.Is(err, dErrors.CodeTerminalState))
		assert.Equal(t, "BC-1", app.CertificateNumber)
	})

	t.Run("repeat of current status ignores certificate", func(t *testing.T) {
		app := newApp(t, FamilyScheme)
		_, err := app.Apply(officer(StatusApproved), t0)
		require.NoError(t, err)

		changed, err := app.Apply(Transition{Target: StatusApproved, Actor: id.RoleOfficer, CertificateNumber: "PMK-9"}, t0.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Empty(t, app.CertificateNumber)
		assert.Len(t, app.Timeline, 2)
	})
}

func TestTimelineNeverGoesBack(t *testing.T) {
	app := newApp(t, FamilyScheme)
	_, err := app.Apply(officer(StatusVerified), t0.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, t0, app.LastEntry().OccurredAt)
}

func TestDaysRemainingAndProgress(t *testing.T) {
	scheme := newApp(t, FamilyScheme)
	assert.Equal(t, 3+5+2, scheme.DaysRemaining())
	assert.Equal(t, 25, scheme.Progress())

	_, err := scheme.Apply(officer(StatusUnderReview), t0)
	require.NoError(t, err)
	assert.Equal(t, 2, scheme.DaysRemaining())
	assert.Equal(t, 75, scheme.Progress())

	_, err = scheme.Apply(Transition{Target: StatusRejected, Actor: id.RoleOfficer, Remarks: "duplicate"}, t0)
	require.NoError(t, err)
	assert.Equal(t, 0, scheme.DaysRemaining())
	assert.Equal(t, 100, scheme.Progress())
}

func TestFamilies(t *testing.T) {
	prefixes := map[Family]string{
		FamilyScheme:                 "APP",
		FamilyBirthCertificate:       "BIRTH",
		FamilyDeathCertificate:       "DEATH",
		FamilyHealthCard:             "HEALTH",
		FamilyVaccinationCertificate: "VAC",
		FamilyHealthService:          "HLTH",
		FamilyComplaint:              "COMP",
	}
	for f, p := range prefixes {
		assert.Equal(t, p, f.Prefix(), f)
	}
	assert.Equal(t, []id.DocumentKind{id.KindAadhaar, id.KindAddressProof}, FamilyBirthCertificate.RequiredKinds())
	assert.Empty(t, FamilyComplaint.RequiredKinds())

	f, err := ParseFamily(" Birth_Certificate ")
	require.NoError(t, err)
	assert.Equal(t, FamilyBirthCertificate, f)
	_, err = ParseFamily("passport")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Document Verification", StatusVerified.Label())
	assert.Equal(t, "Certificate Issued", StatusIssued.Label())
	_, err := ParseStatus("archived")
	assert.Error(t, err)
}
