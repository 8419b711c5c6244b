package models

import (
	"fmt"
	"strings"
	"time"

	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
)

// Transition is a staff request to move an application to Target.
type Transition struct {
	Target            Status
	Actor             id.ActorRole
	Remarks           string
	CertificateNumber string
}

// Check decides whether t may be applied. A nil error with noop set means the
// application is already in the target status and nothing changes.
func (a *Application) Check(t Transition) (noop bool, err error) {
	if !t.Actor.IsStaff() {
		return false, dErrors.New(dErrors.CodeForbidden, "only officers and admins may change application status")
	}
	if !t.Target.IsValid() {
		return false, dErrors.New(dErrors.CodeValidation, "unknown target status")
	}
	if t.Target == a.Status {
		return true, nil
	}
	if a.Status.IsTerminal() {
		return false, dErrors.New(dErrors.CodeTerminalState,
			fmt.Sprintf("application is %s and can no longer change", a.Status))
	}
	if err := a.checkCertificate(t); err != nil {
		return false, err
	}
	if !a.Family.Allows(t.Target) {
		return false, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%s is not a valid outcome for %s", t.Target, a.Family))
	}
	if rank[t.Target] <= rank[a.Status] {
		return false, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("cannot move from %s back to %s", a.Status, t.Target))
	}
	if t.Target == StatusRejected && strings.TrimSpace(t.Remarks) == "" {
		return false, dErrors.New(dErrors.CodeValidation, "a remark is required when rejecting")
	}
	return false, nil
}

func (a *Application) checkCertificate(t Transition) error {
	cert := strings.TrimSpace(t.CertificateNumber)
	if cert == "" {
		return nil
	}
	if a.CertificateNumber != "" && a.CertificateNumber != cert {
		return dErrors.New(dErrors.CodeImmutableField, "certificate number is already set")
	}
	if t.Target != StatusVerified && t.Target != StatusIssued {
		return dErrors.New(dErrors.CodeValidation, "certificate number may only accompany verified or issued")
	}
	return nil
}

// Apply checks t and, unless it is a no-op, appends a timeline entry and
// moves the application. The entry time never precedes the previous entry.
func (a *Application) Apply(t Transition, now time.Time) (changed bool, err error) {
	noop, err := a.Check(t)
	if err != nil || noop {
		return false, err
	}
	if last := a.LastEntry().OccurredAt; now.Before(last) {
		now = last
	}
	remarks := strings.TrimSpace(t.Remarks)
	cert := strings.TrimSpace(t.CertificateNumber)
	a.Timeline = append(a.Timeline, TimelineEntry{
		Status:            t.Target,
		ActorRole:         t.Actor,
		Remarks:           remarks,
		CertificateNumber: cert,
		OccurredAt:        now,
	})
	a.Status = t.Target
	if remarks != "" {
		a.Remarks = remarks
	}
	if cert != "" {
		a.CertificateNumber = cert
	}
	a.UpdatedAt = now
	return true, nil
}
