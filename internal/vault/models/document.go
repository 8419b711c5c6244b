package models

import (
	"strings"
	"time"

	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
)

// VerificationStatus is set by an officer; citizens never change it.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// ParseVerificationDecision accepts only the two officer outcomes.
func ParseVerificationDecision(s string) (VerificationStatus, error) {
	switch VerificationStatus(strings.ToLower(strings.TrimSpace(s))) {
	case VerificationVerified:
		return VerificationVerified, nil
	case VerificationRejected:
		return VerificationRejected, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "decision must be verified or rejected")
	}
}

// VaultDocument is the metadata of an uploaded file. File bytes live
// outside this core.
type VaultDocument struct {
	ID         id.DocumentID      `json:"id"`
	CitizenID  id.CitizenID       `json:"citizen_id"`
	Kind       id.DocumentKind    `json:"kind"`
	FileName   string             `json:"file_name"`
	SizeBytes  int64              `json:"size_bytes"`
	UploadedAt time.Time          `json:"uploaded_at"`
	Status     VerificationStatus `json:"verification_status"`
	VerifiedBy id.ActorRole       `json:"verified_by,omitempty"`
	VerifiedAt *time.Time         `json:"verified_at,omitempty"`
	Remarks    string             `json:"remarks,omitempty"`
}

// NewVaultDocument creates a pending document owned by citizenID.
func NewVaultDocument(citizenID id.CitizenID, kind id.DocumentKind, fileName string, size int64, now time.Time) (*VaultDocument, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "file_name is required")
	}
	if len(fileName) > 255 {
		return nil, dErrors.New(dErrors.CodeValidation, "file_name must be at most 255 characters")
	}
	if size < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "size_bytes must be non-negative")
	}
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown document kind: "+kind.String())
	}
	return &VaultDocument{
		ID:         id.NewDocumentID(),
		CitizenID:  citizenID,
		Kind:       kind,
		FileName:   fileName,
		SizeBytes:  size,
		UploadedAt: now,
		Status:     VerificationPending,
	}, nil
}

// CanVerify reports whether the document still awaits an officer decision.
func (d *VaultDocument) CanVerify() error {
	if d.Status != VerificationPending {
		return dErrors.New(dErrors.CodeConflict, "document already "+string(d.Status))
	}
	return nil
}

// ApplyVerification records the officer decision. Rejection needs a remark.
func (d *VaultDocument) ApplyVerification(decision VerificationStatus, role id.ActorRole, remarks string, now time.Time) error {
	if err := d.CanVerify(); err != nil {
		return err
	}
	remarks = strings.TrimSpace(remarks)
	if decision == VerificationRejected && remarks == "" {
		return dErrors.New(dErrors.CodeValidation, "remarks are required when rejecting a document")
	}
	d.Status = decision
	d.VerifiedBy = role
	d.VerifiedAt = &now
	d.Remarks = remarks
	return nil
}
