package handler

import (
	"strings"

	"onegov/internal/vault/models"
	dErrors "onegov/pkg/domain-errors"
)

// UploadRequest is the body of POST /v1/vault/documents.
type UploadRequest struct {
	Kind      string `json:"kind"`
	FileName  string `json:"file_name"`
	SizeBytes int64  `json:"size_bytes"`
}

func (r *UploadRequest) Normalize() {
	r.Kind = strings.TrimSpace(r.Kind)
	r.FileName = strings.TrimSpace(r.FileName)
}

func (r *UploadRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Kind == "" {
		return dErrors.New(dErrors.CodeValidation, "kind is required")
	}
	if r.FileName == "" {
		return dErrors.New(dErrors.CodeValidation, "file_name is required")
	}
	return nil
}

// VerificationRequest is the body of POST /v1/vault/documents/{id}/verification.
type VerificationRequest struct {
	Decision string `json:"decision"`
	Remarks  string `json:"remarks,omitempty"`

	parsedDecision models.VerificationStatus
}

func (r *VerificationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Remarks) > 1000 {
		return dErrors.New(dErrors.CodeValidation, "remarks must be at most 1000 characters")
	}
	d, err := models.ParseVerificationDecision(r.Decision)
	if err != nil {
		return err
	}
	r.parsedDecision = d
	return nil
}

func (r *VerificationRequest) ParsedDecision() models.VerificationStatus {
	return r.parsedDecision
}
