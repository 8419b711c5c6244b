package handler

import (
	"strings"

	"onegov/internal/application/models"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/validation"
)

// TransitionRequest is the body of POST /v1/applications/{id}/transitions.
type TransitionRequest struct {
	Status            string `json:"status" validate:"required"`
	Remarks           string `json:"remarks,omitempty" validate:"max=1000"`
	CertificateNumber string `json:"certificate_number,omitempty" validate:"omitempty,max=64,printascii"`

	target models.Status
}

func (r *TransitionRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
	r.Remarks = strings.TrimSpace(r.Remarks)
	r.CertificateNumber = strings.TrimSpace(r.CertificateNumber)
}

func (r *TransitionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validation.Struct(r, "transition"); err != nil {
		return err
	}
	st, err := models.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.target = st
	return nil
}

func (r *TransitionRequest) Target() models.Status {
	return r.target
}
