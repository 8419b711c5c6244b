package handler

import (
	"strings"

	appmodels "onegov/internal/application/models"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/validation"
)

const maxDetailKeys = 32

// SchemeRequest is the body of POST /v1/applications and its preview.
type SchemeRequest struct {
	SchemeID string `json:"scheme_id" validate:"required,max=64"`
}

func (r *SchemeRequest) Normalize() {
	r.SchemeID = strings.ToLower(strings.TrimSpace(r.SchemeID))
}

func (r *SchemeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(r, "scheme request")
}

// ServiceRequestBody is the body of POST /v1/service-requests and its preview.
type ServiceRequestBody struct {
	Family      string         `json:"family" validate:"required"`
	ServiceName string         `json:"service_name,omitempty" validate:"max=128"`
	Details     map[string]any `json:"details,omitempty"`

	family appmodels.Family
}

func (r *ServiceRequestBody) Normalize() {
	r.Family = strings.TrimSpace(r.Family)
	r.ServiceName = strings.TrimSpace(r.ServiceName)
}

func (r *ServiceRequestBody) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validation.Struct(r, "service request"); err != nil {
		return err
	}
	if len(r.Details) > maxDetailKeys {
		return dErrors.New(dErrors.CodeValidation, "details may hold at most 32 fields")
	}
	f, err := appmodels.ParseFamily(r.Family)
	if err != nil {
		return err
	}
	r.family = f
	return nil
}

func (r *ServiceRequestBody) ParsedFamily() appmodels.Family {
	return r.family
}
