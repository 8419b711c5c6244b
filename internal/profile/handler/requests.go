package handler

import (
	"onegov/internal/profile/models"
	dErrors "onegov/pkg/domain-errors"
)

const maxExtraFields = 32

// ProfileRequest is the HTTP request body for PUT /v1/profile and for the
// draft eligibility preview.
type ProfileRequest struct {
	Name         string         `json:"name"`
	Age          *int           `json:"age"`
	Gender       string         `json:"gender"`
	Category     string         `json:"category"`
	AnnualIncome *int64         `json:"annual_income"`
	Occupation   string         `json:"occupation"`
	State        string         `json:"state"`
	HasBPLCard   *bool          `json:"has_bpl_card"`
	Phone        string         `json:"phone,omitempty"`
	Email        string         `json:"email,omitempty"`
	Address      string         `json:"address,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Validate performs size checks only; field rules live on the model so the
// service applies them regardless of transport.
func (r *ProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Extra) > maxExtraFields {
		return dErrors.New(dErrors.CodeValidation, "too many extra fields")
	}
	return nil
}

func (r *ProfileRequest) ToModel() models.CitizenProfile {
	return models.CitizenProfile{
		Name:         r.Name,
		Age:          r.Age,
		Gender:       r.Gender,
		Category:     models.Category(r.Category),
		AnnualIncome: r.AnnualIncome,
		Occupation:   r.Occupation,
		State:        r.State,
		HasBPLCard:   r.HasBPLCard,
		Phone:        r.Phone,
		Email:        r.Email,
		Address:      r.Address,
		Extra:        r.Extra,
	}
}
