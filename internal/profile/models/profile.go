package models

import (
	"strings"
	"time"
	"unicode"

	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/validation"
)

// Category is the citizen's social category as used by scheme criteria.
type Category string

const (
	CategoryGeneral Category = "General"
	CategoryOBC     Category = "OBC"
	CategorySC      Category = "SC"
	CategoryST      Category = "ST"
)

var categories = map[string]Category{
	"general": CategoryGeneral,
	"obc":     CategoryOBC,
	"sc":      CategorySC,
	"st":      CategoryST,
}

// ParseCategory accepts any casing of the four categories.
func ParseCategory(s string) (Category, error) {
	c, ok := categories[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category must be one of General, OBC, SC, ST")
	}
	return c, nil
}

// CitizenProfile is the canonical record the eligibility engine reads.
//
// Pointer fields distinguish "not declared" from zero: a citizen with no
// declared income must fail an income criterion, not pass it as 0.
//
// Invariants:
//   - Age and AnnualIncome are non-negative when set
//   - Category is empty or one of the four categories
//   - Extra holds fields outside the closed set and is never interpreted by
//     the closed criteria
type CitizenProfile struct {
	CitizenID    id.CitizenID   `json:"citizen_id"`
	Name         string         `json:"name" validate:"required,max=128"`
	Age          *int           `json:"age" validate:"required,gte=0,lte=150"`
	Gender       string         `json:"gender" validate:"required,max=32"`
	Category     Category       `json:"category" validate:"required,oneof=General OBC SC ST"`
	AnnualIncome *int64         `json:"annual_income" validate:"required,gte=0"`
	Occupation   string         `json:"occupation" validate:"required,max=64"`
	State        string         `json:"state" validate:"required,max=64"`
	HasBPLCard   *bool          `json:"has_bpl_card" validate:"required"`
	Phone        string         `json:"phone,omitempty" validate:"omitempty,numeric,len=10"`
	Email        string         `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Address      string         `json:"address,omitempty" validate:"omitempty,max=512"`
	Extra        map[string]any `json:"extra,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Normalize trims text fields and canonicalizes casing so that criteria
// compare against one spelling. Unknown categories are left as-is for
// Validate to reject.
func (p *CitizenProfile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Gender = titleCase(p.Gender)
	p.Occupation = titleCase(p.Occupation)
	p.State = titleCase(p.State)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Address = strings.TrimSpace(p.Address)
	if c, err := ParseCategory(string(p.Category)); err == nil {
		p.Category = c
	} else {
		p.Category = Category(strings.TrimSpace(string(p.Category)))
	}
	if len(p.Extra) == 0 {
		p.Extra = nil
	}
}

// Validate enforces the closed field set for a saved profile.
func (p *CitizenProfile) Validate() error {
	if err := validation.Struct(p, "profile"); err != nil {
		return err
	}
	for k := range p.Extra {
		if strings.TrimSpace(k) == "" {
			return dErrors.New(dErrors.CodeValidation, "extra keys must be non-empty")
		}
	}
	return nil
}

// Snapshot is the denormalized form stored on an application at submission.
func (p *CitizenProfile) Snapshot() map[string]any {
	snap := map[string]any{
		"name":       p.Name,
		"gender":     p.Gender,
		"category":   string(p.Category),
		"occupation": p.Occupation,
		"state":      p.State,
	}
	if p.Age != nil {
		snap["age"] = *p.Age
	}
	if p.AnnualIncome != nil {
		snap["annual_income"] = *p.AnnualIncome
	}
	if p.HasBPLCard != nil {
		snap["has_bpl_card"] = *p.HasBPLCard
	}
	if p.Phone != "" {
		snap["phone"] = p.Phone
	}
	if p.Email != "" {
		snap["email"] = p.Email
	}
	if p.Address != "" {
		snap["address"] = p.Address
	}
	if len(p.Extra) > 0 {
		extra := make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			extra[k] = v
		}
		snap["extra"] = extra
	}
	return snap
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func IntPtr(v int) *int       { return &v }
func Int64Ptr(v int64) *int64 { return &v }
func BoolPtr(v bool) *bool    { return &v }

// ValidateDraft checks only the values that are present. Drafts back the live
// eligibility preview, where undeclared attributes are expected.
func (p *CitizenProfile) ValidateDraft() error {
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return dErrors.New(dErrors.CodeValidation, "age is out of range")
	}
	if p.AnnualIncome != nil && *p.AnnualIncome < 0 {
		return dErrors.New(dErrors.CodeValidation, "annual_income is out of range")
	}
	if p.Category != "" {
		if _, err := ParseCategory(string(p.Category)); err != nil {
			return dErrors.New(dErrors.CodeValidation, "category must be one of General OBC SC ST")
		}
	}
	return nil
}
