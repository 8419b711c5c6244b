package models

import (
	"strings"

	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
)

// Family groups applications that share a tracking prefix and a lifecycle
// variant.
type Family string

const (
	FamilyScheme                 Family = "scheme"
	FamilyBirthCertificate       Family = "birth_certificate"
	FamilyDeathCertificate       Family = "death_certificate"
	FamilyHealthCard             Family = "health_card"
	FamilyVaccinationCertificate Family = "vaccination_certificate"
	FamilyHealthService          Family = "health_service"
	FamilyComplaint              Family = "complaint"
)

type familySpec struct {
	prefix   string
	outcome  Status
	required []id.DocumentKind
	name     string
}

var families = map[Family]familySpec{
	FamilyScheme: {prefix: "APP", outcome: StatusApproved, name: "Scheme Application"},
	FamilyBirthCertificate: {
		prefix: "BIRTH", outcome: StatusIssued, name: "Birth Certificate",
		required: []id.DocumentKind{id.KindAadhaar, id.KindAddressProof},
	},
	FamilyDeathCertificate: {
		prefix: "DEATH", outcome: StatusIssued, name: "Death Certificate",
		required: []id.DocumentKind{id.KindAadhaar, id.KindAddressProof},
	},
	FamilyHealthCard: {
		prefix: "HEALTH", outcome: StatusIssued, name: "Health Card",
		required: []id.DocumentKind{id.KindAadhaar, id.KindPhoto},
	},
	FamilyVaccinationCertificate: {
		prefix: "VAC", outcome: StatusIssued, name: "Vaccination Certificate",
		required: []id.DocumentKind{id.KindAadhaar},
	},
	FamilyHealthService: {
		prefix: "HLTH", outcome: StatusIssued, name: "Health Service",
		required: []id.DocumentKind{id.KindAadhaar},
	},
	FamilyComplaint: {prefix: "COMP", outcome: StatusApproved, name: "Complaint"},
}

func ParseFamily(s string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := families[f]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown service family: "+s)
	}
	return f, nil
}

func (f Family) IsValid() bool {
	_, ok := families[f]
	return ok
}

// Prefix is the upper-case tracking identifier prefix.
func (f Family) Prefix() string { return families[f].prefix }

// Outcome is the successful terminal status: approved for scheme
// applications and complaints, issued for certificate services.
func (f Family) Outcome() Status { return families[f].outcome }

// RequiredKinds are the documents a service request of this family asks for.
// Scheme applications take theirs from the scheme instead.
func (f Family) RequiredKinds() []id.DocumentKind {
	req := families[f].required
	out := make([]id.DocumentKind, len(req))
	copy(out, req)
	return out
}

func (f Family) DisplayName() string { return families[f].name }

// HappyPath is the sequence of statuses an application of this family moves
// through when nothing is rejected.
func (f Family) HappyPath() []Status {
	return []Status{StatusSubmitted, StatusVerified, StatusUnderReview, f.Outcome()}
}

// Allows reports whether target belongs to this family's lifecycle variant.
func (f Family) Allows(target Status) bool {
	switch target {
	case StatusApproved, StatusIssued:
		return target == f.Outcome()
	default:
		return target.IsValid()
	}
}
