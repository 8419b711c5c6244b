package domain

import (
	"strings"

	dErrors "onegov/pkg/domain-errors"
)

// DocumentKind is the semantic tag of a vault document.
// Invariant: the value is one of the versioned vocabulary below.
//
// Usage: construct via ParseDocumentKind at trust boundaries; direct casting
// bypasses validation.
type DocumentKind string

// DocumentKindVocabularyVersion is bumped whenever a kind is added or removed.
const DocumentKindVocabularyVersion = 1

const (
	KindAadhaar                DocumentKind = "aadhaar"
	KindPAN                    DocumentKind = "pan"
	KindIncomeCertificate      DocumentKind = "income-certificate"
	KindCasteCertificate       DocumentKind = "caste-certificate"
	KindDomicileCertificate    DocumentKind = "domicile-certificate"
	KindBankPassbook           DocumentKind = "bank-passbook"
	KindPhoto                  DocumentKind = "photo"
	KindBirthCertificate       DocumentKind = "birth-certificate"
	KindAddressProof           DocumentKind = "address-proof"
	KindEducationalCertificate DocumentKind = "educational-certificate"
	KindBPLCard                DocumentKind = "bpl-card"
	KindLandRecords            DocumentKind = "land-records"
	KindDeathCertificate       DocumentKind = "death-certificate"
	KindAdmissionProof         DocumentKind = "admission-proof"
	KindBusinessPlan           DocumentKind = "business-plan"
)

var documentKinds = []DocumentKind{
	KindAadhaar,
	KindPAN,
	KindIncomeCertificate,
	KindCasteCertificate,
	KindDomicileCertificate,
	KindBankPassbook,
	KindPhoto,
	KindBirthCertificate,
	KindAddressProof,
	KindEducationalCertificate,
	KindBPLCard,
	KindLandRecords,
	KindDeathCertificate,
	KindAdmissionProof,
	KindBusinessPlan,
}

var validDocumentKinds = func() map[DocumentKind]bool {
	m := make(map[DocumentKind]bool, len(documentKinds))
	for _, k := range documentKinds {
		m[k] = true
	}
	return m
}()

// PortalRequiredKinds is the portal-wide checklist every citizen is nudged to hold.
var PortalRequiredKinds = []DocumentKind{
	KindAadhaar,
	KindPAN,
	KindIncomeCertificate,
	KindBankPassbook,
	KindPhoto,
}

// ParseDocumentKind accepts the canonical tag, case-insensitively.
// Synonyms are resolved by the vault matcher, not here.
//
// Errors: CodeInvalidInput when the value is empty or outside the vocabulary.
func ParseDocumentKind(s string) (DocumentKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "document kind cannot be empty")
	}
	k := DocumentKind(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown document kind: "+s)
	}
	return k, nil
}

// DocumentKinds returns a copy of the vocabulary in declaration order.
func DocumentKinds() []DocumentKind {
	out := make([]DocumentKind, len(documentKinds))
	copy(out, documentKinds)
	return out
}

func (k DocumentKind) IsValid() bool { return validDocumentKinds[k] }

func (k DocumentKind) String() string { return string(k) }
