// Package matcher maps vault documents onto a scheme's required-document
// tags. Matching is tag-based only and never mutates its inputs.
package matcher

import (
	"strings"

	"onegov/internal/vault/models"
	id "onegov/pkg/domain"
)

// synonyms lists, per required tag, the document kinds that satisfy it in
// addition to a kind whose tag equals the required tag.
var synonyms = map[string][]id.DocumentKind{
	"aadhaar-card":   {id.KindAadhaar},
	"parent-aadhaar": {id.KindAadhaar},
	"pan-card":       {id.KindPAN},
	"income":         {id.KindIncomeCertificate},
	"caste":          {id.KindCasteCertificate},
	"domicile":       {id.KindDomicileCertificate},
	"bank":           {id.KindBankPassbook},
	"bank-statement": {id.KindBankPassbook},
	"family-photo":   {id.KindPhoto},
	"birth":          {id.KindBirthCertificate},
	"age-proof":      {id.KindBirthCertificate, id.KindEducationalCertificate},
	"address":        {id.KindAddressProof},
	"education":      {id.KindEducationalCertificate},
	"bpl":            {id.KindBPLCard},
	"land":           {id.KindLandRecords},
	"death":          {id.KindDeathCertificate},
	"admission":      {id.KindAdmissionProof},
	"business":       {id.KindBusinessPlan},
}

// Normalize canonicalizes a tag: lower case, spaces and underscores as dashes.
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.NewReplacer("_", "-", " ", "-").Replace(tag)
	return strings.Join(strings.FieldsFunc(tag, func(r rune) bool { return r == '-' }), "-")
}

// Known reports whether tag names a document kind directly or through the
// synonym table. Catalog loading rejects tags that are not known.
func Known(tag string) bool {
	req := Normalize(tag)
	if id.DocumentKind(req).IsValid() {
		return true
	}
	_, ok := synonyms[req]
	return ok
}

// Satisfies reports whether a document of kind k satisfies the required tag.
func Satisfies(k id.DocumentKind, required string) bool {
	req := Normalize(required)
	if req == "" {
		return false
	}
	if string(k) == req {
		return true
	}
	for _, s := range synonyms[req] {
		if s == k {
			return true
		}
	}
	return false
}

// Attachment binds one required tag to the document chosen for it.
type Attachment struct {
	Required string              `json:"required"`
	Document models.VaultDocument `json:"document"`
}

// Result lists attachments and unmatched tags, both in required order.
type Result struct {
	Attached []Attachment `json:"attached"`
	Missing  []string     `json:"missing"`
}

// DocumentIDs returns the distinct attached document ids in order.
func (r Result) DocumentIDs() []id.DocumentID {
	seen := make(map[id.DocumentID]bool, len(r.Attached))
	out := make([]id.DocumentID, 0, len(r.Attached))
	for _, a := range r.Attached {
		if seen[a.Document.ID] {
			continue
		}
		seen[a.Document.ID] = true
		out = append(out, a.Document.ID)
	}
	return out
}

// Match picks, for each required tag, the most recently uploaded document
// that satisfies it; on equal upload times the later document in docs wins.
// Duplicate tags are matched once. Match never fails: unmatched tags are
// reported in Missing.
func Match(docs []models.VaultDocument, required []string) Result {
	res := Result{Attached: make([]Attachment, 0, len(required)), Missing: make([]string, 0)}
	seen := make(map[string]bool, len(required))
	for _, raw := range required {
		tag := Normalize(raw)
		if seen[tag] {
			continue
		}
		seen[tag] = true

		best := -1
		for i := range docs {
			if !Satisfies(docs[i].Kind, tag) {
				continue
			}
			if best < 0 || !docs[i].UploadedAt.Before(docs[best].UploadedAt) {
				best = i
			}
		}
		if best < 0 {
			res.Missing = append(res.Missing, tag)
			continue
		}
		res.Attached = append(res.Attached, Attachment{Required: tag, Document: docs[best]})
	}
	return res
}

// MissingRequired returns the portal-wide required kinds the citizen does
// not hold, in vocabulary order.
func MissingRequired(docs []models.VaultDocument) []id.DocumentKind {
	held := make(map[id.DocumentKind]bool, len(docs))
	for _, d := range docs {
		held[d.Kind] = true
	}
	out := make([]id.DocumentKind, 0)
	for _, k := range id.PortalRequiredKinds {
		if !held[k] {
			out = append(out, k)
		}
	}
	return out
}
