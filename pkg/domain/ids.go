// Package domain holds the primitive value types shared across modules:
// typed identifiers, actor roles and the document kind vocabulary.
package domain

import (
	"github.com/google/uuid"

	dErrors "onegov/pkg/domain-errors"
)

// Typed identifiers. Distinct types stop a document id from being passed
// where an application id is expected.
type (
	CitizenID     uuid.UUID
	ApplicationID uuid.UUID
	DocumentID    uuid.UUID
)

func NewCitizenID() CitizenID         { return CitizenID(uuid.New()) }
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }
func NewDocumentID() DocumentID       { return DocumentID(uuid.New()) }

func (id CitizenID) String() string     { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id DocumentID) String() string    { return uuid.UUID(id).String() }

func (id CitizenID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id CitizenID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ApplicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id DocumentID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id *CitizenID) UnmarshalText(b []byte) error {
	v, err := ParseCitizenID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id *ApplicationID) UnmarshalText(b []byte) error {
	v, err := ParseApplicationID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id *DocumentID) UnmarshalText(b []byte) error {
	v, err := ParseDocumentID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// ParseCitizenID parses a citizen id at a trust boundary.
// Errors: CodeInvalidInput for empty, malformed or nil UUIDs.
func ParseCitizenID(s string) (CitizenID, error) {
	u, err := parseUUID(s, "citizen id")
	return CitizenID(u), err
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application id")
	return ApplicationID(u), err
}

func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document id")
	return DocumentID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be nil")
	}
	return u, nil
}
