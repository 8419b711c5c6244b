package audit

import (
	"context"
	"time"

	id "onegov/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention.
type EventCategory string

const (
	// CategoryCompliance covers state changes with legal significance:
	// submissions, lifecycle transitions, officer verification.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// AuditEvent names an auditable action.
type AuditEvent string

const (
	EventProfileSaved            AuditEvent = "profile_saved"
	EventDocumentUploaded        AuditEvent = "document_uploaded"
	EventDocumentDeleted         AuditEvent = "document_deleted"
	EventDocumentVerified        AuditEvent = "document_verified"
	EventApplicationSubmitted    AuditEvent = "application_submitted"
	EventApplicationTransitioned AuditEvent = "application_transitioned"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventApplicationSubmitted:    CategoryCompliance,
	EventApplicationTransitioned: CategoryCompliance,
	EventDocumentVerified:        CategoryCompliance,
	EventDocumentDeleted:         CategoryCompliance,

	EventProfileSaved:     CategoryOperations,
	EventDocumentUploaded: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from domain services. It is transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	CitizenID id.CitizenID
	// Subject is the record the action applies to: an application tracking id
	// or a document id.
	Subject   string
	Action    AuditEvent
	Status    string
	ActorRole id.ActorRole
	Remarks   string
	RequestID string
}

// Store persists audit events. Postgres writes to a transactional outbox;
// memory keeps events for tests and local runs.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// OutboxEntry is an audit event waiting to be relayed to the event stream.
type OutboxEntry struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     []byte
}
