package models

import (
	"strings"
	"time"

	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
)

// Application is a scheme application or service request. It is never
// deleted; its timeline only grows.
type Application struct {
	ID                id.ApplicationID `json:"id"`
	TrackingID        string           `json:"tracking_id"`
	CitizenID         id.CitizenID     `json:"citizen_id"`
	Family            Family           `json:"family"`
	ServiceRef        string           `json:"service_ref"`
	ServiceName       string           `json:"service_name"`
	DocumentIDs       []id.DocumentID  `json:"document_ids"`
	MissingKinds      []string         `json:"missing_kinds"`
	FormSnapshot      map[string]any   `json:"form_snapshot"`
	Status            Status           `json:"status"`
	Remarks           string           `json:"remarks,omitempty"`
	CertificateNumber string           `json:"certificate_number,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Timeline          []TimelineEntry  `json:"timeline"`
}

// TimelineEntry records one status change.
type TimelineEntry struct {
	Status            Status       `json:"status"`
	ActorRole         id.ActorRole `json:"actor_role"`
	Remarks           string       `json:"remarks,omitempty"`
	CertificateNumber string       `json:"certificate_number,omitempty"`
	OccurredAt        time.Time    `json:"occurred_at"`
}

// Label is the public stage name of the entry.
func (e TimelineEntry) Label() string { return e.Status.Label() }

// Submission carries everything needed to open an application.
type Submission struct {
	CitizenID    id.CitizenID
	Family       Family
	ServiceRef   string
	ServiceName  string
	DocumentIDs  []id.DocumentID
	MissingKinds []string
	FormSnapshot map[string]any
}

func (s Submission) Validate() error {
	if s.CitizenID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "citizen id is required")
	}
	if !s.Family.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown service family")
	}
	if strings.TrimSpace(s.ServiceRef) == "" {
		return dErrors.New(dErrors.CodeValidation, "service reference is required")
	}
	if s.FormSnapshot == nil {
		return dErrors.New(dErrors.CodeValidation, "form snapshot is required")
	}
	return nil
}

// NewApplication opens an application in the submitted state with a single
// timeline entry attributed to the citizen.
func NewApplication(sub Submission, trackingID string, now time.Time) (*Application, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if trackingID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "tracking id is required")
	}
	docs := make([]id.DocumentID, len(sub.DocumentIDs))
	copy(docs, sub.DocumentIDs)
	missing := make([]string, len(sub.MissingKinds))
	copy(missing, sub.MissingKinds)
	name := sub.ServiceName
	if name == "" {
		name = sub.Family.DisplayName()
	}
	return &Application{
		ID:           id.NewApplicationID(),
		TrackingID:   trackingID,
		CitizenID:    sub.CitizenID,
		Family:       sub.Family,
		ServiceRef:   sub.ServiceRef,
		ServiceName:  name,
		DocumentIDs:  docs,
		MissingKinds: missing,
		FormSnapshot: sub.FormSnapshot,
		Status:       StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
		Timeline: []TimelineEntry{{
			Status:     StatusSubmitted,
			ActorRole:  id.RoleCitizen,
			OccurredAt: now,
		}},
	}, nil
}

// Clone returns a deep copy safe to hand across store boundaries.
func (a *Application) Clone() *Application {
	c := *a
	c.DocumentIDs = append([]id.DocumentID(nil), a.DocumentIDs...)
	c.MissingKinds = append([]string(nil), a.MissingKinds...)
	c.Timeline = append([]TimelineEntry(nil), a.Timeline...)
	if a.FormSnapshot != nil {
		c.FormSnapshot = make(map[string]any, len(a.FormSnapshot))
		for k, v := range a.FormSnapshot {
			c.FormSnapshot[k] = v
		}
	}
	return &c
}

// LastEntry is the most recent timeline entry.
func (a *Application) LastEntry() TimelineEntry {
	return a.Timeline[len(a.Timeline)-1]
}

// DaysRemaining sums the estimated durations of the statuses still ahead on
// the family's happy path. Terminal applications have none left.
func (a *Application) DaysRemaining() int {
	if a.Status.IsTerminal() {
		return 0
	}
	path := a.Family.HappyPath()
	total := 0
	ahead := false
	for _, st := range path {
		if ahead {
			total += st.DurationDays()
		}
		if st == a.Status {
			ahead = true
		}
	}
	return total
}

// Progress is the percentage of the happy path reached.
func (a *Application) Progress() int {
	if a.Status.IsTerminal() {
		return 100
	}
	path := a.Family.HappyPath()
	for i, st := range path {
		if st == a.Status {
			return (i + 1) * 100 / len(path)
		}
	}
	return 0
}
