package models

import (
	"strings"

	dErrors "onegov/pkg/domain-errors"
)

// Status is the lifecycle state of an application or service request.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusVerified    Status = "verified"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusIssued      Status = "issued"
)

// rank orders statuses; a transition may only move to a higher rank.
var rank = map[Status]int{
	StatusSubmitted:   0,
	StatusVerified:    1,
	StatusUnderReview: 2,
	StatusApproved:    3,
	StatusRejected:    3,
	StatusIssued:      3,
}

var labels = map[Status]string{
	StatusSubmitted:   "Application Submitted",
	StatusVerified:    "Document Verification",
	StatusUnderReview: "Under Review",
	StatusApproved:    "Approved",
	StatusRejected:    "Rejected",
	StatusIssued:      "Certificate Issued",
}

// durationDays is the informational processing estimate per status.
var durationDays = map[Status]int{
	StatusSubmitted:   1,
	StatusVerified:    3,
	StatusUnderReview: 5,
	StatusApproved:    2,
	StatusIssued:      2,
	StatusRejected:    0,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rank[st]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown status: "+s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	_, ok := rank[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusIssued
}

// Label is the stage name shown on the public timeline.
func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) DurationDays() int { return durationDays[s] }

func (s Status) String() string { return string(s) }
