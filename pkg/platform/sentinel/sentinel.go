package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: record does not exist
//   - ErrConflict: write raced with another writer (conditional update matched nothing)
//   - ErrAlreadyUsed: unique key already taken (tracking id collision)
//   - ErrInvalidState: record is not in the state the caller expected
//   - ErrUnavailable: backing store temporarily unreachable
//
// Validation failures never use these; see pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
