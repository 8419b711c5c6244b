package testutil

import (
	"net/http"

	id "onegov/pkg/domain"
	"onegov/pkg/requestcontext"
)

// AsCitizen attaches a citizen session, as the auth middleware would.
func AsCitizen(req *http.Request, citizenID id.CitizenID) *http.Request {
	return WithSession(req, requestcontext.Session{CitizenID: citizenID, Role: id.RoleCitizen})
}

// AsOfficer attaches an officer session.
func AsOfficer(req *http.Request) *http.Request {
	return WithSession(req, requestcontext.Session{CitizenID: id.NewCitizenID(), Role: id.RoleOfficer})
}

// WithSession attaches an arbitrary session to the request context.
func WithSession(req *http.Request, s requestcontext.Session) *http.Request {
	return req.WithContext(requestcontext.WithSession(req.Context(), s))
}
