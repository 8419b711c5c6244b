package domain

import dErrors "onegov/pkg/domain-errors"

// ActorRole identifies who is acting on a record.
type ActorRole string

const (
	RoleCitizen ActorRole = "citizen"
	RoleOfficer ActorRole = "officer"
	RoleAdmin   ActorRole = "admin"
)

var validActorRoles = map[ActorRole]bool{
	RoleCitizen: true,
	RoleOfficer: true,
	RoleAdmin:   true,
}

// ParseActorRole constructs an ActorRole from external input.
func ParseActorRole(s string) (ActorRole, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := ActorRole(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

func (r ActorRole) IsValid() bool { return validActorRoles[r] }

// IsStaff reports whether the role may drive review transitions.
func (r ActorRole) IsStaff() bool { return r == RoleOfficer || r == RoleAdmin }

func (r ActorRole) String() string { return string(r) }
