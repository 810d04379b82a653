package access

import (
	"strings"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
)

// Actor is the authenticated principal attached to a request. A nil *Actor
// means the request carried no valid credentials.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Action tags every operation that passes through Authorize. The string form
// is "resource:verb" and doubles as the casbin request tuple.
type Action string

const (
	ActionCreateLeave     Action = "leave:create"
	ActionViewLeave       Action = "leave:view"
	ActionViewOwnLeaves   Action = "leave:view_own"
	ActionViewAllLeaves   Action = "leave:view_all"
	ActionViewTodayLeaves Action = "leave:view_today"
	ActionEditLeave       Action = "leave:edit"
	ActionCancelLeave     Action = "leave:cancel"
	ActionApproveLeave    Action = "leave:approve"
	ActionRejectLeave     Action = "leave:reject"
	ActionViewOwnStats    Action = "stats:view_own"
	ActionViewAdminStats  Action = "stats:view_admin"
	ActionListEmployees   Action = "users:list"
)

func (a Action) split() (resource, verb string) {
	parts := strings.SplitN(string(a), ":", 2)
	if len(parts) != 2 {
		return string(a), ""
	}
	return parts[0], parts[1]
}

// LeaveRef is the minimal resource reference Authorize needs for ownership
// and status rules. Services build it from the loaded record; holding a weak
// reference here keeps this package free of persistence imports.
type LeaveRef struct {
	OwnerID uuid.UUID
	Pending bool
}
