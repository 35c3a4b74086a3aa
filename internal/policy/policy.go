// Package policy holds the access rules of the CRM as data: which role may
// perform which action on which resource, and under which ownership condition.
package policy

import (
	"fmt"

	"leadcrm/internal/model"
)

// Resource is a guarded API resource.
type Resource string

const (
	Users       Resource = "users"
	Leads       Resource = "leads"
	Activities  Resource = "activities"
	Assignments Resource = "assignments"
)

// Action is an operation on a resource.
type Action string

const (
	Create       Action = "create"
	Read         Action = "read"
	List         Action = "list"
	Update       Action = "update"
	Delete       Action = "delete"
	SendPassword Action = "send_password"
	Deactivate   Action = "deactivate"
)

// Decision is the outcome of a policy lookup.
type Decision int

const (
	// Deny rejects the request outright.
	Deny Decision = iota
	// Allow admits the request for any record.
	Allow
	// OwnCreated admits the request only for records the caller created
	// (Lead.CreatedBy, LeadAssignment.AssignedBy).
	OwnCreated
	// OwnAssigned admits the request only for records assigned to the caller.
	OwnAssigned
	// OwnInvolved admits the request for records the caller created or was assigned.
	OwnInvolved
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case OwnCreated:
		return "own-created"
	case OwnAssigned:
		return "own-assigned"
	case OwnInvolved:
		return "own-involved"
	default:
		return "deny"
	}
}

type rules map[Action]map[model.Role]Decision

var table = map[Resource]rules{
	Users: {
		Create:       {model.RoleAdmin: Allow},
		List:         {model.RoleAdmin: Allow, model.RoleManager: Allow},
		Read:         {model.RoleAdmin: Allow, model.RoleManager: Allow},
		Update:       {model.RoleAdmin: Allow},
		Delete:       {model.RoleAdmin: Allow},
		SendPassword: {model.RoleAdmin: Allow},
	},
	Leads: {
		Create: {model.RoleAdmin: Allow, model.RoleManager: Allow, model.RoleSales: Allow},
		List:   {model.RoleAdmin: Allow, model.RoleManager: Allow, model.RoleSales: OwnCreated},
		Read:   {model.RoleAdmin: Allow, model.RoleManager: Allow, model.RoleSales: Allow},
		Update: {model.RoleAdmin: Allow, model.RoleManager: Allow, model.RoleSales: OwnCreated},
		Delete: {model.RoleAdmin: Allow},
	},
	Activities: {
		Create: {model.RoleAdmin: Allow, model.RoleManager: Allow, model.RoleSales: Allow},
		List:   {model.RoleAdmin: Allow, model.RoleManager: Allow, model.RoleSales: Allow},
	},
	Assignments: {
		Create:     {model.RoleAdmin: Allow, model.RoleManager: Allow},
		List:       {model.RoleAdmin: Allow, model.RoleManager: OwnInvolved, model.RoleSales: OwnAssigned},
		Deactivate: {model.RoleAdmin: Allow, model.RoleManager: OwnCreated},
	},
}

// Decide returns the decision for role performing action on resource.
// Unknown combinations are denied.
func Decide(resource Resource, action Action, role model.Role) Decision {
	return table[resource][action][role]
}

// Allowed reports whether role may reach action on resource at all,
// possibly subject to an ownership condition checked by the service.
func Allowed(resource Resource, action Action, role model.Role) bool {
	return Decide(resource, action, role) != Deny
}

// Roles lists the roles admitted (with or without ownership condition) to action on resource.
func Roles(resource Resource, action Action) []model.Role {
	var out []model.Role
	for _, role := range []model.Role{model.RoleAdmin, model.RoleManager, model.RoleSales} {
		if Allowed(resource, action, role) {
			out = append(out, role)
		}
	}
	return out
}

// assignmentTargets lists the only role each assigner may hand a lead to.
var assignmentTargets = map[model.Role]model.Role{
	model.RoleAdmin:   model.RoleManager,
	model.RoleManager: model.RoleSales,
}

// CanAssign checks the assigner/assignee role pairing. The returned message names
// the violated pairing and is meant for the caller.
func CanAssign(assigner, assignee model.Role) (bool, string) {
	target, ok := assignmentTargets[assigner]
	if !ok {
		return false, fmt.Sprintf("%s cannot assign leads", assigner)
	}
	if assignee != target {
		return false, fmt.Sprintf("%s can only assign leads to %s", assigner, target)
	}
	return true, ""
}

// LoginRoles are the roles allowed to sign in with a password.
var LoginRoles = []model.Role{model.RoleAdmin, model.RoleManager, model.RoleSales}

// CanLogin reports whether role is in LoginRoles.
func CanLogin(role model.Role) bool {
	for _, r := range LoginRoles {
		if r == role {
			return true
		}
	}
	return false
}
