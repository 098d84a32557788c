// Package access maps roles to the actions they may perform.
// A caller's permissions are the union over all roles they hold.
package access

import "sort"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

type Resource string

const (
	ResourceCourse       Resource = "course"
	ResourceCategory     Resource = "category"
	ResourceUser         Resource = "user"
	ResourceTimeTable    Resource = "timetable"
	ResourceEnrollment   Resource = "enrollment"
	ResourceSysLog       Resource = "syslog"
	ResourceCatalog      Resource = "catalog"      // student-facing course lists and summary page
	ResourceRegistration Resource = "registration" // opening/cancelling one's own enrollment
)

// Resources every resource the policy knows, in display order
func Resources() []Resource {
	return []Resource{
		ResourceCourse,
		ResourceCategory,
		ResourceUser,
		ResourceTimeTable,
		ResourceEnrollment,
		ResourceSysLog,
		ResourceCatalog,
		ResourceRegistration,
	}
}

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

var crud = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}

// policy role -> resource -> allowed actions
var policy = map[Role]map[Resource][]Action{
	RoleAdmin: {
		ResourceCourse:       crud,
		ResourceCategory:     crud,
		ResourceUser:         crud,
		ResourceTimeTable:    crud,
		ResourceEnrollment:   crud,
		ResourceSysLog:       {ActionView},
		ResourceCatalog:      {ActionView},
		ResourceRegistration: {ActionCreate, ActionDelete},
	},
	RoleTeacher: {
		ResourceCourse:     crud,
		ResourceCategory:   crud,
		ResourceUser:       crud,
		ResourceTimeTable:  crud,
		ResourceEnrollment: crud,
		ResourceSysLog:     {ActionView},
		ResourceCatalog:    {ActionView},
	},
	RoleStudent: {
		ResourceCatalog:      {ActionView},
		ResourceRegistration: {ActionCreate, ActionDelete},
	},
}

// ParseRole returns the enumerated role for a stored role name
func ParseRole(name string) (Role, bool) {
	switch Role(name) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return Role(name), true
	}
	return "", false
}

// ParseRoles drops names that are not known roles
func ParseRoles(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		if role, ok := ParseRole(name); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// Can reports whether any of the roles permits action on resource
func Can(roles []Role, resource Resource, action Action) bool {
	for _, role := range roles {
		for _, allowed := range policy[role][resource] {
			if allowed == action {
				return true
			}
		}
	}
	return false
}

// AllowedActions union of actions the roles grant on resource, sorted
func AllowedActions(roles []Role, resource Resource) []Action {
	set := make(map[Action]struct{})
	for _, role := range roles {
		for _, action := range policy[role][resource] {
			set[action] = struct{}{}
		}
	}

	actions := make([]Action, 0, len(set))
	for action := range set {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
