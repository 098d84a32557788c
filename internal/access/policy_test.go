package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name     string
		roles    []Role
		resource Resource
		action   Action
		want     bool
	}{
		{"teacher edits courses", []Role{RoleTeacher}, ResourceCourse, ActionEdit, true},
		{"teacher reads audit log", []Role{RoleTeacher}, ResourceSysLog, ActionView, true},
		{"nobody writes audit log", []Role{RoleAdmin, RoleTeacher}, ResourceSysLog, ActionCreate, false},
		{"teacher cannot register", []Role{RoleTeacher}, ResourceRegistration, ActionCreate, false},
		{"student registers", []Role{RoleStudent}, ResourceRegistration, ActionCreate, true},
		{"student cancels", []Role{RoleStudent}, ResourceRegistration, ActionDelete, true},
		{"student browses catalog", []Role{RoleStudent}, ResourceCatalog, ActionView, true},
		{"student cannot edit courses", []Role{RoleStudent}, ResourceCourse, ActionEdit, false},
		{"student cannot list users", []Role{RoleStudent}, ResourceUser, ActionView, false},
		{"teacher and student union", []Role{RoleStudent, RoleTeacher}, ResourceCourse, ActionDelete, true},
		{"admin deletes users", []Role{RoleAdmin}, ResourceUser, ActionDelete, true},
		{"no roles", nil, ResourceCatalog, ActionView, false},
		{"unknown role", []Role{"janitor"}, ResourceCatalog, ActionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.roles, tt.resource, tt.action))
		})
	}
}

func TestParseRoles(t *testing.T) {
	roles := ParseRoles([]string{"teacher", "janitor", "student", ""})
	assert.Equal(t, []Role{RoleTeacher, RoleStudent}, roles)

	_, ok := ParseRole("Teacher")
	assert.False(t, ok, "role names are case sensitive")
}

func TestAllowedActions(t *testing.T) {
	assert.Equal(t, []Action{ActionCreate, ActionDelete, ActionEdit, ActionView},
		AllowedActions([]Role{RoleTeacher}, ResourceCourse))
	assert.Equal(t, []Action{ActionView}, AllowedActions([]Role{RoleStudent}, ResourceCatalog))
	assert.Empty(t, AllowedActions([]Role{RoleStudent}, ResourceCourse))
}


func TestResources_CoverPolicy(t *testing.T) {
	known := map[Resource]bool{}
	for _, r := range Resources() {
		known[r] = true
	}
	for role, resources := range policy {
		for r := range resources {
			assert.True(t, known[r], "%s grants unlisted resource %s", role, r)
		}
	}
}
