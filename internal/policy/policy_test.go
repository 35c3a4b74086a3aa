package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leadcrm/internal/model"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		resource Resource
		action   Action
		role     model.Role
		want     Decision
	}{
		{Users, Create, model.RoleAdmin, Allow},
		{Users, Create, model.RoleManager, Deny},
		{Users, List, model.RoleManager, Allow},
		{Users, List, model.RoleSales, Deny},
		{Users, SendPassword, model.RoleManager, Deny},
		{Leads, Create, model.RoleSales, Allow},
		{Leads, List, model.RoleSales, OwnCreated},
		{Leads, Read, model.RoleSales, Allow},
		{Leads, Update, model.RoleSales, OwnCreated},
		{Leads, Update, model.RoleManager, Allow},
		{Leads, Delete, model.RoleManager, Deny},
		{Leads, Delete, model.RoleAdmin, Allow},
		{Activities, Create, model.RoleSales, Allow},
		{Assignments, Create, model.RoleSales, Deny},
		{Assignments, List, model.RoleManager, OwnInvolved},
		{Assignments, List, model.RoleSales, OwnAssigned},
		{Assignments, Deactivate, model.RoleManager, OwnCreated},
		{Assignments, Deactivate, model.RoleSales, Deny},
		{Resource("unknown"), Read, model.RoleAdmin, Deny},
		{Leads, Read, model.Role("guest"), Deny},
	}

	for _, tt := range tests {
		t.Run(string(tt.resource)+"/"+string(tt.action)+"/"+string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.resource, tt.action, tt.role))
		})
	}
}

func TestRoles(t *testing.T) {
	assert.Equal(t, []model.Role{model.RoleAdmin, model.RoleManager}, Roles(Assignments, Create))
	assert.Equal(t, []model.Role{model.RoleAdmin, model.RoleManager, model.RoleSales}, Roles(Assignments, List))
	assert.Equal(t, []model.Role{model.RoleAdmin}, Roles(Leads, Delete))
}

func TestCanAssign(t *testing.T) {
	roles := []model.Role{model.RoleAdmin, model.RoleManager, model.RoleSales}
	allowed := map[[2]model.Role]bool{
		{model.RoleAdmin, model.RoleManager}: true,
		{model.RoleManager, model.RoleSales}: true,
	}

	for _, assigner := range roles {
		for _, assignee := range roles {
			ok, msg := CanAssign(assigner, assignee)
			want := allowed[[2]model.Role{assigner, assignee}]
			assert.Equal(t, want, ok, "%s -> %s", assigner, assignee)
			if !want {
				assert.NotEmpty(t, msg)
			}
		}
	}

	_, msg := CanAssign(model.RoleAdmin, model.RoleSales)
	assert.Equal(t, "admin can only assign leads to manager", msg)
	_, msg = CanAssign(model.RoleSales, model.RoleSales)
	assert.Equal(t, "sales cannot assign leads", msg)
}

func TestCanLogin(t *testing.T) {
	assert.True(t, CanLogin(model.RoleSales))
	assert.False(t, CanLogin(model.Role("system")))
}
