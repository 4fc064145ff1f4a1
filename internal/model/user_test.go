package model

import "testing"

func TestUser_HasRole(t *testing.T) {
	u := &User{ID: "u1", Roles: []string{RoleUser}}

	if !u.HasRole(RoleUser) {
		t.Error("expected HasRole(user) to return true")
	}
	if u.HasRole(RoleAdmin) {
		t.Error("expected HasRole(admin) to return false")
	}
}

func TestUser_HasAnyRole(t *testing.T) {
	u := &User{ID: "u1", Roles: []string{RoleGuest}}

	if !u.HasAnyRole(RoleUser, RoleGuest) {
		t.Error("expected HasAnyRole(user, guest) to return true")
	}
	if u.HasAnyRole(RoleUser, RoleAdmin) {
		t.Error("expected HasAnyRole(user, admin) to return false")
	}
	if u.HasAnyRole() {
		t.Error("expected HasAnyRole() with no roles to return false")
	}
}

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{ID: "a1", Roles: []string{RoleAdmin, RoleUser}}
	regular := &User{ID: "u1", Roles: []string{RoleUser}}

	if !admin.IsAdmin() {
		t.Error("expected admin user to be admin")
	}
	if regular.IsAdmin() {
		t.Error("expected regular user to not be admin")
	}
}

func TestUser_NoRoles(t *testing.T) {
	u := &User{ID: "u1"}

	if u.HasRole(RoleUser) {
		t.Error("expected HasRole to return false for user with no roles")
	}
	if u.IsAdmin() {
		t.Error("expected IsAdmin to return false for user with no roles")
	}
}
