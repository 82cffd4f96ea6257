// Copyright (c) 2026 Revora. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revora-app/revora/internal/platform/sec"
)

/*
TestUserRole_Valid checks membership in the closed role set.
*/
func TestUserRole_Valid(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.UserRole
		isValid bool
	}{
		{"admin", sec.RoleAdmin, true},
		{"moderator", sec.RoleModerator, true},
		{"user", sec.RoleUser, true},
		{"empty", sec.UserRole(""), false},
		{"unknown", sec.UserRole("superhero"), false},
		{"case_sensitive", sec.UserRole("Admin"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.role.Valid())
		})
	}
}

/*
TestUserRole_AtLeast verifies the role hierarchy ordering.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.UserRole
		target   sec.UserRole
		expected bool
	}{
		{"admin_meets_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"admin_meets_moderator", sec.RoleAdmin, sec.RoleModerator, true},
		{"admin_meets_user", sec.RoleAdmin, sec.RoleUser, true},
		{"moderator_meets_moderator", sec.RoleModerator, sec.RoleModerator, true},
		{"moderator_below_admin", sec.RoleModerator, sec.RoleAdmin, false},
		{"user_below_moderator", sec.RoleUser, sec.RoleModerator, false},
		{"user_meets_user", sec.RoleUser, sec.RoleUser, true},
		{"unknown_below_user", sec.UserRole("ghost"), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.target))
		})
	}
}
