// Copyright (c) 2026 Revora. All rights reserved.

package sec

// Access predicates, expressed as pure functions over (role, identity)
// rather than over any framework request type. Handlers and services
// compose these; routing-level role gates reuse [UserRole.AtLeast].

// CanManageCatalog reports whether the role may create, update, or delete
// categories, genres, and titles. Reads are always public.
func CanManageCatalog(role UserRole) bool {
	return role.AtLeast(RoleAdmin)
}

// CanManageAccounts reports whether the role may administer user records
// beyond its own profile.
func CanManageAccounts(role UserRole) bool {
	return role.AtLeast(RoleAdmin)
}

// CanModifyAuthored reports whether a requester may update or delete an
// authored resource (review or comment): the original author always can,
// and moderators and admins can regardless of authorship.
func CanModifyAuthored(role UserRole, requesterID, authorID string) bool {
	if requesterID != "" && requesterID == authorID {
		return true
	}
	return role.AtLeast(RoleModerator)
}
