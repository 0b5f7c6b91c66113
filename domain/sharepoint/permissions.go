package sharepoint

import "strings"

// Common SharePoint principal types
const (
	PrincipalTypeUser            = 1
	PrincipalTypeDistribution    = 2
	PrincipalTypeSecurity        = 4
	PrincipalTypeSharePointGroup = 8
)

// Principal is the tagged member of a permission assignment: a user, a
// security/SharePoint group, or a sharing-link pseudo-principal.
type Principal struct {
	ID    int64
	Type  int64
	Title string
	Login string
	Email string
}

// IsUser returns true if this is a user principal
func (p Principal) IsUser() bool {
	return p.Type == PrincipalTypeUser && !p.IsSharingLink()
}

// IsSecurityGroupType reports whether a raw principal type value denotes a
// directory security or distribution group.
func IsSecurityGroupType(t int64) bool {
	return t == PrincipalTypeSecurity || t == PrincipalTypeDistribution
}

// IsSecurityGroup returns true if this is a directory security group
func (p Principal) IsSecurityGroup() bool {
	return IsSecurityGroupType(p.Type)
}

// IsSharingLink returns true if the principal is the pseudo-group SharePoint
// creates to back a sharing link.
func (p Principal) IsSharingLink() bool {
	return strings.HasPrefix(p.Login, "SharingLinks.")
}

// GetDisplayName returns the best display name for the principal
func (p Principal) GetDisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	if p.Login != "" {
		return p.Login
	}
	return p.Email
}

// Assignment represents one explicit role assignment on a site, library, or
// item: a principal bound to one or more role names.
type Assignment struct {
	Member Principal
	Roles  []string
}

// RoleNames returns the assignment's role names joined for display.
func (a Assignment) RoleNames() string {
	return strings.Join(a.Roles, ", ")
}

// Group represents a SharePoint site group (role-group model: membership in
// the group conveys the group's role).
type Group struct {
	ID    int64
	Title string
	Login string
}

// User represents a site user or group member
type User struct {
	ID    int64
	Type  int64
	Title string
	Login string
	Email string
}
