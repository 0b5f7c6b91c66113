package audit

import (
	"spscan/domain/sharepoint"
)

// ItemType identifies the scope a record's permission applies to.
type ItemType string

const (
	ItemTypeSite        ItemType = "Site"
	ItemTypeLibrary     ItemType = "Library"
	ItemTypeFile        ItemType = "File"
	ItemTypeFolder      ItemType = "Folder"
	ItemTypeSharingLink ItemType = "SharingLink"
)

// PrincipalType identifies who holds the permission.
type PrincipalType string

const (
	PrincipalUser        PrincipalType = "User"
	PrincipalGroup       PrincipalType = "Group"
	PrincipalSharingLink PrincipalType = "SharingLink"
)

// SitePath is the item path emitted for site-level records.
const SitePath = "/"

// DirectAccessPermission marks direct user grants at site level.
const DirectAccessPermission = "Direct Access"

// Record is the sole audit output entity: one normalized permission finding.
// Records are values, never mutated after construction; IsExternal and
// HasExternalLinks are derived by the constructors and have no other source.
type Record struct {
	SiteURL          string
	ItemType         ItemType
	ItemPath         string
	PrincipalType    PrincipalType
	PrincipalName    string
	UserName         string
	UserEmail        string
	Permission       string
	IsExternal       bool
	HasExternalLinks bool
	LinkType         string
	Inherited        bool
}

// NewGroupMemberRecord builds a site-level record for one member of a role
// group. Membership implies the group's role, so Permission is the group name.
func NewGroupMemberRecord(siteURL, groupName string, member sharepoint.User) Record {
	return Record{
		SiteURL:       siteURL,
		ItemType:      ItemTypeSite,
		ItemPath:      SitePath,
		PrincipalType: PrincipalGroup,
		PrincipalName: groupName,
		UserName:      member.Title,
		UserEmail:     member.Email,
		Permission:    groupName,
		IsExternal:    IsExternalIdentity(member.Email, member.Type),
	}
}

// NewDirectUserRecord builds a site-level record for a user granted access
// directly rather than through a group.
func NewDirectUserRecord(siteURL string, user sharepoint.User) Record {
	return Record{
		SiteURL:       siteURL,
		ItemType:      ItemTypeSite,
		ItemPath:      SitePath,
		PrincipalType: PrincipalUser,
		PrincipalName: user.Title,
		UserName:      user.Title,
		UserEmail:     user.Email,
		Permission:    DirectAccessPermission,
		IsExternal:    IsExternalIdentity(user.Email, user.Type),
	}
}

// NewAssignmentRecord normalizes a library- or item-level role assignment.
func NewAssignmentRecord(siteURL string, itemType ItemType, itemPath string, a sharepoint.Assignment, inherited bool) Record {
	ptype := principalTypeOf(a.Member)
	return Record{
		SiteURL:          siteURL,
		ItemType:         itemType,
		ItemPath:         itemPath,
		PrincipalType:    ptype,
		PrincipalName:    a.Member.GetDisplayName(),
		UserName:         a.Member.GetDisplayName(),
		UserEmail:        a.Member.Email,
		Permission:       a.RoleNames(),
		IsExternal:       IsExternalIdentity(a.Member.Email, a.Member.Type),
		HasExternalLinks: ptype == PrincipalSharingLink,
		Inherited:        inherited,
	}
}

// NewSharingLinkRecord builds a record for one ad-hoc sharing link on a file.
// Link-based access bypasses principal assignment entirely, so link records
// always count as external findings.
func NewSharingLinkRecord(siteURL, itemPath string, link sharepoint.SharingLink) Record {
	return Record{
		SiteURL:          siteURL,
		ItemType:         ItemTypeSharingLink,
		ItemPath:         itemPath,
		PrincipalType:    PrincipalSharingLink,
		PrincipalName:    link.Kind,
		UserName:         link.Kind,
		Permission:       link.Kind,
		IsExternal:       true,
		HasExternalLinks: true,
		LinkType:         link.Kind,
	}
}

func principalTypeOf(p sharepoint.Principal) PrincipalType {
	switch {
	case p.IsSharingLink():
		return PrincipalSharingLink
	case p.IsUser():
		return PrincipalUser
	default:
		return PrincipalGroup
	}
}
