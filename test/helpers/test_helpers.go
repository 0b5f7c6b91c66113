// Package helpers provides shared test builders and utilities.
package helpers

import (
	"context"
	"fmt"

	"spscan/domain/sharepoint"
)

// TestData provides simple builders for test data
type TestData struct{}

// NewTestData creates a test data builder
func NewTestData() *TestData {
	return &TestData{}
}

// SimpleSite creates a site with a team template
func (td *TestData) SimpleSite(url, title string) sharepoint.Site {
	return sharepoint.Site{
		URL:      url,
		Title:    title,
		Template: "SITEPAGEPUBLISHING",
	}
}

// RedirectSite creates a redirect placeholder site
func (td *TestData) RedirectSite(url string) sharepoint.Site {
	return sharepoint.Site{
		URL:      url,
		Title:    "Redirect",
		Template: "RedirectSite#0",
	}
}

// SimpleLibrary creates a visible document library
func (td *TestData) SimpleLibrary(id, title string, hasUnique bool, itemCount int) sharepoint.Library {
	return sharepoint.Library{
		ID:           id,
		Title:        title,
		URL:          "/sites/test/" + title,
		BaseTemplate: 101,
		ItemCount:    itemCount,
		HasUnique:    hasUnique,
	}
}

// HiddenLibrary creates a hidden library
func (td *TestData) HiddenLibrary(id, title string) sharepoint.Library {
	lib := td.SimpleLibrary(id, title, false, 1)
	lib.Hidden = true
	return lib
}

// FileItem creates a file item with a server-relative path
func (td *TestData) FileItem(id int, name string, hasUnique bool) sharepoint.Item {
	return sharepoint.Item{
		ID:        id,
		GUID:      fmt.Sprintf("guid-%d", id),
		Name:      name,
		Path:      "/sites/test/Shared Documents/" + name,
		IsFile:    true,
		HasUnique: hasUnique,
	}
}

// FolderItem creates a folder item
func (td *TestData) FolderItem(id int, name string, hasUnique bool) sharepoint.Item {
	return sharepoint.Item{
		ID:        id,
		GUID:      fmt.Sprintf("guid-%d", id),
		Name:      name,
		Path:      "/sites/test/Shared Documents/" + name,
		IsFolder:  true,
		HasUnique: hasUnique,
	}
}

// InternalUser creates a member user with a tenant email
func (td *TestData) InternalUser(id int64, name, email string) sharepoint.User {
	return sharepoint.User{
		ID:    id,
		Type:  sharepoint.PrincipalTypeUser,
		Title: name,
		Login: "i:0#.f|membership|" + email,
		Email: email,
	}
}

// GuestUser creates a guest user carrying the external account marker
func (td *TestData) GuestUser(id int64, name, email string) sharepoint.User {
	return sharepoint.User{
		ID:    id,
		Type:  sharepoint.PrincipalTypeUser,
		Title: name,
		Login: "i:0#.f|membership|guest_example.com#ext#@tenant.onmicrosoft.com",
		Email: email,
	}
}

// UserAssignment creates a permission assignment for a user principal
func (td *TestData) UserAssignment(id int64, name, email string, roles ...string) sharepoint.Assignment {
	return sharepoint.Assignment{
		Member: sharepoint.Principal{
			ID:    id,
			Type:  sharepoint.PrincipalTypeUser,
			Title: name,
			Login: "i:0#.f|membership|" + email,
			Email: email,
		},
		Roles: roles,
	}
}

// SecurityGroupAssignment creates an assignment for a security group
func (td *TestData) SecurityGroupAssignment(id int64, name string, roles ...string) sharepoint.Assignment {
	return sharepoint.Assignment{
		Member: sharepoint.Principal{
			ID:    id,
			Type:  sharepoint.PrincipalTypeSecurity,
			Title: name,
			Login: "c:0t.c|tenant|" + name,
		},
		Roles: roles,
	}
}

// AnonymousLink creates an active anonymous view sharing link
func (td *TestData) AnonymousLink(shareID string) sharepoint.SharingLink {
	return sharepoint.SharingLink{
		ShareID:  shareID,
		Kind:     "AnonymousView",
		Scope:    "Anonymous",
		URL:      "https://tenant.sharepoint.com/:w:/s/test/" + shareID,
		IsActive: true,
	}
}

// TestContext returns a context for tests
func TestContext() context.Context {
	return context.Background()
}
