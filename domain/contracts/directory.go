package contracts

import (
	"context"
	"errors"

	"spscan/domain/sharepoint"
)

// Expected non-error outcomes, distinguished from real faults so callers can
// assert silent-skip behavior.
var (
	// ErrSharingInfoUnavailable means the sharing lookup is not supported for
	// this item. Treated as "no links", never logged as an error.
	ErrSharingInfoUnavailable = errors.New("sharing information unavailable for item")

	// ErrMembersUnavailable means a group's membership could not be read.
	// Best-effort: the group simply contributes no member records.
	ErrMembersUnavailable = errors.New("group members unavailable")
)

// TenantDirectory is the tenant-level face of the directory/content service.
type TenantDirectory interface {
	// ListSites enumerates auditable sites, excluding redirect placeholders.
	ListSites(ctx context.Context) ([]sharepoint.Site, error)

	// Connect opens a session against one site. Exactly one returned
	// SiteDirectory may be live at a time; callers must Close it before
	// connecting to the next site.
	Connect(ctx context.Context, siteURL string) (SiteDirectory, error)
}

// SiteDirectory exposes the per-site read operations the traversal needs.
type SiteDirectory interface {
	ListGroups(ctx context.Context) ([]sharepoint.Group, error)
	ListGroupMembers(ctx context.Context, groupID int64) ([]sharepoint.User, error)
	ListUsers(ctx context.Context) ([]sharepoint.User, error)

	ListLibraries(ctx context.Context) ([]sharepoint.Library, error)
	ListLibraryPermissions(ctx context.Context, libraryID string) ([]sharepoint.Assignment, error)

	// WalkItems pages through a library's items, invoking fn per item.
	WalkItems(ctx context.Context, libraryID string, pageSize int, fn func(sharepoint.Item) error) error
	ListItemPermissions(ctx context.Context, libraryID string, itemID int) ([]sharepoint.Assignment, error)

	GetSharingLinks(ctx context.Context, item sharepoint.Item) ([]sharepoint.SharingLink, error)

	// Close releases the site session. Idempotent.
	Close() error
}
