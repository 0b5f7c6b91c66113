// Package spclient implements the directory contracts on top of the
// SharePoint REST API via gosip.
package spclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/api"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/domain/sharepoint"
	"spscan/logging"
)

// Role assignment target object types.
const (
	objectTypeList = "list"
	objectTypeItem = "item"
)

// siteClient is a per-site SharePoint session. It is created by
// TenantClient.Connect and released with Close.
var _ contracts.SiteDirectory = (*siteClient)(nil)

type siteClient struct {
	sp         *api.SP
	authClient *gosip.SPClient
	siteURL    string
	parameters *audit.Parameters
	logger     *logging.Logger
	closed     bool
}

func newSiteClient(authClient *gosip.SPClient, siteURL string, parameters *audit.Parameters) *siteClient {
	return &siteClient{
		sp:         api.NewSP(authClient),
		authClient: authClient,
		siteURL:    siteURL,
		parameters: parameters,
		logger:     logging.Default().WithComponent("spclient"),
	}
}

func (c *siteClient) conf(ctx context.Context) *api.SP {
	return c.sp.Conf(&api.RequestConfig{Context: ctx})
}

// ping verifies the session can read the web before any collection starts,
// so connection failures surface at the Connect boundary.
func (c *siteClient) ping(ctx context.Context) error {
	return retryRemote(ctx, c.parameters, func() error {
		_, err := c.conf(ctx).Web().Select("Id,Title").Get()
		return err
	})
}

// ListGroups returns the site's SharePoint groups.
func (c *siteClient) ListGroups(ctx context.Context) ([]sharepoint.Group, error) {
	var res api.GroupsResp
	err := retryRemote(ctx, c.parameters, func() error {
		var err error
		res, err = c.conf(ctx).Web().SiteGroups().Select(GroupFields).Get()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get site groups: %w", err)
	}

	var payload []groupPayload
	if err := json.Unmarshal(res.Normalized(), &payload); err != nil {
		return nil, fmt.Errorf("decode site groups: %w", err)
	}

	groups := make([]sharepoint.Group, 0, len(payload))
	for _, g := range payload {
		groups = append(groups, sharepoint.Group{
			ID:    g.Id,
			Title: g.Title,
			Login: g.LoginName,
		})
	}
	return groups, nil
}

// ListGroupMembers returns the members of a SharePoint group. Some groups
// (notably system and sharing-link backed ones) refuse membership reads;
// those failures are reported as contracts.ErrMembersUnavailable so callers
// can skip the group without treating it as a fault.
func (c *siteClient) ListGroupMembers(ctx context.Context, groupID int64) ([]sharepoint.User, error) {
	var res api.UsersResp
	err := retryRemote(ctx, c.parameters, func() error {
		var err error
		res, err = c.conf(ctx).Web().SiteGroups().GetByID(int(groupID)).Users().Select(UserFields).Get()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: group %d: %v", contracts.ErrMembersUnavailable, groupID, err)
	}

	var payload []userPayload
	if err := json.Unmarshal(res.Normalized(), &payload); err != nil {
		return nil, fmt.Errorf("decode group %d members: %w", groupID, err)
	}
	return mapUsers(payload), nil
}

// ListUsers returns the site's user information list entries.
func (c *siteClient) ListUsers(ctx context.Context) ([]sharepoint.User, error) {
	var res api.UsersResp
	err := retryRemote(ctx, c.parameters, func() error {
		var err error
		res, err = c.conf(ctx).Web().SiteUsers().Select(UserFields).Get()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get site users: %w", err)
	}

	var payload []userPayload
	if err := json.Unmarshal(res.Normalized(), &payload); err != nil {
		return nil, fmt.Errorf("decode site users: %w", err)
	}
	return mapUsers(payload), nil
}

func mapUsers(payload []userPayload) []sharepoint.User {
	users := make([]sharepoint.User, 0, len(payload))
	for _, u := range payload {
		users = append(users, sharepoint.User{
			ID:    u.Id,
			Type:  u.PrincipalType,
			Title: strings.TrimSpace(u.Title),
			Login: u.LoginName,
			Email: u.Email,
		})
	}
	return users
}

// ListLibraries returns the site's lists with permission inheritance state
// resolved per list. An inheritance probe failure downgrades to HasUnique
// false with a warning rather than failing the whole site.
func (c *siteClient) ListLibraries(ctx context.Context) ([]sharepoint.Library, error) {
	var res api.ListsResp
	err := retryRemote(ctx, c.parameters, func() error {
		var err error
		res, err = c.conf(ctx).Web().Lists().Select(ListFields).Expand("RootFolder").Get()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get lists: %w", err)
	}

	var payload []listPayload
	if err := json.Unmarshal(res.Normalized(), &payload); err != nil {
		return nil, fmt.Errorf("decode lists: %w", err)
	}

	libraries := make([]sharepoint.Library, 0, len(payload))
	for _, l := range payload {
		lib := sharepoint.Library{
			ID:           l.Id,
			Title:        l.Title,
			URL:          l.RootFolder.ServerRelativeUrl,
			BaseTemplate: l.BaseTemplate,
			ItemCount:    l.ItemCount,
			Hidden:       l.Hidden,
		}
		hasUnique, err := c.listHasUniqueAssignments(ctx, l.Id)
		if err != nil {
			c.logger.Warn("Failed to check list permission inheritance",
				"site_url", c.siteURL, "list_id", l.Id, "list_title", l.Title, "error", err)
		} else {
			lib.HasUnique = hasUnique
		}
		libraries = append(libraries, lib)
	}
	return libraries, nil
}

func (c *siteClient) listHasUniqueAssignments(ctx context.Context, listID string) (bool, error) {
	var hasUnique bool
	err := retryRemote(ctx, c.parameters, func() error {
		var err error
		hasUnique, err = c.conf(ctx).Web().Lists().GetByID(listID).Roles().HasUniqueAssignments()
		return err
	})
	return hasUnique, err
}

// ListLibraryPermissions returns the role assignments declared directly on a
// list.
func (c *siteClient) ListLibraryPermissions(ctx context.Context, libraryID string) ([]sharepoint.Assignment, error) {
	return c.listRoleAssignments(ctx, objectTypeList, libraryID, 0)
}

// ListItemPermissions returns the role assignments declared directly on an
// item with broken inheritance.
func (c *siteClient) ListItemPermissions(ctx context.Context, libraryID string, itemID int) ([]sharepoint.Assignment, error) {
	return c.listRoleAssignments(ctx, objectTypeItem, libraryID, itemID)
}

func (c *siteClient) listRoleAssignments(ctx context.Context, objectType string, libraryID string, itemID int) ([]sharepoint.Assignment, error) {
	var data []byte
	err := retryRemote(ctx, c.parameters, func() error {
		list := c.conf(ctx).Web().Lists().GetByID(libraryID)
		switch objectType {
		case objectTypeList:
			res, err := list.Select(RoleAssignmentFields).Expand("RoleAssignments,RoleAssignments/Member,RoleAssignments/RoleDefinitionBindings").Get()
			if err != nil {
				return err
			}
			data = res.Normalized()
		case objectTypeItem:
			res, err := list.Items().GetByID(itemID).Select(RoleAssignmentFields).Expand("RoleAssignments,RoleAssignments/Member,RoleAssignments/RoleDefinitionBindings").Get()
			if err != nil {
				return err
			}
			data = res.Normalized()
		default:
			return fmt.Errorf("unsupported role assignment target: %s", objectType)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get %s role assignments: %w", objectType, err)
	}

	payload, err := decodeRoleAssignments(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s role assignments: %w", objectType, err)
	}
	return mapAssignments(payload), nil
}

func mapAssignments(payload []*roleAssignmentPayload) []sharepoint.Assignment {
	assignments := make([]sharepoint.Assignment, 0, len(payload))
	for _, ra := range payload {
		if ra == nil || ra.Member == nil {
			continue
		}
		roles := make([]string, 0, len(ra.RoleDefinitionBindings))
		for _, rd := range ra.RoleDefinitionBindings {
			if rd != nil && rd.Name != "" {
				roles = append(roles, rd.Name)
			}
		}
		assignments = append(assignments, sharepoint.Assignment{
			Member: sharepoint.Principal{
				ID:    ra.Member.Id,
				Type:  ra.Member.PrincipalType,
				Title: strings.TrimSpace(ra.Member.Title),
				Login: ra.Member.LoginName,
				Email: ra.Member.Email,
			},
			Roles: roles,
		})
	}
	return assignments
}

// WalkItems pages through a list's items, invoking fn for each. Individual
// item decode failures are logged and skipped; an fn error aborts the walk.
func (c *siteClient) WalkItems(ctx context.Context, libraryID string, pageSize int, fn func(sharepoint.Item) error) error {
	query := c.conf(ctx).Web().Lists().GetByID(libraryID).Items().
		Select(ItemFields).
		Expand("File,Folder").
		Top(pageSize)

	var page *api.ItemsPage
	err := retryRemote(ctx, c.parameters, func() error {
		var err error
		page, err = query.GetPaged()
		return err
	})
	if err != nil {
		return fmt.Errorf("get items page: %w", err)
	}
	if page == nil { // empty list
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, ir := range page.Items.Data() {
			item, err := c.toItem(ir)
			if err != nil {
				c.logger.Warn("Skipping undecodable item",
					"site_url", c.siteURL, "library_id", libraryID, "error", err)
				continue
			}
			if err := fn(item); err != nil {
				return err
			}
		}
		if !page.HasNextPage() {
			return nil
		}
		err := retryRemote(ctx, c.parameters, func() error {
			var err error
			page, err = page.GetNextPage()
			return err
		})
		if err != nil {
			return fmt.Errorf("get next items page: %w", err)
		}
	}
}

func (c *siteClient) toItem(ir api.ItemResp) (sharepoint.Item, error) {
	var payload itemPayload
	if err := json.Unmarshal(ir.Normalized(), &payload); err != nil {
		return sharepoint.Item{}, fmt.Errorf("decode item: %w", err)
	}

	item := sharepoint.Item{
		ID:        payload.Id,
		GUID:      payload.GUID,
		Name:      payload.FileLeafRef,
		Path:      payload.FileRef,
		IsFile:    payload.FileSystemObjectType == sharepoint.FileSystemObjectTypeFile,
		IsFolder:  payload.FileSystemObjectType == sharepoint.FileSystemObjectTypeFolder,
		HasUnique: payload.HasUniqueRoleAssignments,
	}
	if item.Name == "" {
		item.Name = payload.Title
	}
	return item, nil
}

// GetSharingLinks fetches sharing information for a file item. Items the
// sharing API cannot serve report contracts.ErrSharingInfoUnavailable.
func (c *siteClient) GetSharingLinks(ctx context.Context, item sharepoint.Item) ([]sharepoint.SharingLink, error) {
	if item.GUID == "" {
		return nil, fmt.Errorf("%w: item %d has no unique id", contracts.ErrSharingInfoUnavailable, item.ID)
	}

	endpoint := fmt.Sprintf(
		"%s/_api/web/GetFileById('%s')/ListItemAllFields/GetSharingInformation?$expand=permissionsInformation",
		strings.TrimRight(c.siteURL, "/"),
		url.PathEscape(item.GUID),
	)

	httpClient := api.NewHTTPClient(c.authClient)
	var data []byte
	err := retryRemote(ctx, c.parameters, func() error {
		var err error
		data, err = httpClient.Post(endpoint, nil, &api.RequestConfig{Context: ctx})
		return err
	})
	if err != nil {
		// gosip surfaces the response body in the error text.
		if isSharingUnavailableCode(err.Error()) {
			return nil, fmt.Errorf("%w: item %d: %v", contracts.ErrSharingInfoUnavailable, item.ID, err)
		}
		return nil, fmt.Errorf("get sharing information for item %d: %w", item.ID, err)
	}

	if code := odataErrorCode(data); code != "" {
		if isSharingUnavailableCode(code) {
			return nil, fmt.Errorf("%w: item %d: %s", contracts.ErrSharingInfoUnavailable, item.ID, code)
		}
		return nil, fmt.Errorf("get sharing information for item %d: %s", item.ID, code)
	}

	payload, err := decodeSharingResponse(data)
	if err != nil {
		return nil, fmt.Errorf("decode sharing information for item %d: %w", item.ID, err)
	}

	var links []sharepoint.SharingLink
	for _, l := range payload.PermissionsInformation.Links.Items {
		d := l.LinkDetails
		if d.ShareId == "" {
			// Placeholder rows for link kinds that were never created.
			continue
		}
		link := sharepoint.SharingLink{
			ShareID:  d.ShareId,
			Kind:     sharepoint.LinkKindName(d.LinkKind),
			Scope:    sharepoint.ScopeName(d.Scope),
			IsActive: d.IsActive,
		}
		if d.Url != nil {
			link.URL = *d.Url
		}
		links = append(links, link)
	}
	return links, nil
}

// isSharingUnavailableCode reports whether an OData error code indicates the
// item simply has no sharing information, as opposed to a transport or
// permission fault.
func isSharingUnavailableCode(code string) bool {
	return strings.Contains(code, "System.ArgumentException") ||
		strings.Contains(code, "System.InvalidOperationException") ||
		strings.Contains(code, "System.IO.FileNotFoundException")
}

// Close releases the site session. Safe to call more than once.
func (c *siteClient) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Debug("Disconnected from site", "site_url", c.siteURL)
	return nil
}
