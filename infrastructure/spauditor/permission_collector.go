package spauditor

import (
	"context"
	"errors"
	"strings"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/domain/sharepoint"
	"spscan/logging"
)

// sharingLinkLoginPrefix marks the pseudo-principals SharePoint creates to
// back sharing links. They are surfaced by the link inspector, not the
// membership pass.
const sharingLinkLoginPrefix = "SharingLinks."

// PermissionCollector produces the site-level access records: one per
// (group, member) pair and one per direct user with a known email.
type PermissionCollector struct {
	logger *logging.Logger
}

func NewPermissionCollector() *PermissionCollector {
	return &PermissionCollector{logger: logging.Default().WithComponent("collector")}
}

// Collect gathers site-level records. Per-group membership failures are
// best-effort: the group contributes no member records and collection
// continues. A failure listing groups or users is returned to the caller
// along with any records already gathered.
func (c *PermissionCollector) Collect(ctx context.Context, dir contracts.SiteDirectory, siteURL string, summary *audit.Summary) ([]audit.Record, error) {
	var records []audit.Record

	groups, err := dir.ListGroups(ctx)
	if err != nil {
		return nil, &audit.PermissionFetchError{SiteURL: siteURL, Scope: "site", Target: "groups", Err: err}
	}

	for _, group := range groups {
		if strings.HasPrefix(group.Login, sharingLinkLoginPrefix) {
			continue
		}

		members, err := dir.ListGroupMembers(ctx, group.ID)
		if err != nil {
			if errors.Is(err, contracts.ErrMembersUnavailable) {
				c.logger.Debug("Group membership not readable",
					"site_url", siteURL, "group", group.Title)
			} else {
				c.logger.Warn("Failed to fetch group members",
					"site_url", siteURL, "group", group.Title, "error", err)
				summary.Warnings++
			}
			continue
		}

		for _, member := range members {
			records = append(records, audit.NewGroupMemberRecord(siteURL, group.Title, member))
		}
	}

	users, err := dir.ListUsers(ctx)
	if err != nil {
		return records, &audit.PermissionFetchError{SiteURL: siteURL, Scope: "site", Target: "users", Err: err}
	}

	for _, user := range users {
		if user.Type != sharepoint.PrincipalTypeUser || user.Email == "" {
			continue
		}
		if strings.HasPrefix(user.Login, sharingLinkLoginPrefix) {
			continue
		}
		records = append(records, audit.NewDirectUserRecord(siteURL, user))
	}

	c.logger.Debug("Collected site-level records", "site_url", siteURL, "records", len(records))
	return records, nil
}
