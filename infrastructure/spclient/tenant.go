package spclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/koltyakov/gosip/api"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/domain/sharepoint"
	"spscan/logging"
	"spscan/spauth"
)

// tenantSearchRowLimit caps a single search page. Tenants with more site
// collections are fetched across multiple requests via startrow.
const tenantSearchRowLimit = 500

// TenantClient discovers site collections across a tenant and opens per-site
// sessions. Site discovery rides the search API because app-only principals
// cannot enumerate sites through the regular web endpoints.
type TenantClient struct {
	auth       spauth.Config
	tenantURL  string
	parameters *audit.Parameters
	logger     *logging.Logger
}

var _ contracts.TenantDirectory = (*TenantClient)(nil)

func NewTenantClient(auth spauth.Config, tenantURL string, parameters *audit.Parameters) *TenantClient {
	return &TenantClient{
		auth:       auth,
		tenantURL:  strings.TrimRight(tenantURL, "/"),
		parameters: parameters,
		logger:     logging.Default().WithComponent("spclient"),
	}
}

// ListSites enumerates the tenant's site collections. Redirect placeholder
// sites are filtered out.
func (t *TenantClient) ListSites(ctx context.Context) ([]sharepoint.Site, error) {
	client, err := spauth.NewClientForSite(t.auth, t.tenantURL)
	if err != nil {
		return nil, fmt.Errorf("authenticate to tenant root: %w", err)
	}
	httpClient := api.NewHTTPClient(client)

	var sites []sharepoint.Site
	startRow := 0
	for {
		endpoint := fmt.Sprintf(
			"%s/_api/search/query?querytext='contentclass:STS_Site'&selectproperties='Path,Title,WebTemplate'&trimduplicates=false&rowlimit=%d&startrow=%d",
			t.tenantURL, tenantSearchRowLimit, startRow,
		)

		var data []byte
		err := retryRemote(ctx, t.parameters, func() error {
			var err error
			data, err = httpClient.Get(endpoint, &api.RequestConfig{Context: ctx})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("search site collections: %w", err)
		}

		payload, err := decodeSearchResponse(data)
		if err != nil {
			return nil, fmt.Errorf("decode site search response: %w", err)
		}

		rows := payload.PrimaryQueryResult.RelevantResults.Table.Rows.Items
		for _, row := range rows {
			site := sharepoint.Site{
				URL:      row.cellValue("Path"),
				Title:    row.cellValue("Title"),
				Template: row.cellValue("WebTemplate"),
			}
			if site.URL == "" {
				continue
			}
			if site.IsRedirect() {
				t.logger.Debug("Skipping redirect site", "site_url", site.URL)
				continue
			}
			sites = append(sites, site)
		}

		startRow += len(rows)
		if len(rows) < tenantSearchRowLimit ||
			startRow >= payload.PrimaryQueryResult.RelevantResults.TotalRows {
			break
		}
	}

	t.logger.Debug("Site enumeration finished", "sites", len(sites))
	return sites, nil
}

// Connect opens a session against a single site collection. A probe request
// runs before the directory is handed out so authentication and access
// failures surface here rather than mid-collection.
func (t *TenantClient) Connect(ctx context.Context, siteURL string) (contracts.SiteDirectory, error) {
	client, err := spauth.NewClientForSite(t.auth, siteURL)
	if err != nil {
		return nil, fmt.Errorf("authenticate to %s: %w", siteURL, err)
	}

	sc := newSiteClient(client, siteURL, t.parameters)
	if err := sc.ping(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", siteURL, err)
	}
	return sc, nil
}
