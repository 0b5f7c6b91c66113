// Package spauditor contains the traversal components that turn directory
// state into audit records: site enumeration, site-level permission
// collection, library walking, and sharing-link inspection.
package spauditor

import (
	"context"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/domain/sharepoint"
	"spscan/logging"
)

// SiteEnumerator discovers the auditable site collections of a tenant.
type SiteEnumerator struct {
	dir       contracts.TenantDirectory
	tenantURL string
	logger    *logging.Logger
}

func NewSiteEnumerator(dir contracts.TenantDirectory, tenantURL string) *SiteEnumerator {
	return &SiteEnumerator{
		dir:       dir,
		tenantURL: tenantURL,
		logger:    logging.Default().WithComponent("enumerator"),
	}
}

// Enumerate lists the tenant's sites. A fetch failure is reported as an
// EnumerationError; the caller treats it, and an empty result, as fatal.
func (e *SiteEnumerator) Enumerate(ctx context.Context) ([]sharepoint.Site, error) {
	sites, err := e.dir.ListSites(ctx)
	if err != nil {
		return nil, &audit.EnumerationError{TenantURL: e.tenantURL, Err: err}
	}
	e.logger.Info("Discovered site collections", "tenant_url", e.tenantURL, "sites", len(sites))
	return sites, nil
}
