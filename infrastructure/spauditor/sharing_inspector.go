package spauditor

import (
	"context"
	"errors"
	"log/slog"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/domain/sharepoint"
	"spscan/logging"
)

// SharingLinkInspector reports the ad-hoc sharing links on individual files.
type SharingLinkInspector struct {
	logger *logging.Logger
}

func NewSharingLinkInspector() *SharingLinkInspector {
	return &SharingLinkInspector{logger: logging.Default().WithComponent("sharing")}
}

// Inspect returns one record per sharing link on the file. An unavailable
// sharing lookup yields no records and no warning; a real fault is logged
// and the file is skipped. Multiple links on the same file are all reported.
func (i *SharingLinkInspector) Inspect(ctx context.Context, dir contracts.SiteDirectory, siteURL, path string, item sharepoint.Item, summary *audit.Summary) []audit.Record {
	links, err := dir.GetSharingLinks(ctx, item)
	if err != nil {
		if errors.Is(err, contracts.ErrSharingInfoUnavailable) {
			i.logger.Debug("Sharing information unavailable",
				"site_url", siteURL, "item", item.GetDisplayName())
			return nil
		}
		i.logger.Warn("Failed to fetch sharing links",
			"site_url", siteURL, "item", item.GetDisplayName(), "error", err)
		summary.Warnings++
		return nil
	}

	records := make([]audit.Record, 0, len(links))
	for _, link := range links {
		if link.IsAnonymous() {
			i.logger.Audit("Anonymous sharing link found", siteURL,
				slog.String("item", item.GetDisplayName()), slog.String("kind", link.Kind))
		}
		records = append(records, audit.NewSharingLinkRecord(siteURL, path, link))
		summary.LinksFound++
	}
	return records
}
