package spauditor

import (
	"context"
	"strings"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/domain/sharepoint"
	"spscan/logging"
)

// LibraryWalker descends from libraries into items, emitting records for
// unique permission assignments and delegating files to the sharing-link
// inspector. Failure isolation is its defining property: a library failure
// skips that library, an item failure skips that sub-step, and sibling units
// keep their partial results either way.
type LibraryWalker struct {
	parameters *audit.Parameters
	inspector  *SharingLinkInspector
	logger     *logging.Logger
}

func NewLibraryWalker(parameters *audit.Parameters) *LibraryWalker {
	return &LibraryWalker{
		parameters: parameters,
		inspector:  NewSharingLinkInspector(),
		logger:     logging.Default().WithComponent("walker"),
	}
}

// Walk produces the library- and item-level records for one site.
func (w *LibraryWalker) Walk(ctx context.Context, dir contracts.SiteDirectory, siteURL string, summary *audit.Summary) ([]audit.Record, error) {
	libraries, err := dir.ListLibraries(ctx)
	if err != nil {
		return nil, &audit.PermissionFetchError{SiteURL: siteURL, Scope: "site", Target: "libraries", Err: err}
	}

	var records []audit.Record
	for _, lib := range libraries {
		if !lib.IsDocumentLibrary() {
			w.logger.Debug("Skipping non-document list", "site_url", siteURL, "list", lib.Title)
			continue
		}
		if w.parameters.SkipHidden && lib.Hidden {
			w.logger.Debug("Skipping hidden library", "site_url", siteURL, "library", lib.Title)
			continue
		}

		libRecords, err := w.walkLibrary(ctx, dir, siteURL, lib, summary)
		records = append(records, libRecords...)
		if err != nil {
			w.logger.Warn("Skipping library after item fetch failure",
				"site_url", siteURL, "library", lib.Title, "error", err)
			summary.Warnings++
			continue
		}
		summary.LibrariesWalked++
	}
	return records, nil
}

func (w *LibraryWalker) walkLibrary(ctx context.Context, dir contracts.SiteDirectory, siteURL string, lib sharepoint.Library, summary *audit.Summary) ([]audit.Record, error) {
	var records []audit.Record

	if lib.HasUnique {
		assignments, err := dir.ListLibraryPermissions(ctx, lib.ID)
		if err != nil {
			w.logger.Warn("Failed to fetch library permissions",
				"site_url", siteURL, "library", lib.Title, "error", err)
			summary.Warnings++
		} else {
			for _, a := range assignments {
				records = append(records, audit.NewAssignmentRecord(siteURL, audit.ItemTypeLibrary, lib.Title, a, false))
			}
		}
	}

	if lib.IsEmpty() {
		return records, nil
	}

	err := dir.WalkItems(ctx, lib.ID, w.parameters.GetEffectivePageSize(), func(item sharepoint.Item) error {
		summary.ItemsScanned++

		if item.HasUnique || w.parameters.IncludeInherited {
			itemRecords := w.collectItemAssignments(ctx, dir, siteURL, lib, item, summary)
			records = append(records, itemRecords...)
		}

		if item.IsFile {
			linkRecords := w.inspector.Inspect(ctx, dir, siteURL, itemPath(lib, item), item, summary)
			records = append(records, linkRecords...)
		}
		return nil
	})
	if err != nil {
		return records, err
	}
	return records, nil
}

func (w *LibraryWalker) collectItemAssignments(ctx context.Context, dir contracts.SiteDirectory, siteURL string, lib sharepoint.Library, item sharepoint.Item, summary *audit.Summary) []audit.Record {
	assignments, err := dir.ListItemPermissions(ctx, lib.ID, item.ID)
	if err != nil {
		w.logger.Warn("Failed to fetch item permissions",
			"site_url", siteURL, "library", lib.Title, "item", item.GetDisplayName(), "error", err)
		summary.Warnings++
		return nil
	}

	itemType := audit.ItemTypeFile
	if item.IsFolder {
		itemType = audit.ItemTypeFolder
	}
	// Items without broken inheritance report their library's effective
	// assignments; those records are marked inherited.
	inherited := !item.HasUnique

	records := make([]audit.Record, 0, len(assignments))
	for _, a := range assignments {
		records = append(records, audit.NewAssignmentRecord(siteURL, itemType, itemPath(lib, item), a, inherited))
	}
	return records
}

// itemPath composes a record path from the library title and the item's
// server-relative path.
func itemPath(lib sharepoint.Library, item sharepoint.Item) string {
	p := item.Path
	if p == "" {
		p = item.GetDisplayName()
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return lib.Title + p
}
