// Package export writes the final record set to disk.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/logging"
)

// Header is the exact column order of the exported CSV.
var Header = []string{
	"siteUrl", "itemType", "itemPath",
	"principalType", "principalName", "userName", "userEmail",
	"permission", "isExternal", "hasExternalLinks", "linkType", "inherited",
}

// CSVExporter writes records as UTF-8 CSV, one row per record in aggregator
// order.
type CSVExporter struct {
	logger *logging.Logger
}

var _ contracts.Exporter = (*CSVExporter)(nil)

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{logger: logging.Default().WithComponent("export")}
}

// Export writes the record set to path. The file is created fresh; a partial
// file is removed on write failure.
func (e *CSVExporter) Export(ctx context.Context, path string, records []audit.Record) error {
	if err := ctx.Err(); err != nil {
		return &audit.ExportError{Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &audit.ExportError{Path: path, Err: err}
	}

	w := csv.NewWriter(f)
	writeErr := w.Write(Header)
	for _, r := range records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(recordRow(r))
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}

	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(path)
		return &audit.ExportError{Path: path, Err: writeErr}
	}

	e.logger.Info("Exported audit records", "path", path, "records", len(records))
	return nil
}

func recordRow(r audit.Record) []string {
	return []string{
		r.SiteURL,
		string(r.ItemType),
		r.ItemPath,
		string(r.PrincipalType),
		r.PrincipalName,
		r.UserName,
		r.UserEmail,
		r.Permission,
		strconv.FormatBool(r.IsExternal),
		strconv.FormatBool(r.HasExternalLinks),
		r.LinkType,
		strconv.FormatBool(r.Inherited),
	}
}

// DefaultPath returns the timestamped default output filename.
func DefaultPath(now time.Time) string {
	return fmt.Sprintf("spscan-audit-%s.csv", now.UTC().Format("20060102-150405"))
}
