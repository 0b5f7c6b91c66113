package store

import (
	"context"
	"fmt"

	"spscan/domain/audit"
	"spscan/domain/contracts"
)

// RunRepository persists audit runs and their records.
type RunRepository struct {
	db *Database
}

var _ contracts.RunStore = (*RunRepository)(nil)

func NewRunRepository(db *Database) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun upserts a run's metadata and summary counters. Called at the start
// of a run and again on every terminal transition, so a crashed run leaves
// its last known state behind.
func (r *RunRepository) SaveRun(ctx context.Context, run *audit.Run) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO audit_runs (
			id, tenant_url, state, started_at, completed_at, error,
			sites_discovered, sites_processed, sites_failed,
			libraries_walked, items_scanned, links_found,
			total_records, external_records, warnings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			completed_at = excluded.completed_at,
			error = excluded.error,
			sites_discovered = excluded.sites_discovered,
			sites_processed = excluded.sites_processed,
			sites_failed = excluded.sites_failed,
			libraries_walked = excluded.libraries_walked,
			items_scanned = excluded.items_scanned,
			links_found = excluded.links_found,
			total_records = excluded.total_records,
			external_records = excluded.external_records,
			warnings = excluded.warnings
	`,
		run.ID, run.TenantURL, string(run.State), run.StartedAt, run.CompletedAt, run.Error,
		run.Summary.SitesDiscovered, run.Summary.SitesProcessed, run.Summary.SitesFailed,
		run.Summary.LibrariesWalked, run.Summary.ItemsScanned, run.Summary.LinksFound,
		run.Summary.TotalRecords, run.Summary.ExternalRecords, run.Summary.Warnings,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// SaveRecords writes the run's record set in one transaction, in aggregator
// order.
func (r *RunRepository) SaveRecords(ctx context.Context, runID string, records []audit.Record) error {
	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin records transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audit_records (
			run_id, seq, site_url, item_type, item_path,
			principal_type, principal_name, user_name, user_email,
			permission, is_external, has_external_links, link_type, inherited
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for seq, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			runID, seq, rec.SiteURL, string(rec.ItemType), rec.ItemPath,
			string(rec.PrincipalType), rec.PrincipalName, rec.UserName, rec.UserEmail,
			rec.Permission, rec.IsExternal, rec.HasExternalLinks, rec.LinkType, rec.Inherited,
		); err != nil {
			return fmt.Errorf("insert record %d for run %s: %w", seq, runID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit records for run %s: %w", runID, err)
	}
	return nil
}

// Close closes the underlying database.
func (r *RunRepository) Close() error {
	return r.db.Close()
}
