// Package application sequences the audit lifecycle: enumerate the tenant,
// process each site in turn, filter, export, and summarize.
package application

import (
	"context"
	"errors"
	"log/slog"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/infrastructure/spauditor"
	"spscan/logging"
)

// AuditService drives one audit run end to end. Sites are processed strictly
// sequentially with exactly one live site connection at a time; per-site
// failures are consumed at the site boundary and never abort the run.
type AuditService struct {
	directory  contracts.TenantDirectory
	exporter   contracts.Exporter
	store      contracts.RunStore // optional, nil disables persistence
	parameters *audit.Parameters
	logger     *logging.Logger
}

func NewAuditService(directory contracts.TenantDirectory, exporter contracts.Exporter, store contracts.RunStore, parameters *audit.Parameters) *AuditService {
	return &AuditService{
		directory:  directory,
		exporter:   exporter,
		store:      store,
		parameters: parameters,
		logger:     logging.Default().WithComponent("audit"),
	}
}

// Execute runs a full tenant audit and writes the record set to outputPath.
// The returned Run is always non-nil and terminal; the error reports fatal
// conditions (enumeration or export failure), not per-site ones.
func (s *AuditService) Execute(ctx context.Context, tenantURL, outputPath string) (*audit.Run, error) {
	run := audit.NewRun(tenantURL)
	s.saveRun(ctx, run)

	enumerator := spauditor.NewSiteEnumerator(s.directory, tenantURL)
	collector := spauditor.NewPermissionCollector()
	walker := spauditor.NewLibraryWalker(s.parameters)
	aggregator := audit.NewAggregator()

	if err := run.To(audit.RunStateTenantConnected); err != nil {
		return s.fail(ctx, run, audit.RunStateCriticalFailure, err)
	}

	sites, err := enumerator.Enumerate(ctx)
	if err != nil {
		return s.fail(ctx, run, audit.RunStateEnumerationFailed, err)
	}
	if len(sites) == 0 {
		err := &audit.EnumerationError{TenantURL: tenantURL, Err: errors.New("no sites discovered")}
		return s.fail(ctx, run, audit.RunStateEnumerationFailed, err)
	}

	if err := run.To(audit.RunStateEnumerated); err != nil {
		return s.fail(ctx, run, audit.RunStateCriticalFailure, err)
	}
	run.Summary.SitesDiscovered = len(sites)

	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return s.fail(ctx, run, audit.RunStateCriticalFailure, err)
		}
		if err := s.processSite(ctx, site.URL, collector, walker, aggregator, &run.Summary); err != nil {
			s.logger.AuditError("Site processing failed, continuing with next site", err, site.URL)
			run.Summary.SitesFailed++
			continue
		}
		run.Summary.SitesProcessed++
	}

	records := audit.FilterExternal(aggregator.Records(), s.parameters.ExternalLinksOnly)
	if err := run.To(audit.RunStateFiltered); err != nil {
		return s.fail(ctx, run, audit.RunStateCriticalFailure, err)
	}
	run.Summary.TotalRecords = len(records)
	run.Summary.ExternalRecords = len(audit.FilterExternal(records, true))

	if len(records) == 0 {
		s.logger.Warn("No records produced, no output file written", "tenant_url", tenantURL)
	} else {
		if err := s.exporter.Export(ctx, outputPath, records); err != nil {
			return s.fail(ctx, run, audit.RunStateCriticalFailure, err)
		}
	}
	if err := run.To(audit.RunStateExported); err != nil {
		return s.fail(ctx, run, audit.RunStateCriticalFailure, err)
	}

	if s.store != nil && len(records) > 0 {
		if err := s.store.SaveRecords(ctx, run.ID, records); err != nil {
			s.logger.Warn("Failed to persist records", "run_id", run.ID, "error", err)
			run.Summary.Warnings++
		}
	}

	if err := run.To(audit.RunStateDone); err != nil {
		return s.fail(ctx, run, audit.RunStateCriticalFailure, err)
	}
	s.saveRun(ctx, run)

	attrs := append(run.Summary.Attrs(), slog.Duration("duration", run.Duration()))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "Audit run complete", attrs...)
	return run, nil
}

// processSite audits one site: connect, site-level collection, library walk.
// The connection is always released before returning.
func (s *AuditService) processSite(ctx context.Context, siteURL string, collector *spauditor.PermissionCollector, walker *spauditor.LibraryWalker, aggregator *audit.Aggregator, summary *audit.Summary) error {
	dir, err := s.directory.Connect(ctx, siteURL)
	if err != nil {
		return &audit.ConnectionError{SiteURL: siteURL, Err: err}
	}
	defer dir.Close()

	s.logger.Audit("Auditing site", siteURL)

	// With externalLinksOnly every site-level record would be filtered out
	// anyway, so the membership pass is skipped entirely.
	if !s.parameters.ExternalLinksOnly {
		records, err := collector.Collect(ctx, dir, siteURL, summary)
		aggregator.Append(records...)
		if err != nil {
			// A site-scoped collection failure skips the rest of this
			// site; partial records gathered so far are kept.
			return err
		}
	}

	records, err := walker.Walk(ctx, dir, siteURL, summary)
	aggregator.Append(records...)
	return err
}

// fail moves the run to a terminal failure state, persists it, and returns
// the causing error.
func (s *AuditService) fail(ctx context.Context, run *audit.Run, state audit.RunState, err error) (*audit.Run, error) {
	run.Fail(state, err)
	s.saveRun(ctx, run)
	s.logger.Error("Audit run failed", "run_id", run.ID, "state", string(run.State), "error", err)
	return run, err
}

func (s *AuditService) saveRun(ctx context.Context, run *audit.Run) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		s.logger.Warn("Failed to persist run state", "run_id", run.ID, "error", err)
	}
}
