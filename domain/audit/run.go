package audit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RunState is the driver's position in the audit lifecycle.
type RunState string

const (
	RunStateInit              RunState = "init"
	RunStateTenantConnected   RunState = "tenant_connected"
	RunStateEnumerated        RunState = "enumerated"
	RunStateFiltered          RunState = "filtered"
	RunStateExported          RunState = "exported"
	RunStateDone              RunState = "done"
	RunStateEnumerationFailed RunState = "enumeration_failed"
	RunStateCriticalFailure   RunState = "critical_failure"
)

// runTransitions lists the forward edges of the lifecycle. Per-site work
// happens between Enumerated and Filtered and never changes the run state;
// site failures are consumed at the site boundary.
var runTransitions = map[RunState][]RunState{
	RunStateInit:            {RunStateTenantConnected},
	RunStateTenantConnected: {RunStateEnumerated, RunStateEnumerationFailed},
	RunStateEnumerated:      {RunStateFiltered, RunStateEnumerationFailed},
	RunStateFiltered:        {RunStateExported},
	RunStateExported:        {RunStateDone},
}

// Run tracks a single audit execution.
type Run struct {
	ID          string
	TenantURL   string
	State       RunState
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
	Summary     Summary
}

// NewRun creates a run in the initial state
func NewRun(tenantURL string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		TenantURL: tenantURL,
		State:     RunStateInit,
		StartedAt: time.Now().UTC(),
	}
}

// To advances the run to the next state, validating the transition.
func (r *Run) To(next RunState) error {
	for _, allowed := range runTransitions[r.State] {
		if allowed == next {
			r.State = next
			if next == RunStateDone {
				now := time.Now().UTC()
				r.CompletedAt = &now
			}
			return nil
		}
	}
	return fmt.Errorf("invalid run transition: %s -> %s", r.State, next)
}

// Fail moves the run to a terminal failure state.
func (r *Run) Fail(state RunState, err error) {
	if state != RunStateEnumerationFailed {
		state = RunStateCriticalFailure
	}
	r.State = state
	if err != nil {
		r.Error = err.Error()
	}
	now := time.Now().UTC()
	r.CompletedAt = &now
}

// IsTerminal returns true once the run can no longer advance
func (r *Run) IsTerminal() bool {
	switch r.State {
	case RunStateDone, RunStateEnumerationFailed, RunStateCriticalFailure:
		return true
	}
	return false
}

// Duration returns elapsed run time
func (r *Run) Duration() time.Duration {
	if r.CompletedAt != nil {
		return r.CompletedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}

// Summary counts what one run discovered and skipped.
type Summary struct {
	SitesDiscovered int
	SitesProcessed  int
	SitesFailed     int
	LibrariesWalked int
	ItemsScanned    int
	LinksFound      int
	TotalRecords    int
	ExternalRecords int
	Warnings        int
}

// Attrs returns the summary as structured log attributes.
func (s Summary) Attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("sites_discovered", s.SitesDiscovered),
		slog.Int("sites_processed", s.SitesProcessed),
		slog.Int("sites_failed", s.SitesFailed),
		slog.Int("libraries_walked", s.LibrariesWalked),
		slog.Int("items_scanned", s.ItemsScanned),
		slog.Int("sharing_links_found", s.LinksFound),
		slog.Int("total_records", s.TotalRecords),
		slog.Int("external_records", s.ExternalRecords),
		slog.Int("warnings", s.Warnings),
	}
}
