package contracts

import (
	"context"

	"spscan/domain/audit"
)

// Exporter writes the final record set to a tabular output file.
type Exporter interface {
	Export(ctx context.Context, path string, records []audit.Record) error
}

// RunStore optionally persists runs and their records for later review.
type RunStore interface {
	SaveRun(ctx context.Context, run *audit.Run) error
	SaveRecords(ctx context.Context, runID string, records []audit.Record) error
	Close() error
}
