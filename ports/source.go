package ports

import (
	"context"

	"ivtscope/domain/metrics"
)

// TableSource loads one raw tabular dataset. Implementations cover remote
// sheet exports and local CSV/XLSX files; a load failure is terminal for
// the run.
type TableSource interface {
	// Name identifies the source for logging and error messages.
	Name() string

	// Load fetches and decodes the table. Blocking; honors ctx cancellation.
	Load(ctx context.Context) (*metrics.RawTable, error)
}
