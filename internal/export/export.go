package export

import (
	"context"

	"github.com/barmetrics/backend-go/internal/domain"
)

// RunExporter ships a finished batch run's report to external storage. The
// returned string identifies the stored object.
type RunExporter interface {
	ExportRun(ctx context.Context, summary *domain.RunSummary) (string, error)
}
