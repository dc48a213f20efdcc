package ports

import (
	"context"

	"tabclass/domain/classification"
	"tabclass/domain/core"
)

// ReportRepository stores pipeline reports
type ReportRepository interface {
	Save(ctx context.Context, report *classification.PipelineReport) error
	Get(ctx context.Context, id core.RunID) (*classification.PipelineReport, error)
	List(ctx context.Context, limit, offset int) ([]*classification.PipelineReport, error)
}
