package ports

import (
	"context"

	"tabclass/domain/dataset"
)

// TableLoader supplies a typed Table from a delimited or spreadsheet file.
// Headers are trimmed and every column carries a resolved kind.
type TableLoader interface {
	Load(ctx context.Context, path string) (*dataset.Table, error)
}

// PartitionWriter persists prepared partitions for an external trainer
type PartitionWriter interface {
	// WritePartitions writes one file per non-empty partition into dir and
	// returns the written paths keyed by partition name
	WritePartitions(ctx context.Context, dir string, split dataset.Split, weights []float64) (map[string]string, error)
}
