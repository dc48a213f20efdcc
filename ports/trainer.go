package ports

import (
	"context"

	"tabclass/domain/classification"
	"tabclass/domain/dataset"
)

// TrainingSet is what the preparation pipeline hands to an external trainer
type TrainingSet struct {
	Columns   []dataset.Column
	Label     dataset.LabelColumn
	Features  []string // F0..Fn-1, in column order excluding the label
	Rows      []dataset.Row
	Weights   []float64 // parallel to Rows; nil when weighting is off
	Task      classification.TaskKind
	Algorithm classification.Algorithm
}

// ModelTrainer is the boundary to the external ML framework
type ModelTrainer interface {
	Train(ctx context.Context, set TrainingSet) (TrainedModel, error)
}

// TrainedModel scores rows that share the training schema
type TrainedModel interface {
	// Predict returns one ModelOutput per row, in row order, with TrueLabel
	// taken from the label column. Multiclass ClassScores follow the sorted
	// order of the training labels.
	Predict(ctx context.Context, rows []dataset.Row) ([]classification.ModelOutput, error)
	HasProbability() bool
}
