// Package weighting derives inverse-frequency instance weights for binary
// training rows so that both classes contribute equally.
package weighting

import (
	"fmt"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/domain/dataset"
)

// ComputeWeights counts the classes of a binary label and returns
// total/(2*count) per class, or 1 for a class that does not occur.
func ComputeWeights(rows []dataset.Row, label dataset.LabelColumn) (classification.ClassWeights, error) {
	if label.Index < 0 {
		return classification.ClassWeights{}, fmt.Errorf("%w: column %q", core.ErrLabelNotFound, label.Name)
	}

	var w classification.ClassWeights
	for i, row := range rows {
		value := label.Of(row)
		truth, ok := value.BinaryTruth()
		if !ok {
			return classification.ClassWeights{}, core.NewInvalidLabelError(label.Name, i, value.String())
		}
		if truth {
			w.CountTrue++
		} else {
			w.CountFalse++
		}
	}

	total := float64(w.CountTrue + w.CountFalse)
	w.True = weightFor(total, w.CountTrue)
	w.False = weightFor(total, w.CountFalse)
	return w, nil
}

func weightFor(total float64, count int) float64 {
	if count == 0 {
		return 1
	}
	return total / (2 * float64(count))
}

// Apply attaches weights to rows. Rows are shared, not copied.
func Apply(rows []dataset.Row, label dataset.LabelColumn, weights classification.ClassWeights) ([]dataset.WeightedRow, error) {
	out := make([]dataset.WeightedRow, len(rows))
	for i, row := range rows {
		value := label.Of(row)
		truth, ok := value.BinaryTruth()
		if !ok {
			return nil, core.NewInvalidLabelError(label.Name, i, value.String())
		}
		out[i] = dataset.WeightedRow{Row: row, Weight: weights.For(truth)}
	}
	return out, nil
}

// Weigh computes class weights and returns them with a weight slice parallel to rows
func Weigh(rows []dataset.Row, label dataset.LabelColumn) (classification.ClassWeights, []float64, error) {
	weights, err := ComputeWeights(rows, label)
	if err != nil {
		return weights, nil, err
	}
	weighted, err := Apply(rows, label, weights)
	if err != nil {
		return weights, nil, err
	}
	out := make([]float64, len(weighted))
	for i, wr := range weighted {
		out[i] = wr.Weight
	}
	return weights, out, nil
}
