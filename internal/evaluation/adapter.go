// Package evaluation turns heterogeneous model outputs into score/label
// sequences and computes the metrics and chart series shown to users.
package evaluation

import (
	"fmt"

	"tabclass/domain/classification"
	"tabclass/domain/core"
)

// Extract normalises model outputs into parallel score and label sequences.
// Each row contributes its probability, else its raw score, else the maximum
// of its per-class scores. The maximum does not record which class produced
// it, so per-class curves must use the class score vectors directly.
// All rows must draw from the same field; Source reports it.
func Extract(outputs []classification.ModelOutput) (classification.Extraction, error) {
	ext := classification.Extraction{
		Scores: make([]float64, len(outputs)),
		Labels: make([]string, len(outputs)),
	}
	hasPredicted := false
	for i, out := range outputs {
		score, source, ok := scoreOf(out)
		if !ok {
			return classification.Extraction{}, fmt.Errorf("%w: row %d", core.ErrNoScores, i)
		}
		if i == 0 {
			ext.Source = source
		} else if source != ext.Source {
			return classification.Extraction{}, fmt.Errorf("%w: row %d has %s, row 0 has %s", core.ErrMixedScores, i, source, ext.Source)
		}
		ext.Scores[i] = score
		ext.Labels[i] = out.TrueLabel.String()
		if out.PredictedLabel != "" {
			hasPredicted = true
		}
	}

	if hasPredicted {
		ext.Predicted = make([]string, len(outputs))
		for i, out := range outputs {
			ext.Predicted[i] = out.PredictedLabel
		}
	}
	return ext, nil
}

func scoreOf(out classification.ModelOutput) (float64, classification.ScoreSource, bool) {
	switch {
	case out.Probability != nil:
		return *out.Probability, classification.SourceProbability, true
	case out.Score != nil:
		return *out.Score, classification.SourceRawScore, true
	case len(out.ClassScores) > 0:
		best := out.ClassScores[0]
		for _, s := range out.ClassScores[1:] {
			if s > best {
				best = s
			}
		}
		return best, classification.SourceMaxClassScore, true
	}
	return 0, "", false
}

// ScoredRows pairs each binary output's score with its true label
func ScoredRows(outputs []classification.ModelOutput) ([]classification.ScoredRow, error) {
	ext, err := Extract(outputs)
	if err != nil {
		return nil, err
	}
	rows := make([]classification.ScoredRow, len(outputs))
	for i, out := range outputs {
		truth, ok := out.TrueLabel.BinaryTruth()
		if !ok {
			return nil, core.NewInvalidLabelError("label", i, out.TrueLabel.String())
		}
		rows[i] = classification.ScoredRow{Score: ext.Scores[i], Label: truth}
	}
	return rows, nil
}

// Pair zips independently obtained scores and labels
func Pair(scores []float64, labels []bool) ([]classification.ScoredRow, error) {
	if len(scores) != len(labels) {
		return nil, fmt.Errorf("%w: %d scores, %d labels", core.ErrLengthMismatch, len(scores), len(labels))
	}
	rows := make([]classification.ScoredRow, len(scores))
	for i := range scores {
		rows[i] = classification.ScoredRow{Score: scores[i], Label: labels[i]}
	}
	return rows, nil
}

// DefaultCutoff is the decision threshold used when none was tuned. Raw
// scores are centred on zero, probabilities on one half.
func DefaultCutoff(source classification.ScoreSource) float64 {
	if source == classification.SourceRawScore {
		return 0
	}
	return 0.5
}
