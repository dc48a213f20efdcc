// Package threshold searches the decision threshold that maximises F1 on
// validation rows.
package threshold

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tabclass/domain/classification"
)

const (
	// DefaultThreshold is returned when no candidate yields a positive F1
	DefaultThreshold = 0.5
	// GridSteps defines the candidate grid i/GridSteps for i in 1..GridSteps-1
	GridSteps = 100
)

// Tuner evaluates the threshold grid, optionally in parallel
type Tuner struct {
	// Workers bounds concurrent candidate evaluation; values below 2 run sequentially
	Workers int
}

// NewTuner creates a tuner
func NewTuner(workers int) *Tuner {
	return &Tuner{Workers: workers}
}

// Candidates returns the threshold grid 0.01..0.99
func Candidates() []float64 {
	out := make([]float64, 0, GridSteps-1)
	for i := 1; i < GridSteps; i++ {
		out = append(out, float64(i)/GridSteps)
	}
	return out
}

// Optimize returns the candidate with the highest F1. Ties keep the lowest
// threshold. When every candidate scores zero the default 0.5 is returned.
func (t *Tuner) Optimize(ctx context.Context, rows []classification.ScoredRow) (classification.ThresholdResult, error) {
	candidates := Candidates()
	scores := make([]float64, len(candidates))

	if t == nil || t.Workers < 2 {
		for i, c := range candidates {
			scores[i] = F1At(rows, c)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(t.Workers)
		for i, c := range candidates {
			i, c := i, c
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				scores[i] = F1At(rows, c)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return classification.ThresholdResult{}, err
		}
	}

	result := classification.ThresholdResult{
		Threshold:  DefaultThreshold,
		Degenerate: isDegenerate(rows),
		Candidates: len(candidates),
	}
	for i, c := range candidates {
		if scores[i] > result.F1 {
			result.F1 = scores[i]
			result.Threshold = c
		}
	}
	return result, nil
}

// OptimizeThreshold runs a sequential search
func OptimizeThreshold(rows []classification.ScoredRow) classification.ThresholdResult {
	result, _ := (&Tuner{}).Optimize(context.Background(), rows)
	return result
}

// Confusion counts outcomes when rows scoring at or above threshold are predicted positive
func Confusion(rows []classification.ScoredRow, threshold float64) classification.ConfusionCounts {
	var c classification.ConfusionCounts
	for _, r := range rows {
		predicted := r.Score >= threshold
		switch {
		case predicted && r.Label:
			c.TP++
		case predicted && !r.Label:
			c.FP++
		case !predicted && r.Label:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

// F1At returns the positive-class F1 at a threshold, 0 when undefined
func F1At(rows []classification.ScoredRow, threshold float64) float64 {
	return F1(Confusion(rows, threshold))
}

// F1 computes 2*P*R/(P+R) from counts, 0 when precision or recall is undefined
func F1(c classification.ConfusionCounts) float64 {
	if c.TP+c.FP == 0 || c.TP+c.FN == 0 {
		return 0
	}
	precision := float64(c.TP) / float64(c.TP+c.FP)
	recall := float64(c.TP) / float64(c.TP+c.FN)
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

func isDegenerate(rows []classification.ScoredRow) bool {
	var pos, neg bool
	for _, r := range rows {
		if r.Label {
			pos = true
		} else {
			neg = true
		}
	}
	return !(pos && neg)
}
