package evaluation

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"tabclass/domain/classification"
)

// MaxMarkers bounds the number of points in a displayed series
const MaxMarkers = 25

// ROC returns the ROC curve (X=FPR, Y=TPR) and its area. Both are empty
// when rows lack one of the two classes, since the curve is undefined.
func ROC(rows []classification.ScoredRow) ([]classification.CurvePoint, float64) {
	if !hasBothClasses(rows) {
		return nil, 0
	}

	y := make([]float64, len(rows))
	classes := make([]bool, len(rows))
	for i, r := range rows {
		y[i] = r.Score
		classes[i] = r.Label
	}
	stat.SortWeightedLabeled(y, classes, nil)

	tpr, fpr, thresh := stat.ROC(nil, y, classes, nil)
	auc := integrate.Trapezoidal(fpr, tpr)

	points := make([]classification.CurvePoint, len(tpr))
	for i := range tpr {
		t := thresh[i]
		if math.IsInf(t, 0) {
			t = 0
		}
		points[i] = classification.CurvePoint{X: fpr[i], Y: tpr[i], Threshold: t}
	}
	return points, auc
}

// Gains returns the cumulative gains curve for one class: X is the share of
// rows taken in descending score order, Y the share of class rows captured.
// It is empty when no row belongs to the class.
func Gains(scores []float64, positive []bool) []classification.CurvePoint {
	total := 0
	for _, p := range positive {
		if p {
			total++
		}
	}
	if total == 0 || len(scores) != len(positive) {
		return nil
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	order := make([]int, len(scores))
	floats.Argsort(sorted, order)

	n := float64(len(scores))
	points := make([]classification.CurvePoint, 0, len(scores)+1)
	points = append(points, classification.CurvePoint{})
	captured := 0
	for k := len(order) - 1; k >= 0; k-- {
		idx := order[k]
		if positive[idx] {
			captured++
		}
		taken := len(order) - k
		points = append(points, classification.CurvePoint{
			X:         float64(taken) / n,
			Y:         float64(captured) / float64(total),
			Threshold: scores[idx],
		})
	}
	return points
}

// Decimate keeps at most limit points, always including the first and last
func Decimate(points []classification.CurvePoint, limit int) []classification.CurvePoint {
	if limit < 2 || len(points) <= limit {
		return points
	}
	out := make([]classification.CurvePoint, 0, limit)
	step := float64(len(points)-1) / float64(limit-1)
	for i := 0; i < limit; i++ {
		out = append(out, points[int(math.Round(float64(i)*step))])
	}
	return out
}

func hasBothClasses(rows []classification.ScoredRow) bool {
	var pos, neg bool
	for _, r := range rows {
		if r.Label {
			pos = true
		} else {
			neg = true
		}
		if pos && neg {
			return true
		}
	}
	return false
}
