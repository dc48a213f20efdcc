package evaluation

import (
	"fmt"
	"sort"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/internal/threshold"
)

// Binary computes threshold metrics, AUC, a decimated ROC series and a
// score summary for binary rows.
func Binary(rows []classification.ScoredRow, cutoff float64) (classification.BinaryMetrics, error) {
	c := threshold.Confusion(rows, cutoff)
	m := classification.BinaryMetrics{
		Threshold:         cutoff,
		Confusion:         c,
		Accuracy:          ratio(c.TP+c.TN, c.Total()),
		PositivePrecision: ratio(c.TP, c.TP+c.FP),
		PositiveRecall:    ratio(c.TP, c.TP+c.FN),
		NegativePrecision: ratio(c.TN, c.TN+c.FN),
		NegativeRecall:    ratio(c.TN, c.TN+c.FP),
		F1:                threshold.F1(c),
	}

	roc, auc := ROC(rows)
	m.ROC = Decimate(roc, MaxMarkers)
	m.AUC = auc

	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = r.Score
	}
	summary, err := Summarize(scores)
	if err != nil {
		return m, fmt.Errorf("summarize scores: %w", err)
	}
	m.Scores = summary
	return m, nil
}

// Multiclass computes the confusion matrix, accuracy, macro averages and
// per-class gains. classes gives the order of ModelOutput.ClassScores; when
// empty, the sorted union of true and predicted labels is used and gains
// are skipped. Rows without a predicted label fall back to the score argmax,
// which needs explicit classes.
func Multiclass(outputs []classification.ModelOutput, classes []string) (classification.MulticlassMetrics, error) {
	ext, err := Extract(outputs)
	if err != nil {
		return classification.MulticlassMetrics{}, err
	}
	scoresAligned := len(classes) > 0
	if !scoresAligned {
		classes = labelSet(outputs)
	}
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	predicted := make([]string, len(outputs))
	for i, out := range outputs {
		predicted[i] = out.PredictedLabel
		if predicted[i] == "" {
			k := argmax(out.ClassScores)
			if !scoresAligned || k < 0 || k >= len(classes) {
				return classification.MulticlassMetrics{}, fmt.Errorf("%w: row %d has no predicted class", core.ErrNoScores, i)
			}
			predicted[i] = classes[k]
		}
	}

	m := classification.MulticlassMetrics{
		Classes:         classes,
		ConfusionMatrix: make([][]int, len(classes)),
		PerClass:        make(map[string]classification.ClassMetrics, len(classes)),
		Gains:           make(map[string][]classification.CurvePoint),
	}
	for i := range m.ConfusionMatrix {
		m.ConfusionMatrix[i] = make([]int, len(classes))
	}

	correct := 0
	for i := range outputs {
		actual, aok := index[ext.Labels[i]]
		pred, pok := index[predicted[i]]
		if aok && pok {
			m.ConfusionMatrix[actual][pred]++
		}
		if ext.Labels[i] == predicted[i] {
			correct++
		}
	}
	m.Accuracy = ratio(correct, len(outputs))

	for k, class := range classes {
		tp, support, predictedCount := m.ConfusionMatrix[k][k], 0, 0
		for j := range classes {
			support += m.ConfusionMatrix[k][j]
			predictedCount += m.ConfusionMatrix[j][k]
		}
		cm := classification.ClassMetrics{
			Precision: ratio(tp, predictedCount),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		m.PerClass[class] = cm
		m.MacroPrecision += cm.Precision
		m.MacroRecall += cm.Recall
		m.MacroF1 += cm.F1

		if !scoresAligned {
			continue
		}
		if gains := classGains(outputs, ext.Labels, k, class); gains != nil {
			m.Gains[class] = Decimate(gains, MaxMarkers)
		}
	}
	if n := float64(len(classes)); n > 0 {
		m.MacroPrecision /= n
		m.MacroRecall /= n
		m.MacroF1 /= n
	}

	summary, err := Summarize(ext.Scores)
	if err != nil {
		return m, fmt.Errorf("summarize scores: %w", err)
	}
	m.Scores = summary
	return m, nil
}

func classGains(outputs []classification.ModelOutput, labels []string, k int, class string) []classification.CurvePoint {
	scores := make([]float64, len(outputs))
	positive := make([]bool, len(outputs))
	for i, out := range outputs {
		if k >= len(out.ClassScores) {
			return nil
		}
		scores[i] = out.ClassScores[k]
		positive[i] = labels[i] == class
	}
	return Gains(scores, positive)
}

func labelSet(outputs []classification.ModelOutput) []string {
	seen := make(map[string]struct{})
	for _, out := range outputs {
		seen[out.TrueLabel.String()] = struct{}{}
		if out.PredictedLabel != "" {
			seen[out.PredictedLabel] = struct{}{}
		}
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

func argmax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
