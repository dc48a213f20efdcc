package testkit

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"tabclass/domain/classification"
	"tabclass/domain/dataset"
	"tabclass/ports"
)

// CentroidTrainer is a small deterministic stand-in for the external ML
// framework. Binary sets are scored by distance to per-class centroids of the
// numeric features; textual sets by per-class token frequencies.
type CentroidTrainer struct {
	// ScoreOnly makes binary models emit raw scores instead of probabilities
	ScoreOnly bool
}

var _ ports.ModelTrainer = (*CentroidTrainer)(nil)

func (t *CentroidTrainer) Train(ctx context.Context, set ports.TrainingSet) (ports.TrainedModel, error) {
	if len(set.Rows) == 0 {
		return nil, fmt.Errorf("testkit: empty training set")
	}
	if set.Task == classification.TaskTextual {
		return trainTokens(set), nil
	}
	return trainCentroids(set, t.ScoreOnly)
}

type centroidModel struct {
	label     dataset.LabelColumn
	features  []int
	pos, neg  []float64
	scoreOnly bool
}

func trainCentroids(set ports.TrainingSet, scoreOnly bool) (*centroidModel, error) {
	m := &centroidModel{label: set.Label, scoreOnly: scoreOnly}
	for i, c := range set.Columns {
		if i != set.Label.Index && c.Kind != dataset.KindText {
			m.features = append(m.features, i)
		}
	}
	m.pos = make([]float64, len(m.features))
	m.neg = make([]float64, len(m.features))
	var wPos, wNeg float64

	for r, row := range set.Rows {
		truth, ok := set.Label.Of(row).BinaryTruth()
		if !ok {
			return nil, fmt.Errorf("testkit: row %d has non-binary label", r)
		}
		w := 1.0
		if set.Weights != nil {
			w = set.Weights[r]
		}
		target := m.neg
		if truth {
			target = m.pos
			wPos += w
		} else {
			wNeg += w
		}
		for j, idx := range m.features {
			x, _ := row[idx].Numeric()
			target[j] += w * x
		}
	}
	for j := range m.features {
		if wPos > 0 {
			m.pos[j] /= wPos
		}
		if wNeg > 0 {
			m.neg[j] /= wNeg
		}
	}
	return m, nil
}

func (m *centroidModel) HasProbability() bool { return !m.scoreOnly }

func (m *centroidModel) Predict(ctx context.Context, rows []dataset.Row) ([]classification.ModelOutput, error) {
	out := make([]classification.ModelOutput, len(rows))
	for i, row := range rows {
		var dPos, dNeg float64
		for j, idx := range m.features {
			x, _ := row[idx].Numeric()
			dPos += (x - m.pos[j]) * (x - m.pos[j])
			dNeg += (x - m.neg[j]) * (x - m.neg[j])
		}
		raw := (dNeg - dPos) / 2
		out[i].TrueLabel = m.label.Of(row)
		if m.scoreOnly {
			out[i].Score = Float(raw)
		} else {
			out[i].Score = Float(raw)
			out[i].Probability = Float(1 / (1 + math.Exp(-raw)))
		}
	}
	return out, nil
}

type tokenModel struct {
	label   dataset.LabelColumn
	text    int
	classes []string
	counts  map[string]map[string]float64
	totals  map[string]float64
	vocab   map[string]struct{}
}

func trainTokens(set ports.TrainingSet) *tokenModel {
	m := &tokenModel{
		label:  set.Label,
		text:   -1,
		counts: make(map[string]map[string]float64),
		totals: make(map[string]float64),
		vocab:  make(map[string]struct{}),
	}
	for i, c := range set.Columns {
		if i != set.Label.Index && c.Kind == dataset.KindText {
			m.text = i
			break
		}
	}
	for _, row := range set.Rows {
		class := set.Label.Of(row).String()
		if _, ok := m.counts[class]; !ok {
			m.counts[class] = make(map[string]float64)
			m.classes = append(m.classes, class)
		}
		if m.text < 0 {
			continue
		}
		for _, tok := range strings.Fields(strings.ToLower(row[m.text].String())) {
			m.counts[class][tok]++
			m.totals[class]++
			m.vocab[tok] = struct{}{}
		}
	}
	sort.Strings(m.classes)
	return m
}

func (m *tokenModel) HasProbability() bool { return true }

func (m *tokenModel) Predict(ctx context.Context, rows []dataset.Row) ([]classification.ModelOutput, error) {
	out := make([]classification.ModelOutput, len(rows))
	v := float64(len(m.vocab))
	for i, row := range rows {
		logits := make([]float64, len(m.classes))
		var tokens []string
		if m.text >= 0 {
			tokens = strings.Fields(strings.ToLower(row[m.text].String()))
		}
		for c, class := range m.classes {
			for _, tok := range tokens {
				logits[c] += math.Log((m.counts[class][tok] + 1) / (m.totals[class] + v))
			}
		}
		probs := softmax(logits)
		best := 0
		for c := range probs {
			if probs[c] > probs[best] {
				best = c
			}
		}
		out[i] = classification.ModelOutput{
			TrueLabel:      m.label.Of(row),
			ClassScores:    probs,
			PredictedLabel: m.classes[best],
		}
	}
	return out, nil
}

func softmax(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, l)
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, l := range logits {
		out[i] = math.Exp(l - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
