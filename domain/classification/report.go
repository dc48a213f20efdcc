package classification

import (
	"tabclass/domain/core"
	"tabclass/domain/dataset"
)

// PipelineReport records one run from characterization to evaluation
type PipelineReport struct {
	ID          core.RunID          `json:"id" db:"id"`
	Source      string              `json:"source" db:"source"`
	Fingerprint core.Hash           `json:"fingerprint" db:"fingerprint"`
	Suitability Suitability         `json:"suitability" db:"suitability"`
	Algorithm   Algorithm           `json:"algorithm" db:"algorithm"`
	Label       string              `json:"label" db:"label"`
	Counts      dataset.SplitCounts `json:"counts"`
	Weights     *ClassWeights       `json:"weights,omitempty"`
	Threshold   *ThresholdResult    `json:"threshold,omitempty"`
	Binary      *BinaryMetrics      `json:"binary,omitempty"`
	Multiclass  *MulticlassMetrics  `json:"multiclass,omitempty"`
	CreatedAt   core.Timestamp      `json:"created_at"`
}

// Clone returns a deep copy of the report
func (r *PipelineReport) Clone() *PipelineReport {
	if r == nil {
		return nil
	}
	out := *r
	if r.Weights != nil {
		w := *r.Weights
		out.Weights = &w
	}
	if r.Threshold != nil {
		t := *r.Threshold
		out.Threshold = &t
	}
	if r.Binary != nil {
		b := *r.Binary
		b.ROC = append([]CurvePoint(nil), r.Binary.ROC...)
		out.Binary = &b
	}
	if r.Multiclass != nil {
		out.Multiclass = r.Multiclass.clone()
	}
	return &out
}

func (m *MulticlassMetrics) clone() *MulticlassMetrics {
	out := *m
	out.Classes = append([]string(nil), m.Classes...)
	if m.ConfusionMatrix != nil {
		out.ConfusionMatrix = make([][]int, len(m.ConfusionMatrix))
		for i, row := range m.ConfusionMatrix {
			out.ConfusionMatrix[i] = append([]int(nil), row...)
		}
	}
	if m.PerClass != nil {
		out.PerClass = make(map[string]ClassMetrics, len(m.PerClass))
		for k, v := range m.PerClass {
			out.PerClass[k] = v
		}
	}
	if m.Gains != nil {
		out.Gains = make(map[string][]CurvePoint, len(m.Gains))
		for k, v := range m.Gains {
			out.Gains[k] = append([]CurvePoint(nil), v...)
		}
	}
	return &out
}
