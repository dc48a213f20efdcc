package classification

import "tabclass/domain/dataset"

// ModelOutput is one scored row as produced by an external model. Exactly
// which score fields are set depends on the model: calibrated binary models
// set Probability, uncalibrated ones set Score only, multiclass models set
// ClassScores.
type ModelOutput struct {
	TrueLabel      dataset.Value `json:"-"`
	Probability    *float64      `json:"probability,omitempty"`
	Score          *float64      `json:"score,omitempty"`
	ClassScores    []float64     `json:"class_scores,omitempty"`
	PredictedLabel string        `json:"predicted_label,omitempty"`
}

// ScoreSource records which output field the scores were taken from
type ScoreSource string

const (
	SourceProbability   ScoreSource = "probability"
	SourceRawScore      ScoreSource = "score"
	SourceMaxClassScore ScoreSource = "max_class_score"
)

// Extraction holds parallel score and label sequences
type Extraction struct {
	Source    ScoreSource `json:"source"`
	Scores    []float64   `json:"scores"`
	Labels    []string    `json:"labels"`
	Predicted []string    `json:"predicted,omitempty"`
}

// Len returns the number of extracted rows
func (e Extraction) Len() int { return len(e.Scores) }
