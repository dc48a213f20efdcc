package classification

import (
	"fmt"
	"strings"

	"tabclass/domain/core"
)

// Suitability is the outcome of characterizing a table
type Suitability string

const (
	BinarySuitable   Suitability = "binary"
	CategorySuitable Suitability = "category"
	Unsuitable       Suitability = "unsuitable"
)

// Describe returns the human-readable verdict shown to users
func (s Suitability) Describe() string {
	switch s {
	case BinarySuitable:
		return "The dataset is suitable for binary classification"
	case CategorySuitable:
		return "The dataset is suitable for textual classification"
	default:
		return "The dataset is not suitable for processing"
	}
}

// Task returns the classification task implied by the verdict
func (s Suitability) Task() TaskKind {
	switch s {
	case BinarySuitable:
		return TaskBinary
	case CategorySuitable:
		return TaskTextual
	}
	return TaskNone
}

// TaskKind selects the preparation path
type TaskKind string

const (
	TaskBinary  TaskKind = "binary"
	TaskTextual TaskKind = "textual"
	TaskNone    TaskKind = ""
)

// Algorithm names a downstream trainer whose preparation variant is used
type Algorithm string

const (
	AlgorithmNone               Algorithm = ""
	AlgorithmLogisticRegression Algorithm = "logistic_regression"
	AlgorithmAveragedPerceptron Algorithm = "averaged_perceptron"
	AlgorithmNaiveBayes         Algorithm = "naive_bayes"
	AlgorithmFastForest         Algorithm = "fast_forest"
)

// ParseAlgorithm normalises user input ("Logistic Regression", "fast-forest", ...)
func ParseAlgorithm(s string) (Algorithm, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch Algorithm(norm) {
	case AlgorithmNone, AlgorithmLogisticRegression, AlgorithmAveragedPerceptron,
		AlgorithmNaiveBayes, AlgorithmFastForest:
		return Algorithm(norm), nil
	}
	return AlgorithmNone, fmt.Errorf("%w: %q", core.ErrUnknownAlgorithm, s)
}

// Task returns the task an algorithm trains for
func (a Algorithm) Task() TaskKind {
	switch a {
	case AlgorithmLogisticRegression, AlgorithmAveragedPerceptron:
		return TaskBinary
	case AlgorithmNaiveBayes, AlgorithmFastForest:
		return TaskTextual
	}
	return TaskNone
}

// UsesInstanceWeights reports whether the algorithm's preparation attaches class weights
func (a Algorithm) UsesInstanceWeights() bool {
	return a == AlgorithmLogisticRegression
}

// HasProbability reports whether the trained model emits calibrated probabilities
func (a Algorithm) HasProbability() bool {
	return a != AlgorithmAveragedPerceptron
}

// ScoredRow pairs a model score (or probability) with the true binary label
type ScoredRow struct {
	Score float64 `json:"score"`
	Label bool    `json:"label"`
}

// ThresholdResult is the outcome of the F1 grid search
type ThresholdResult struct {
	Threshold float64 `json:"threshold"`
	F1        float64 `json:"f1"`
	// Degenerate is set when the validation rows hold a single class
	Degenerate bool `json:"degenerate"`
	Candidates int  `json:"candidates"`
}

// ClassWeights are the per-class instance weights for binary training
type ClassWeights struct {
	True       float64 `json:"weight_true"`
	False      float64 `json:"weight_false"`
	CountTrue  int     `json:"count_true"`
	CountFalse int     `json:"count_false"`
}

// For returns the weight for a label
func (w ClassWeights) For(label bool) float64 {
	if label {
		return w.True
	}
	return w.False
}
