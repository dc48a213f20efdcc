package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/domain/dataset"
)

func binaryReport() *classification.PipelineReport {
	return &classification.PipelineReport{
		ID:          core.RunID("run-1"),
		Source:      "diabetes.csv",
		Fingerprint: core.NewHash([]byte("diabetes")),
		Suitability: classification.BinarySuitable,
		Algorithm:   classification.AlgorithmLogisticRegression,
		Label:       "Outcome",
		Counts:      dataset.SplitCounts{Train: 70, Validation: 15, Test: 15},
		Weights:     &classification.ClassWeights{True: 5, False: 0.5556, CountTrue: 9, CountFalse: 81},
		Threshold:   &classification.ThresholdResult{Threshold: 0.37, F1: 16.0 / 18.0, Candidates: 99},
		Binary: &classification.BinaryMetrics{
			Threshold: 0.37,
			Confusion: classification.ConfusionCounts{TP: 8, FP: 1, TN: 10, FN: 1},
			Accuracy:  0.9,
			AUC:       0.93,
			Scores:    classification.ScoreSummary{Count: 20, Mean: 0.4},
		},
		CreatedAt: core.NewTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func TestMarkdown_Binary(t *testing.T) {
	md, err := Markdown(binaryReport())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Classification run run-1"))
	assert.Contains(t, md, "| Label | Outcome |")
	assert.Contains(t, md, "| 70 | 15 | 15 |")
	assert.Contains(t, md, "| true | 9 | 5.0000 |")
	assert.Contains(t, md, "Selected **0.3700**")
	assert.Contains(t, md, "| Actual true | 8 | 1 |")
	assert.Contains(t, md, "| AUC | 0.9300 |")
	assert.Contains(t, md, "### Score distribution")
	assert.Contains(t, md, "2024-03-01 12:00:00 UTC")
	assert.NotContains(t, md, "Multiclass")
	assert.NotContains(t, md, "single class")
}

func TestMarkdown_DegenerateAndMulticlass(t *testing.T) {
	r := &classification.PipelineReport{
		ID:          core.RunID("run-2"),
		Suitability: classification.CategorySuitable,
		Algorithm:   classification.AlgorithmNaiveBayes,
		Label:       "Label",
		Threshold:   &classification.ThresholdResult{Threshold: 0.5, Degenerate: true, Candidates: 99},
		Multiclass: &classification.MulticlassMetrics{
			Classes:         []string{"ham", "spam"},
			ConfusionMatrix: [][]int{{5, 1}, {0, 4}},
			Accuracy:        0.9,
			PerClass: map[string]classification.ClassMetrics{
				"ham":  {Precision: 1, Recall: 5.0 / 6.0, Support: 6},
				"spam": {Precision: 0.8, Recall: 1, Support: 4},
			},
		},
	}

	md, err := Markdown(r)
	require.NoError(t, err)
	assert.Contains(t, md, "single class")
	assert.Contains(t, md, "| Source | - |")
	assert.Contains(t, md, "| ham | 1.0000 | 0.8333 |")
	assert.Contains(t, md, "| Actual \\ Predicted | ham | spam |")
	assert.Contains(t, md, "| spam | 0 | 4 |")
	assert.NotContains(t, md, "Score distribution")
	assert.NotContains(t, md, "Binary metrics")
}

func TestHTML(t *testing.T) {
	page, err := HTML(binaryReport())
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<title>Classification run run-1</title>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<strong>0.3700</strong>")
}

func TestMarkdown_Nil(t *testing.T) {
	_, err := Markdown(nil)
	assert.Error(t, err)
}
