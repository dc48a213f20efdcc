package evaluation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/domain/dataset"
	"tabclass/internal/testkit"
)

func TestExtract_ScoreSources(t *testing.T) {
	tests := []struct {
		name   string
		output classification.ModelOutput
		score  float64
		source classification.ScoreSource
	}{
		{
			name:   "probability wins over score",
			output: classification.ModelOutput{Probability: testkit.Float(0.8), Score: testkit.Float(2.1)},
			score:  0.8,
			source: classification.SourceProbability,
		},
		{
			name:   "raw score",
			output: classification.ModelOutput{Score: testkit.Float(-1.5)},
			score:  -1.5,
			source: classification.SourceRawScore,
		},
		{
			name:   "max class score",
			output: classification.ModelOutput{ClassScores: []float64{0.2, 0.7, 0.1}},
			score:  0.7,
			source: classification.SourceMaxClassScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.output.TrueLabel = dataset.Text("spam")
			ext, err := Extract([]classification.ModelOutput{tt.output})
			require.NoError(t, err)
			assert.Equal(t, tt.source, ext.Source)
			assert.Equal(t, []float64{tt.score}, ext.Scores)
			assert.Equal(t, []string{"spam"}, ext.Labels)
			assert.Nil(t, ext.Predicted)
		})
	}
}

func TestExtract_NoScore(t *testing.T) {
	_, err := Extract([]classification.ModelOutput{{TrueLabel: dataset.Int(1)}})
	assert.True(t, errors.Is(err, core.ErrNoScores))
}

func TestExtract_MixedSources(t *testing.T) {
	_, err := Extract([]classification.ModelOutput{
		{TrueLabel: dataset.Int(1), Probability: testkit.Float(0.9)},
		{TrueLabel: dataset.Int(0), Score: testkit.Float(-2.4)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMixedScores))
	assert.True(t, core.IsInputError(err))

	_, err = ScoredRows([]classification.ModelOutput{
		{TrueLabel: dataset.Int(1), Score: testkit.Float(1.2)},
		{TrueLabel: dataset.Int(0), ClassScores: []float64{0.3, 0.7}},
	})
	assert.True(t, errors.Is(err, core.ErrMixedScores))
}

func TestExtract_KeepsPredictedLabels(t *testing.T) {
	ext, err := Extract([]classification.ModelOutput{
		{TrueLabel: dataset.Text("a"), ClassScores: []float64{0.9, 0.1}, PredictedLabel: "a"},
		{TrueLabel: dataset.Text("b"), ClassScores: []float64{0.6, 0.4}, PredictedLabel: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a"}, ext.Predicted)
	assert.Equal(t, 2, ext.Len())
}

func TestScoredRows(t *testing.T) {
	rows, err := ScoredRows([]classification.ModelOutput{
		{TrueLabel: dataset.Int(1), Probability: testkit.Float(0.9)},
		{TrueLabel: dataset.Bool(false), Probability: testkit.Float(0.2)},
		{TrueLabel: dataset.Text(" 1"), Score: testkit.Float(1.3)},
	})
	require.NoError(t, err)
	assert.Equal(t, []classification.ScoredRow{
		{Score: 0.9, Label: true},
		{Score: 0.2, Label: false},
		{Score: 1.3, Label: true},
	}, rows)

	_, err = ScoredRows([]classification.ModelOutput{{TrueLabel: dataset.Text("maybe"), Score: testkit.Float(1)}})
	assert.True(t, errors.Is(err, core.ErrInvalidLabel))
}

func TestPair(t *testing.T) {
	rows, err := Pair([]float64{0.1, 0.9}, []bool{false, true})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = Pair([]float64{0.1}, []bool{false, true})
	assert.True(t, errors.Is(err, core.ErrLengthMismatch))
}

func TestDefaultCutoff(t *testing.T) {
	assert.Equal(t, 0.0, DefaultCutoff(classification.SourceRawScore))
	assert.Equal(t, 0.5, DefaultCutoff(classification.SourceProbability))
	assert.Equal(t, 0.5, DefaultCutoff(classification.SourceMaxClassScore))
}

func TestROC_AUC(t *testing.T) {
	perfect := []classification.ScoredRow{
		{Score: 0.1}, {Score: 0.2}, {Score: 0.8, Label: true}, {Score: 0.9, Label: true},
	}
	points, auc := ROC(perfect)
	assert.InDelta(t, 1.0, auc, 1e-12)
	require.NotEmpty(t, points)
	assert.Equal(t, 0.0, points[0].X)
	assert.Equal(t, 0.0, points[0].Y)
	assert.Equal(t, 1.0, points[len(points)-1].X)
	assert.Equal(t, 1.0, points[len(points)-1].Y)

	inverted := []classification.ScoredRow{
		{Score: 0.9}, {Score: 0.8}, {Score: 0.2, Label: true}, {Score: 0.1, Label: true},
	}
	_, auc = ROC(inverted)
	assert.InDelta(t, 0.0, auc, 1e-12)

	// One mis-ordered pair out of four
	mixed := []classification.ScoredRow{
		{Score: 0.1}, {Score: 0.6}, {Score: 0.5, Label: true}, {Score: 0.9, Label: true},
	}
	_, auc = ROC(mixed)
	assert.InDelta(t, 0.75, auc, 1e-12)
}

func TestROC_SingleClass(t *testing.T) {
	points, auc := ROC([]classification.ScoredRow{{Score: 0.4}, {Score: 0.6}})
	assert.Nil(t, points)
	assert.Equal(t, 0.0, auc)

	points, auc = ROC(nil)
	assert.Nil(t, points)
	assert.Equal(t, 0.0, auc)
}

func TestGains(t *testing.T) {
	scores := []float64{0.9, 0.1, 0.8, 0.3}
	positive := []bool{true, false, true, false}

	points := Gains(scores, positive)
	require.Len(t, points, 5)
	assert.Equal(t, classification.CurvePoint{}, points[0])
	assert.Equal(t, 0.25, points[1].X)
	assert.Equal(t, 0.5, points[1].Y)
	assert.Equal(t, 0.5, points[2].X)
	assert.Equal(t, 1.0, points[2].Y)
	assert.Equal(t, 1.0, points[4].X)
	assert.Equal(t, 1.0, points[4].Y)

	assert.Nil(t, Gains(scores, []bool{false, false, false, false}))
}

func TestDecimate(t *testing.T) {
	points := make([]classification.CurvePoint, 100)
	for i := range points {
		points[i] = classification.CurvePoint{X: float64(i)}
	}

	out := Decimate(points, MaxMarkers)
	require.Len(t, out, MaxMarkers)
	assert.Equal(t, 0.0, out[0].X)
	assert.Equal(t, 99.0, out[len(out)-1].X)
	for i := 1; i < len(out); i++ {
		assert.Greater(t, out[i].X, out[i-1].X)
	}

	assert.Len(t, Decimate(points[:10], MaxMarkers), 10)
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Count)
	assert.Equal(t, 3.0, summary.Mean)
	assert.Equal(t, 3.0, summary.Median)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 5.0, summary.Max)
	assert.InDelta(t, 1.4142, summary.StdDev, 1e-4)
	assert.LessOrEqual(t, summary.Q25, summary.Median)
	assert.GreaterOrEqual(t, summary.Q75, summary.Median)

	empty, err := Summarize(nil)
	require.NoError(t, err)
	assert.Equal(t, classification.ScoreSummary{}, empty)
}

func TestBinary_Metrics(t *testing.T) {
	rows := testkit.ThresholdScenario()

	m, err := Binary(rows, 0.37)
	require.NoError(t, err)
	assert.Equal(t, classification.ConfusionCounts{TP: 8, FP: 1, TN: 10, FN: 1}, m.Confusion)
	assert.InDelta(t, 0.9, m.Accuracy, 1e-12)
	assert.InDelta(t, 8.0/9.0, m.PositivePrecision, 1e-12)
	assert.InDelta(t, 8.0/9.0, m.PositiveRecall, 1e-12)
	assert.InDelta(t, 10.0/11.0, m.NegativePrecision, 1e-12)
	assert.InDelta(t, 10.0/11.0, m.NegativeRecall, 1e-12)
	assert.InDelta(t, 16.0/18.0, m.F1, 1e-12)
	assert.Greater(t, m.AUC, 0.5)
	assert.LessOrEqual(t, len(m.ROC), MaxMarkers)
	assert.Equal(t, 20, m.Scores.Count)
}

func TestBinary_Degenerate(t *testing.T) {
	m, err := Binary([]classification.ScoredRow{{Score: 0.2}, {Score: 0.7}}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.PositivePrecision)
	assert.Equal(t, 0.0, m.PositiveRecall)
	assert.Equal(t, 0.0, m.F1)
	assert.Equal(t, 0.5, m.Accuracy)
	assert.Equal(t, 0.0, m.AUC)
}

func TestMulticlass(t *testing.T) {
	outputs := []classification.ModelOutput{
		{TrueLabel: dataset.Text("ham"), ClassScores: []float64{0.8, 0.1, 0.1}},
		{TrueLabel: dataset.Text("ham"), ClassScores: []float64{0.6, 0.3, 0.1}},
		{TrueLabel: dataset.Text("spam"), ClassScores: []float64{0.2, 0.7, 0.1}},
		{TrueLabel: dataset.Text("spam"), ClassScores: []float64{0.5, 0.4, 0.1}},
		{TrueLabel: dataset.Text("promo"), ClassScores: []float64{0.1, 0.2, 0.7}},
	}
	classes := []string{"ham", "spam", "promo"}

	m, err := Multiclass(outputs, classes)
	require.NoError(t, err)
	assert.Equal(t, classes, m.Classes)
	assert.Equal(t, [][]int{{2, 0, 0}, {1, 1, 0}, {0, 0, 1}}, m.ConfusionMatrix)
	assert.InDelta(t, 0.8, m.Accuracy, 1e-12)

	ham := m.PerClass["ham"]
	assert.InDelta(t, 2.0/3.0, ham.Precision, 1e-12)
	assert.InDelta(t, 1.0, ham.Recall, 1e-12)
	assert.Equal(t, 2, ham.Support)

	spam := m.PerClass["spam"]
	assert.InDelta(t, 1.0, spam.Precision, 1e-12)
	assert.InDelta(t, 0.5, spam.Recall, 1e-12)

	assert.InDelta(t, (2.0/3.0+1+1)/3, m.MacroPrecision, 1e-12)
	assert.InDelta(t, (1+0.5+1)/3.0, m.MacroRecall, 1e-12)
	assert.Len(t, m.Gains, 3)
	assert.Equal(t, 5, m.Scores.Count)
}

func TestMulticlass_PredictedLabelsWithoutClasses(t *testing.T) {
	outputs := []classification.ModelOutput{
		{TrueLabel: dataset.Text("b"), Probability: testkit.Float(0.9), PredictedLabel: "b"},
		{TrueLabel: dataset.Text("a"), Probability: testkit.Float(0.6), PredictedLabel: "b"},
	}

	m, err := Multiclass(outputs, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.Classes)
	assert.Equal(t, [][]int{{0, 1}, {0, 1}}, m.ConfusionMatrix)
	assert.Empty(t, m.Gains)

	_, err = Multiclass([]classification.ModelOutput{
		{TrueLabel: dataset.Text("a"), ClassScores: []float64{0.4, 0.6}},
	}, nil)
	assert.True(t, errors.Is(err, core.ErrNoScores))
}
