package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/internal"
	"tabclass/internal/config"
	"tabclass/internal/partition"
	"tabclass/internal/testkit"
)

func newPreparationService(loader *MockTableLoader) *PreparationService {
	svc := NewPreparationService(nil, config.Default().Pipeline, internal.NewLogger(internal.LogLevelError))
	if loader != nil {
		svc.loader = loader
	}
	return svc
}

func TestCharacterize_FromLoader(t *testing.T) {
	loader := &MockTableLoader{}
	table := testkit.NewGenerator(testkit.DefaultBinaryConfig()).Binary()
	loader.On("Load", mock.Anything, "diabetes.csv").Return(table, nil)

	result, err := newPreparationService(loader).Characterize(context.Background(), PrepareRequest{Path: "diabetes.csv"})
	require.NoError(t, err)
	assert.Equal(t, classification.BinarySuitable, result.Suitability)
	require.NotNil(t, result.Label)
	assert.Equal(t, "Outcome", result.Label.Name)
	assert.Equal(t, 200, result.Rows)
	assert.Equal(t, "diabetes.csv", result.Source)
	require.Len(t, result.Profiles, 4)
	assert.True(t, result.Profiles[3].BinaryEligible)
	loader.AssertExpectations(t)
}

func TestCharacterize_LoaderError(t *testing.T) {
	loader := &MockTableLoader{}
	loader.On("Load", mock.Anything, "missing.csv").Return(nil, core.ErrEmptyOrMalformedTable)

	_, err := newPreparationService(loader).Characterize(context.Background(), PrepareRequest{Path: "missing.csv"})
	assert.True(t, errors.Is(err, core.ErrEmptyOrMalformedTable))
}

func TestPrepare_BinaryWeighted(t *testing.T) {
	table := testkit.NewGenerator(testkit.DefaultBinaryConfig()).Binary()

	prepared, err := newPreparationService(nil).Prepare(context.Background(), PrepareRequest{
		Table:      table,
		Algorithm:  "Logistic Regression",
		Validation: true,
	})
	require.NoError(t, err)

	assert.Equal(t, classification.TaskBinary, prepared.Task)
	assert.Equal(t, classification.AlgorithmLogisticRegression, prepared.Algorithm)
	assert.Equal(t, "Outcome", prepared.Label.Name)
	assert.Equal(t, []string{"F0", "F1", "F2"}, prepared.Features)
	assert.Equal(t, 200, prepared.Split.Total())
	assert.True(t, prepared.Split.HasValidation())
	assert.NotEmpty(t, prepared.RunID)
	assert.Equal(t, table.Fingerprint(), prepared.Fingerprint)

	require.NotNil(t, prepared.Weights)
	require.Len(t, prepared.TrainWeights, len(prepared.Split.Train))
	w := prepared.Weights
	assert.InDelta(t, float64(w.CountTrue)*w.True, float64(w.CountFalse)*w.False, 1e-9)
	assert.NotNil(t, prepared.Standardizer)

	set := prepared.TrainingSet()
	assert.Equal(t, prepared.Split.Train, set.Rows)
	assert.Equal(t, prepared.TrainWeights, set.Weights)
}

func TestPrepare_BinaryUnweightedVariants(t *testing.T) {
	table := testkit.NewGenerator(testkit.DefaultBinaryConfig()).Binary()
	svc := newPreparationService(nil)

	for _, algorithm := range []string{"averaged_perceptron", ""} {
		prepared, err := svc.Prepare(context.Background(), PrepareRequest{Table: table, Algorithm: algorithm})
		require.NoError(t, err, algorithm)
		assert.Equal(t, classification.TaskBinary, prepared.Task)
		assert.Nil(t, prepared.Weights)
		assert.Nil(t, prepared.TrainWeights)
		assert.False(t, prepared.Split.HasValidation())
		assert.Equal(t, 40, len(prepared.Split.Test))
	}
}

func TestPrepare_TextualNeedsAlgorithm(t *testing.T) {
	table := testkit.NewGenerator(testkit.DefaultTextualConfig()).Textual()

	_, err := newPreparationService(nil).Prepare(context.Background(), PrepareRequest{Table: table})
	assert.True(t, errors.Is(err, core.ErrNoAlgorithmSelected))
}

func TestPrepare_TextualBalanced(t *testing.T) {
	table := testkit.NewGenerator(testkit.DefaultTextualConfig()).Textual()

	prepared, err := newPreparationService(nil).Prepare(context.Background(), PrepareRequest{
		Table:     table,
		Algorithm: "naive-bayes",
	})
	require.NoError(t, err)
	assert.Equal(t, classification.TaskTextual, prepared.Task)
	assert.Equal(t, "Category", prepared.Label.Name)
	require.NotNil(t, prepared.Text)
	assert.Equal(t, "Message", prepared.Text.Name)

	counts := partition.GroupCounts(prepared.Split.Train, prepared.Label)
	require.Len(t, counts, 3)
	first := counts["ham"]
	for class, n := range counts {
		assert.Equal(t, first, n, class)
	}
	assert.Equal(t, []string{"ham", "promo", "spam"}, prepared.Classes())
}

func TestPrepare_TextualLabelFilter(t *testing.T) {
	table := testkit.NewGenerator(testkit.DefaultTextualConfig()).Textual()

	prepared, err := newPreparationService(nil).Prepare(context.Background(), PrepareRequest{
		Table:        table,
		Algorithm:    "fast_forest",
		LabelsToKeep: []string{"spam", "promo"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"promo", "spam"}, prepared.Classes())
	for _, row := range prepared.Split.Test {
		assert.NotEqual(t, "ham", prepared.Label.Of(row).String())
	}
}

func TestPrepare_Unsuitable(t *testing.T) {
	table := testkit.IntColumn("Grade", []int64{5, 6, 7, 8})

	_, err := newPreparationService(nil).Prepare(context.Background(), PrepareRequest{Table: table})
	assert.True(t, errors.Is(err, core.ErrLabelNotFound))
}

func TestPrepare_InvalidInput(t *testing.T) {
	table := testkit.NewGenerator(testkit.DefaultBinaryConfig()).Binary()
	svc := newPreparationService(nil)

	_, err := svc.Prepare(context.Background(), PrepareRequest{Table: table, Algorithm: "gradient boosting"})
	assert.True(t, errors.Is(err, core.ErrUnknownAlgorithm))

	_, err = svc.Prepare(context.Background(), PrepareRequest{Table: table, FeatureCount: 5})
	assert.True(t, errors.Is(err, core.ErrEmptyOrMalformedTable))

	_, err = svc.Prepare(context.Background(), PrepareRequest{Table: table, FeatureCount: 3})
	assert.NoError(t, err)

	_, err = svc.Prepare(context.Background(), PrepareRequest{})
	assert.True(t, errors.Is(err, core.ErrEmptyOrMalformedTable))
}

func TestPrepareGeneric_LastColumnFallback(t *testing.T) {
	table := testkit.IntColumn("Grade", []int64{5, 6, 7, 8, 9, 10})

	prepared, err := newPreparationService(nil).PrepareGeneric(context.Background(), PrepareRequest{Table: table})
	require.NoError(t, err)
	assert.True(t, prepared.Generic)
	assert.Equal(t, classification.Unsuitable, prepared.Suitability)
	assert.Equal(t, "Grade", prepared.Label.Name)
	assert.Equal(t, 1, prepared.Label.Index)
	assert.Equal(t, 6, prepared.Split.Total())
	assert.Equal(t, []string{"F0"}, prepared.Features)
}
