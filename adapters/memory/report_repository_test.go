package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclass/domain/classification"
	"tabclass/domain/core"
)

func TestReportRepository(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()

	first := &classification.PipelineReport{ID: core.NewRunID(), Source: "a.csv"}
	second := &classification.PipelineReport{ID: core.NewRunID(), Source: "b.csv"}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", got.Source)

	_, err = repo.Get(ctx, core.NewRunID())
	assert.True(t, core.IsNotFoundError(err))

	list, err := repo.List(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestReportRepository_SaveCopies(t *testing.T) {
	repo := NewReportRepository()
	report := &classification.PipelineReport{ID: core.NewRunID(), Label: "Outcome"}
	require.NoError(t, repo.Save(context.Background(), report))

	report.Label = "changed"
	got, err := repo.Get(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, "Outcome", got.Label)

	list, err := repo.List(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReportRepository_ListNegativeOffset(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, &classification.PipelineReport{ID: core.NewRunID()}))
	}

	list, err := repo.List(ctx, 20, -1)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = repo.List(ctx, 2, -5)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestReportRepository_SaveCopiesMetrics(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()
	report := &classification.PipelineReport{
		ID:        core.NewRunID(),
		Weights:   &classification.ClassWeights{True: 2, False: 0.5},
		Threshold: &classification.ThresholdResult{Threshold: 0.37, F1: 0.8},
		Binary: &classification.BinaryMetrics{
			F1:  0.75,
			ROC: []classification.CurvePoint{{X: 0, Y: 0}, {X: 1, Y: 1}},
		},
		Multiclass: &classification.MulticlassMetrics{
			Classes:         []string{"ham", "spam"},
			ConfusionMatrix: [][]int{{3, 1}, {0, 4}},
			PerClass:        map[string]classification.ClassMetrics{"ham": {Support: 4}},
		},
	}
	require.NoError(t, repo.Save(ctx, report))

	report.Weights.True = 9
	report.Threshold.Threshold = 0.99
	report.Binary.ROC[1].Y = 0.1
	report.Multiclass.ConfusionMatrix[0][0] = 42
	report.Multiclass.PerClass["ham"] = classification.ClassMetrics{Support: 99}

	got, err := repo.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Weights.True)
	assert.Equal(t, 0.37, got.Threshold.Threshold)
	assert.Equal(t, 1.0, got.Binary.ROC[1].Y)
	assert.Equal(t, 3, got.Multiclass.ConfusionMatrix[0][0])
	assert.Equal(t, 4, got.Multiclass.PerClass["ham"].Support)

	got.Threshold.F1 = 0
	again, err := repo.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.8, again.Threshold.F1)
}
