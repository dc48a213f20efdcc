package characterize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclass/domain/dataset"
	"tabclass/internal/testkit"
)

func TestProfile(t *testing.T) {
	table := testkit.MustTable(
		[]dataset.Column{
			{Name: "Glucose", Kind: dataset.KindFloat},
			{Name: "Outcome", Kind: dataset.KindInteger},
			{Name: "Note", Kind: dataset.KindText},
		},
		[]dataset.Row{
			{dataset.Float(-1), dataset.Int(0), dataset.Text("ok")},
			{dataset.Float(0), dataset.Int(1), dataset.Text("call 911!")},
			{dataset.Float(4), dataset.Int(1), dataset.Null()},
			{dataset.Null(), dataset.Int(0), dataset.Text("ok")},
		},
	)

	profiles := Profile(table)
	require.Len(t, profiles, 3)

	glucose := profiles[0]
	assert.Equal(t, 4, glucose.Count)
	assert.Equal(t, 1, glucose.Missing)
	assert.InDelta(t, 0.75, glucose.Completeness, 1e-12)
	assert.Equal(t, 3, glucose.Distinct)
	require.NotNil(t, glucose.Numeric)
	assert.Equal(t, -1.0, glucose.Numeric.Min)
	assert.Equal(t, 4.0, glucose.Numeric.Max)
	assert.InDelta(t, 1.0, glucose.Numeric.Mean, 1e-12)
	assert.Equal(t, 1, glucose.Numeric.ZeroCount)
	assert.Equal(t, 1, glucose.Numeric.NegativeCount)
	assert.False(t, glucose.BinaryEligible)
	assert.Nil(t, glucose.Text)

	outcome := profiles[1]
	assert.True(t, outcome.BinaryEligible)
	assert.Equal(t, 2, outcome.Distinct)

	note := profiles[2]
	require.NotNil(t, note.Categorical)
	assert.Equal(t, "ok", note.Categorical.Mode)
	assert.Equal(t, 2, note.Categorical.ModeFrequency)
	require.NotNil(t, note.Text)
	assert.True(t, note.Text.HasNumbers)
	assert.True(t, note.Text.HasSpecialChars)
	assert.InDelta(t, 13.0/3.0, note.Text.AvgLength, 1e-12)
	assert.Nil(t, note.Numeric)
}

func TestProfile_AllNull(t *testing.T) {
	table := testkit.MustTable(
		[]dataset.Column{{Name: "x", Kind: dataset.KindFloat}},
		[]dataset.Row{{dataset.Null()}, {dataset.Null()}},
	)
	p := Profile(table)[0]
	assert.Equal(t, 0.0, p.Completeness)
	assert.Nil(t, p.Numeric)
}
