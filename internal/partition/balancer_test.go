package partition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclass/domain/core"
	"tabclass/internal/testkit"
)

func TestBalance_EqualisesGroups(t *testing.T) {
	table := testkit.LabelledTextRows([]testkit.LabelCount{
		{Label: "ham", Count: 90},
		{Label: "spam", Count: 10},
	})
	label, err := table.Label("Label")
	require.NoError(t, err)

	out, err := Balance(table.Rows, label, 0)
	require.NoError(t, err)
	require.Len(t, out, 180)

	counts := GroupCounts(out, label)
	assert.Equal(t, 90, counts["ham"])
	assert.Equal(t, 90, counts["spam"])

	// Groups in first-appearance order, minority repeated cyclically
	assert.Equal(t, "ham", label.Of(out[0]).String())
	assert.Equal(t, "spam", label.Of(out[90]).String())
	assert.Equal(t, out[90][1], out[100][1])
	assert.Equal(t, "spam message 9", out[99][1].String())
}

func TestBalance_Idempotent(t *testing.T) {
	table := testkit.LabelledTextRows([]testkit.LabelCount{
		{Label: "a", Count: 7},
		{Label: "b", Count: 3},
		{Label: "c", Count: 5},
	})
	label, err := table.Label("Label")
	require.NoError(t, err)

	once, err := Balance(table.Rows, label, 0)
	require.NoError(t, err)
	twice, err := Balance(once, label, 0)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 21)
}

func TestBalance_Limit(t *testing.T) {
	table := testkit.LabelledTextRows([]testkit.LabelCount{
		{Label: "a", Count: 50},
		{Label: "b", Count: 1},
	})
	label, err := table.Label("Label")
	require.NoError(t, err)

	_, err = Balance(table.Rows, label, 99)
	assert.True(t, errors.Is(err, core.ErrBalanceLimitExceeded))

	out, err := Balance(table.Rows, label, 100)
	require.NoError(t, err)
	assert.Len(t, out, 100)
}

func TestBalance_EmptyAndSingleGroup(t *testing.T) {
	table := testkit.LabelledTextRows([]testkit.LabelCount{{Label: "only", Count: 4}})
	label, err := table.Label("Label")
	require.NoError(t, err)

	out, err := Balance(nil, label, 0)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = Balance(table.Rows, label, 0)
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestFilters(t *testing.T) {
	table := testkit.LabelledTextRows([]testkit.LabelCount{
		{Label: "ham", Count: 3},
		{Label: "spam", Count: 2},
		{Label: "  ", Count: 2},
	})
	label, err := table.Label("Label")
	require.NoError(t, err)
	text, err := table.Label("Text")
	require.NoError(t, err)

	rows := DropIncomplete(table.Rows, label, &text)
	assert.Len(t, rows, 5)

	kept := FilterLabels(rows, label, []string{"spam "})
	assert.Len(t, kept, 2)
	assert.Len(t, FilterLabels(rows, label, nil), 5)
}
