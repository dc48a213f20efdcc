package characterize

import (
	"fmt"
	"testing"

	"tabclass/domain/classification"
	"tabclass/domain/dataset"
	"tabclass/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_OutcomeScenario(t *testing.T) {
	table := testkit.IntColumn("Outcome", []int64{0, 0, 0, 1, 1, 1, 1, 0, 0, 1})

	assert.Equal(t, classification.BinarySuitable, Classify(table))

	col, ok := FindBinaryColumn(table)
	require.True(t, ok)
	assert.Equal(t, "Outcome", col.Name)
	assert.Equal(t, 1, col.Index)
}

func TestClassify_EmptyTable(t *testing.T) {
	assert.Equal(t, classification.Unsuitable, Classify(nil))
	assert.Equal(t, classification.Unsuitable, Classify(&dataset.Table{}))

	noRows := testkit.MustTable([]dataset.Column{{Name: "a", Kind: dataset.KindInteger}}, nil)
	assert.Equal(t, classification.Unsuitable, Classify(noRows))
}

func TestClassify_BinaryValueKinds(t *testing.T) {
	tests := []struct {
		name   string
		kind   dataset.ColumnKind
		values []dataset.Value
		want   classification.Suitability
	}{
		{"booleans", dataset.KindBoolean, []dataset.Value{dataset.Bool(true), dataset.Bool(false), dataset.Bool(true)}, classification.BinarySuitable},
		{"text zero one", dataset.KindText, []dataset.Value{dataset.Text("0"), dataset.Text(" 1"), dataset.Text("0")}, classification.BinarySuitable},
		{"integers outside 0/1", dataset.KindInteger, []dataset.Value{dataset.Int(3), dataset.Int(7)}, classification.Unsuitable},
		{"floats", dataset.KindFloat, []dataset.Value{dataset.Float(0), dataset.Float(1)}, classification.Unsuitable},
		{"single value", dataset.KindInteger, []dataset.Value{dataset.Int(1), dataset.Int(1)}, classification.Unsuitable},
		{"three values", dataset.KindInteger, []dataset.Value{dataset.Int(0), dataset.Int(1), dataset.Int(1), dataset.Int(0), dataset.Int(2)}, classification.Unsuitable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]dataset.Row, len(tt.values))
			for i, v := range tt.values {
				rows[i] = dataset.Row{v}
			}
			table := testkit.MustTable([]dataset.Column{{Name: "c", Kind: tt.kind}}, rows)
			assert.Equal(t, tt.want, Classify(table))
		})
	}
}

func TestClassify_NullInBinaryColumnFallsThrough(t *testing.T) {
	cols := []dataset.Column{
		{Name: "Flag", Kind: dataset.KindInteger},
		{Name: "Category", Kind: dataset.KindText},
	}
	rows := []dataset.Row{
		{dataset.Int(0), dataset.Text("a")},
		{dataset.Int(1), dataset.Text("b")},
		{dataset.Null(), dataset.Text("a")},
	}
	table := testkit.MustTable(cols, rows)

	// The raw candidate search still reports the column
	col, ok := FindBinaryColumn(table)
	require.True(t, ok)
	assert.Equal(t, "Flag", col.Name)

	assert.Equal(t, classification.CategorySuitable, Classify(table))

	label, s, ok := FindLabelColumn(table)
	require.True(t, ok)
	assert.Equal(t, classification.CategorySuitable, s)
	assert.Equal(t, "Category", label.Name)
}

func TestClassify_NullInBinaryColumnWithoutTextIsUnsuitable(t *testing.T) {
	table := testkit.MustTable(
		[]dataset.Column{{Name: "Flag", Kind: dataset.KindBoolean}},
		[]dataset.Row{{dataset.Bool(true)}, {dataset.Bool(false)}, {dataset.Null()}},
	)
	assert.Equal(t, classification.Unsuitable, Classify(table))
}

func TestFindBinaryColumn_FirstQualifyingColumnWins(t *testing.T) {
	cols := []dataset.Column{
		{Name: "id", Kind: dataset.KindInteger},
		{Name: "first", Kind: dataset.KindBoolean},
		{Name: "second", Kind: dataset.KindInteger},
	}
	rows := []dataset.Row{
		{dataset.Int(10), dataset.Bool(true), dataset.Int(0)},
		{dataset.Int(11), dataset.Bool(false), dataset.Int(1)},
		{dataset.Int(12), dataset.Bool(true), dataset.Int(1)},
	}
	col, ok := FindBinaryColumn(testkit.MustTable(cols, rows))
	require.True(t, ok)
	assert.Equal(t, "first", col.Name)
}

func TestFindTextualColumn_CategoryScenario(t *testing.T) {
	table := testkit.TextColumn("Category", []string{"cat", "dog", "cat", "bird", "dog", "cat"})

	col, ok := FindTextualColumn(table)
	require.True(t, ok)
	assert.Equal(t, "Category", col.Name)
	assert.Equal(t, classification.CategorySuitable, Classify(table))
}

func TestFindTextualColumn_DistinctBounds(t *testing.T) {
	for k := 1; k <= 12; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			values := make([]string, 0, 2*k)
			for i := 0; i < 2*k; i++ {
				values = append(values, fmt.Sprintf("v%d", i%k))
			}
			_, ok := FindTextualColumn(testkit.TextColumn("T", values))
			assert.Equal(t, k > 1 && k <= 10, ok)
		})
	}
}

func TestFindTextualColumn_NullsAreNotCategories(t *testing.T) {
	table := testkit.MustTable(
		[]dataset.Column{{Name: "T", Kind: dataset.KindText}},
		[]dataset.Row{{dataset.Text("a")}, {dataset.Null()}, {dataset.Null()}},
	)
	_, ok := FindTextualColumn(table)
	assert.False(t, ok)
}

func TestFindHintedBinaryColumn(t *testing.T) {
	cols := []dataset.Column{
		{Name: "flag", Kind: dataset.KindInteger},
		{Name: "Target", Kind: dataset.KindBoolean},
		{Name: "label", Kind: dataset.KindText},
	}
	rows := []dataset.Row{
		{dataset.Int(0), dataset.Bool(true), dataset.Text("x")},
		{dataset.Int(1), dataset.Bool(false), dataset.Text("y")},
	}
	table := testkit.MustTable(cols, rows)

	// "label" is tried first but its values are not binary
	col, ok := FindHintedBinaryColumn(table, DefaultLabelHints)
	require.True(t, ok)
	assert.Equal(t, "Target", col.Name)

	_, ok = FindHintedBinaryColumn(table, []string{"y"})
	assert.False(t, ok)
}

func TestTextFeatureColumn(t *testing.T) {
	table := testkit.LabelledTextRows([]testkit.LabelCount{{Label: "ham", Count: 2}, {Label: "spam", Count: 1}})
	label, ok := FindTextualColumn(table)
	require.True(t, ok)
	assert.Equal(t, "Label", label.Name)

	feature, ok := TextFeatureColumn(table, label)
	require.True(t, ok)
	assert.Equal(t, "Text", feature.Name)
}
