// Package testkit provides fixtures shared by package tests: typed table
// builders, seeded synthetic datasets, a deterministic reference trainer and
// an in-memory report store.
package testkit

import (
	"fmt"

	"tabclass/domain/classification"
	"tabclass/domain/dataset"
)

// MustTable builds a table or panics; for test fixtures only
func MustTable(columns []dataset.Column, rows []dataset.Row) *dataset.Table {
	table, err := dataset.NewTable(columns, rows)
	if err != nil {
		panic(fmt.Sprintf("testkit: invalid fixture table: %v", err))
	}
	return table
}

// IntColumn builds a single integer column table with an extra float feature
// column in front, so the label is not the first column.
func IntColumn(name string, values []int64) *dataset.Table {
	cols := []dataset.Column{
		{Name: "Feature", Kind: dataset.KindFloat},
		{Name: name, Kind: dataset.KindInteger},
	}
	rows := make([]dataset.Row, len(values))
	for i, v := range values {
		rows[i] = dataset.Row{dataset.Float(float64(i) * 1.5), dataset.Int(v)}
	}
	return MustTable(cols, rows)
}

// TextColumn builds a table with one text column and a float feature column
func TextColumn(name string, values []string) *dataset.Table {
	cols := []dataset.Column{
		{Name: "Score", Kind: dataset.KindFloat},
		{Name: name, Kind: dataset.KindText},
	}
	rows := make([]dataset.Row, len(values))
	for i, v := range values {
		rows[i] = dataset.Row{dataset.Float(float64(i)), dataset.Text(v)}
	}
	return MustTable(cols, rows)
}

// LabelledTextRows builds (Label, Text) rows with the given label counts,
// labels emitted in the order given.
func LabelledTextRows(counts []LabelCount) *dataset.Table {
	cols := []dataset.Column{
		{Name: "Label", Kind: dataset.KindText},
		{Name: "Text", Kind: dataset.KindText},
	}
	var rows []dataset.Row
	for _, lc := range counts {
		for i := 0; i < lc.Count; i++ {
			rows = append(rows, dataset.Row{
				dataset.Text(lc.Label),
				dataset.Text(fmt.Sprintf("%s message %d", lc.Label, i)),
			})
		}
	}
	return MustTable(cols, rows)
}

// LabelCount is a label and how many rows carry it
type LabelCount struct {
	Label string
	Count int
}

// BoolLabelRows builds rows with a float feature and a boolean label
func BoolLabelRows(trueCount, falseCount int) *dataset.Table {
	cols := []dataset.Column{
		{Name: "Feature", Kind: dataset.KindFloat},
		{Name: "Label", Kind: dataset.KindBoolean},
	}
	rows := make([]dataset.Row, 0, trueCount+falseCount)
	for i := 0; i < falseCount; i++ {
		rows = append(rows, dataset.Row{dataset.Float(float64(i)), dataset.Bool(false)})
	}
	for i := 0; i < trueCount; i++ {
		rows = append(rows, dataset.Row{dataset.Float(float64(i) + 100), dataset.Bool(true)})
	}
	return MustTable(cols, rows)
}

// ThresholdScenario returns 20 validation rows for which threshold 0.37
// uniquely maximises F1 (tp=8, fp=1, fn=1, F1=16/18).
func ThresholdScenario() []classification.ScoredRow {
	positives := []float64{0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.9, 0.37, 0.1}
	negatives := []float64{0.95, 0.365, 0.12, 0.15, 0.2, 0.22, 0.25, 0.28, 0.3, 0.32, 0.34}

	rows := make([]classification.ScoredRow, 0, len(positives)+len(negatives))
	for i := 0; i < len(positives) || i < len(negatives); i++ {
		if i < len(negatives) {
			rows = append(rows, classification.ScoredRow{Score: negatives[i], Label: false})
		}
		if i < len(positives) {
			rows = append(rows, classification.ScoredRow{Score: positives[i], Label: true})
		}
	}
	return rows
}

// Float returns a pointer to v, for ModelOutput fields
func Float(v float64) *float64 { return &v }
