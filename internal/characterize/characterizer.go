// Package characterize decides whether a table can drive a classification
// task and which column should be its label.
package characterize

import (
	"strings"

	"tabclass/domain/classification"
	"tabclass/domain/dataset"
)

const (
	binaryDistinct     = 2
	minTextualDistinct = 2
	maxTextualDistinct = 10
)

// DefaultLabelHints are header names tried before the value scan when
// preparing binary data.
var DefaultLabelHints = []string{"label", "outcome", "class", "target", "y"}

// Classify scans the table and returns its suitability. A binary candidate
// only wins when its column holds no nulls; otherwise the scan falls
// through to textual detection.
func Classify(table *dataset.Table) classification.Suitability {
	if table.IsEmpty() {
		return classification.Unsuitable
	}

	if bin, ok := FindBinaryColumn(table); ok && !ColumnContainsNulls(table, bin.Index) {
		return classification.BinarySuitable
	}

	if _, ok := FindTextualColumn(table); ok {
		return classification.CategorySuitable
	}

	return classification.Unsuitable
}

// FindBinaryColumn returns the first column, in column order, holding exactly
// two distinct non-null values that are all binary-compatible. Nulls are
// ignored here; Classify applies the null-free rule separately.
func FindBinaryColumn(table *dataset.Table) (dataset.LabelColumn, bool) {
	if table.IsEmpty() {
		return dataset.LabelColumn{}, false
	}

	for idx, col := range table.Columns {
		distinct := make(map[string]dataset.Value, binaryDistinct+1)
		for _, row := range table.Rows {
			v := row[idx]
			if !v.IsNull() {
				distinct[v.Key()] = v
			}
			if len(distinct) > binaryDistinct {
				break
			}
		}

		if len(distinct) == binaryDistinct && allBinary(distinct) {
			return dataset.LabelColumn{Name: col.Name, Index: idx, Kind: col.Kind}, true
		}
	}
	return dataset.LabelColumn{}, false
}

// FindTextualColumn returns the first text column holding more than one and
// at most ten distinct non-null strings.
func FindTextualColumn(table *dataset.Table) (dataset.LabelColumn, bool) {
	if table.IsEmpty() {
		return dataset.LabelColumn{}, false
	}

	for idx, col := range table.Columns {
		if col.Kind != dataset.KindText {
			continue
		}

		uniques := make(map[string]struct{}, maxTextualDistinct+1)
		for _, row := range table.Rows {
			if s, ok := row[idx].AsText(); ok {
				uniques[s] = struct{}{}
			}
			if len(uniques) > maxTextualDistinct {
				break
			}
		}

		if n := len(uniques); n >= minTextualDistinct && n <= maxTextualDistinct {
			return dataset.LabelColumn{Name: col.Name, Index: idx, Kind: col.Kind}, true
		}
	}
	return dataset.LabelColumn{}, false
}

// FindLabelColumn returns the label column matching the table's
// suitability: the null-free binary column, or the textual column.
func FindLabelColumn(table *dataset.Table) (dataset.LabelColumn, classification.Suitability, bool) {
	switch s := Classify(table); s {
	case classification.BinarySuitable:
		bin, _ := FindBinaryColumn(table)
		return bin, s, true
	case classification.CategorySuitable:
		txt, _ := FindTextualColumn(table)
		return txt, s, true
	default:
		return dataset.LabelColumn{}, s, false
	}
}

// FindHintedBinaryColumn looks for a header matching one of the hints
// (case-insensitive) whose values are binary-eligible and null-free. Hints
// are tried in order.
func FindHintedBinaryColumn(table *dataset.Table, hints []string) (dataset.LabelColumn, bool) {
	if table.IsEmpty() {
		return dataset.LabelColumn{}, false
	}

	for _, hint := range hints {
		for idx, col := range table.Columns {
			if !strings.EqualFold(strings.TrimSpace(col.Name), hint) {
				continue
			}
			if IsBinaryEligible(table, idx) && !ColumnContainsNulls(table, idx) {
				return dataset.LabelColumn{Name: col.Name, Index: idx, Kind: col.Kind}, true
			}
		}
	}
	return dataset.LabelColumn{}, false
}

// IsBinaryEligible reports whether a single column passes the binary scan
func IsBinaryEligible(table *dataset.Table, idx int) bool {
	sub := &dataset.Table{Columns: []dataset.Column{table.Columns[idx]}, Rows: make([]dataset.Row, len(table.Rows))}
	for i, row := range table.Rows {
		sub.Rows[i] = dataset.Row{row[idx]}
	}
	_, ok := FindBinaryColumn(sub)
	return ok
}

// ColumnContainsNulls reports whether any row holds null in the column
func ColumnContainsNulls(table *dataset.Table, idx int) bool {
	for _, row := range table.Rows {
		if row[idx].IsNull() {
			return true
		}
	}
	return false
}

// TextFeatureColumn returns the first text column other than the label,
// used as the free-text feature of a textual task.
func TextFeatureColumn(table *dataset.Table, label dataset.LabelColumn) (dataset.LabelColumn, bool) {
	for idx, col := range table.Columns {
		if idx == label.Index || col.Kind != dataset.KindText {
			continue
		}
		return dataset.LabelColumn{Name: col.Name, Index: idx, Kind: col.Kind}, true
	}
	return dataset.LabelColumn{}, false
}

func allBinary(values map[string]dataset.Value) bool {
	for _, v := range values {
		if !v.IsBinaryCompatible() {
			return false
		}
	}
	return true
}
