package main

import (
	"context"
	"fmt"
	"strings"

	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/domain/dataset"
	"tabclass/ports"
)

// loadScoredRows reads a table with score and label columns
func loadScoredRows(ctx context.Context, loader ports.TableLoader, path, scoreColumn, labelColumn string) ([]classification.ScoredRow, error) {
	table, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	scoreIdx := findColumn(table, scoreColumn)
	if scoreIdx < 0 {
		return nil, core.NewColumnNotFoundError(scoreColumn)
	}
	labelIdx := findColumn(table, labelColumn)
	if labelIdx < 0 {
		return nil, core.NewColumnNotFoundError(labelColumn)
	}

	rows := make([]classification.ScoredRow, 0, table.RowCount())
	for i, row := range table.Rows {
		score, ok := row[scoreIdx].Numeric()
		if !ok {
			return nil, fmt.Errorf("%w: row %d has no numeric %s", core.ErrNoScores, i+1, scoreColumn)
		}
		label, ok := row[labelIdx].BinaryTruth()
		if !ok {
			return nil, core.NewInvalidLabelError(labelColumn, i+1, row[labelIdx].String())
		}
		rows = append(rows, classification.ScoredRow{Score: score, Label: label})
	}
	return rows, nil
}

func findColumn(table *dataset.Table, name string) int {
	for i, c := range table.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}
