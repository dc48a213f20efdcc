package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"tabclass/domain/dataset"
	"tabclass/ports"
)

// WeightColumn is appended to the training partition when weights are given
const WeightColumn = "Weight"

// PartitionWriter writes prepared partitions as CSV or XLSX files
type PartitionWriter struct {
	Format FileType
}

var _ ports.PartitionWriter = (*PartitionWriter)(nil)

// NewPartitionWriter creates a writer for the given format
func NewPartitionWriter(format FileType) *PartitionWriter {
	if format != FileTypeXLSX {
		format = FileTypeCSV
	}
	return &PartitionWriter{Format: format}
}

// WritePartitions writes train, validation and test files into dir. Weights,
// when given, must be parallel to the training rows.
func (w *PartitionWriter) WritePartitions(ctx context.Context, dir string, split dataset.Split, weights []float64) (map[string]string, error) {
	if weights != nil && len(weights) != len(split.Train) {
		return nil, fmt.Errorf("%d weights for %d training rows", len(weights), len(split.Train))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	parts := []struct {
		name    string
		rows    []dataset.Row
		weights []float64
	}{
		{"train", split.Train, weights},
		{"validation", split.Validation, nil},
		{"test", split.Test, nil},
	}

	written := make(map[string]string)
	for _, part := range parts {
		if len(part.rows) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}

		path := filepath.Join(dir, part.name+"."+string(w.Format))
		var err error
		if w.Format == FileTypeXLSX {
			err = writeXLSX(path, split.Columns, part.rows, part.weights)
		} else {
			err = writeCSV(path, split.Columns, part.rows, part.weights)
		}
		if err != nil {
			return written, fmt.Errorf("failed to write %s partition: %w", part.name, err)
		}
		written[part.name] = path
	}
	return written, nil
}

func headerRow(columns []dataset.Column, weighted bool) []string {
	headers := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		headers = append(headers, c.Name)
	}
	if weighted {
		headers = append(headers, WeightColumn)
	}
	return headers
}

func writeCSV(path string, columns []dataset.Column, rows []dataset.Row, weights []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headerRow(columns, weights != nil)); err != nil {
		return err
	}
	for i, row := range rows {
		record := make([]string, 0, len(row)+1)
		for _, v := range row {
			record = append(record, v.String())
		}
		if weights != nil {
			record = append(record, strconv.FormatFloat(weights[i], 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func writeXLSX(path string, columns []dataset.Column, rows []dataset.Row, weights []float64) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := headerRow(columns, weights != nil)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range rows {
		cells := make([]interface{}, 0, len(row)+1)
		for _, v := range row {
			cells = append(cells, cellValue(v))
		}
		if weights != nil {
			cells = append(cells, weights[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func cellValue(v dataset.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	if i, ok := v.AsInt(); ok {
		return i
	}
	if f, ok := v.AsFloat(); ok {
		return f
	}
	if b, ok := v.AsBool(); ok {
		return b
	}
	return v.String()
}
