package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tabclass/adapters/datareadiness/coercer"
	"tabclass/domain/core"
	"tabclass/domain/dataset"
	"tabclass/internal"
	"tabclass/ports"
)

// Loader reads CSV and Excel files into typed tables
type Loader struct {
	config  LoaderConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

var _ ports.TableLoader = (*Loader)(nil)

// NewLoader creates a table loader
func NewLoader(config LoaderConfig, logger *internal.Logger) *Loader {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  logger.WithComponent("DataReader"),
	}
}

// Load reads a CSV or XLSX file from disk
func (l *Loader) Load(ctx context.Context, path string) (*dataset.Table, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: file path is empty", core.ErrEmptyOrMalformedTable)
	}
	fileType := DetectFileType(path)
	l.logger.Debug("Starting to read %s file: %s", fileType, path)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s file not found: %s", core.ErrEmptyOrMalformedTable, strings.ToUpper(string(fileType)), path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	return l.LoadReader(ctx, file, fileType)
}

// LoadReader reads a table from an open stream, used for uploads
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, fileType FileType) (*dataset.Table, error) {
	readStart := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch fileType {
	case FileTypeCSV:
		rows, err = l.readCSV(r)
	case FileTypeXLSX:
		rows, err = l.readExcel(r)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.logger.Debug("%s read in %.2fms (%d rows)", strings.ToUpper(string(fileType)), float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	raw, err := processRows(rows)
	if err != nil {
		return nil, err
	}
	return l.buildTable(raw)
}

func (l *Loader) readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.config.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", core.ErrEmptyOrMalformedTable, err)
	}
	return rows, nil
}

func (l *Loader) readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", core.ErrEmptyOrMalformedTable, err)
	}
	defer f.Close()

	sheet := l.config.Sheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 || sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrEmptyOrMalformedTable)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", core.ErrEmptyOrMalformedTable, sheet, err)
	}
	return rows, nil
}

// processRows trims headers and cells, pads short rows and skips blank lines
func processRows(rows [][]string) (*RawData, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: file must have a header row and at least one data row", core.ErrEmptyOrMalformedTable)
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		h := strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if h == "" {
			return nil, fmt.Errorf("%w: header %d is empty", core.ErrEmptyOrMalformedTable, i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate column %q", core.ErrEmptyOrMalformedTable, h)
		}
		seen[h] = true
		headers[i] = h
	}

	data := &RawData{Headers: headers}
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		blank := true
		for j := range headers {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
			if cells[j] != "" {
				blank = false
			}
		}
		if !blank {
			data.Rows = append(data.Rows, cells)
		}
	}
	if len(data.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", core.ErrEmptyOrMalformedTable)
	}
	return data, nil
}

// buildTable infers each column's kind and coerces every cell
func (l *Loader) buildTable(raw *RawData) (*dataset.Table, error) {
	sample := getStratifiedSample(len(raw.Rows), l.config.SampleSize)

	columns := make([]dataset.Column, len(raw.Headers))
	for idx, header := range raw.Headers {
		values := make([]string, len(sample))
		for i, rowIdx := range sample {
			values[i] = raw.Rows[rowIdx][idx]
		}
		columns[idx] = dataset.Column{Name: header, Kind: l.coercer.InferKind(values)}
	}

	rows := make([]dataset.Row, len(raw.Rows))
	for i, cells := range raw.Rows {
		row := make(dataset.Row, len(columns))
		for j, col := range columns {
			row[j] = l.coercer.Coerce(cells[j], col.Kind)
		}
		rows[i] = row
	}

	table, err := dataset.NewTable(columns, rows)
	if err != nil {
		return nil, err
	}
	l.logger.Info("table loaded (%d columns, %d rows)", table.ColumnCount(), table.RowCount())
	return table, nil
}

// getStratifiedSample returns evenly distributed row indices across the dataset
func getStratifiedSample(totalRows, sampleSize int) []int {
	if sampleSize <= 0 || sampleSize >= totalRows {
		indices := make([]int, totalRows)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	indices := make([]int, 0, sampleSize)
	step := float64(totalRows) / float64(sampleSize)
	for i := 0; i < sampleSize; i++ {
		idx := int(math.Floor(float64(i) * step))
		if idx < totalRows {
			indices = append(indices, idx)
		}
	}
	return indices
}
