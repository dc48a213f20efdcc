package excel

import "strings"

// RawData is a parsed file before kind inference: trimmed headers and
// rectangular rows of trimmed cells
type RawData struct {
	Headers []string
	Rows    [][]string
}

// Column returns every cell of one column
func (d *RawData) Column(idx int) []string {
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[idx]
	}
	return out
}

// FileType is the on-disk format of a table
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType maps a file name to its type; anything but .csv is read as a workbook
func DetectFileType(name string) FileType {
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		return FileTypeCSV
	}
	return FileTypeXLSX
}
