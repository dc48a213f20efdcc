package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclass/domain/core"
	"tabclass/domain/dataset"
	"tabclass/internal"
)

func quietLoader() *Loader {
	return NewLoader(DefaultLoaderConfig(), internal.NewLogger(internal.LogLevelError))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSVKinds(t *testing.T) {
	path := writeFile(t, "diabetes.csv", " Glucose , BMI ,Smoker, Outcome ,Note\n"+
		"148,33.6,true,1,first\n"+
		"85,26.6,false,0,\n"+
		"\n"+
		"183,23.3,TRUE,1,third\n")

	table, err := quietLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Glucose", "BMI", "Smoker", "Outcome", "Note"}, table.Headers())
	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, dataset.KindInteger, table.Columns[0].Kind)
	assert.Equal(t, dataset.KindFloat, table.Columns[1].Kind)
	assert.Equal(t, dataset.KindBoolean, table.Columns[2].Kind)
	assert.Equal(t, dataset.KindInteger, table.Columns[3].Kind)
	assert.Equal(t, dataset.KindText, table.Columns[4].Kind)
	assert.True(t, table.Rows[1][4].IsNull())

	b, ok := table.Rows[2][2].AsBool()
	assert.True(t, ok)
	assert.True(t, b)
}

func TestLoadReader_ShortRowsPadded(t *testing.T) {
	table, err := quietLoader().LoadReader(context.Background(), strings.NewReader("Label,Text\nham,hello\nspam\n"), FileTypeCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, table.RowCount())
	assert.True(t, table.Rows[1][1].IsNull())
}

func TestLoad_Malformed(t *testing.T) {
	tests := map[string]string{
		"header only":      "a,b\n",
		"duplicate header": "a,a\n1,2\n",
		"empty header":     "a,,c\n1,2,3\n",
		"blank rows":       "a,b\n,\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := quietLoader().LoadReader(context.Background(), strings.NewReader(content), FileTypeCSV)
			assert.True(t, errors.Is(err, core.ErrEmptyOrMalformedTable), "got %v", err)
		})
	}

	_, err := quietLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.Is(err, core.ErrEmptyOrMalformedTable))
}

func TestLoad_Semicolon(t *testing.T) {
	config := DefaultLoaderConfig()
	config.Delimiter = ';'
	loader := NewLoader(config, internal.NewLogger(internal.LogLevelError))

	table, err := loader.LoadReader(context.Background(), strings.NewReader("x;y\n1,5;0\n2,5;1\n"), FileTypeCSV)
	require.NoError(t, err)
	assert.Equal(t, dataset.KindFloat, table.Columns[0].Kind)
	f, _ := table.Rows[0][0].AsFloat()
	assert.Equal(t, 1.5, f)
}

func TestGetStratifiedSample(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, getStratifiedSample(3, 0))
	assert.Equal(t, []int{0, 1, 2}, getStratifiedSample(3, 10))
	assert.Equal(t, []int{0, 2, 5, 7}, getStratifiedSample(10, 4))
}

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, FileTypeCSV, DetectFileType("data/Diabetes.CSV"))
	assert.Equal(t, FileTypeXLSX, DetectFileType("book.xlsx"))
}
