package excel

import (
	"tabclass/adapters/datareadiness/coercer"
)

// LoaderConfig holds configuration for CSV and Excel table loading
type LoaderConfig struct {
	// Sheet is read from workbooks; the first sheet is used when it is missing
	Sheet     string `json:"sheet"`
	Delimiter rune   `json:"delimiter"`
	// SampleSize bounds the rows used for kind inference; 0 uses every row
	SampleSize     int                    `json:"sample_size"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultLoaderConfig returns sensible defaults for table loading
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Sheet:          "Sheet1",
		Delimiter:      ',',
		SampleSize:     0,
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
