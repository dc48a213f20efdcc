package characterize

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tabclass/domain/dataset"
)

// NumericStats summarises an integer or float column
type NumericStats struct {
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Mean          float64 `json:"mean"`
	ZeroCount     int     `json:"zero_count"`
	NegativeCount int     `json:"negative_count"`
}

// CategoricalStats holds the most frequent value of a column
type CategoricalStats struct {
	Mode          string `json:"mode"`
	ModeFrequency int    `json:"mode_frequency"`
}

// TextStats describes free-text cells
type TextStats struct {
	AvgLength       float64 `json:"avg_length"`
	HasNumbers      bool    `json:"has_numbers"`
	HasSpecialChars bool    `json:"has_special_chars"`
}

// ColumnProfile is a per-column data quality summary shown next to the
// suitability verdict
type ColumnProfile struct {
	Name           string             `json:"name"`
	Kind           dataset.ColumnKind `json:"kind"`
	Count          int                `json:"count"`
	Missing        int                `json:"missing"`
	Completeness   float64            `json:"completeness"`
	Distinct       int                `json:"distinct"`
	BinaryEligible bool               `json:"binary_eligible"`
	Numeric        *NumericStats      `json:"numeric,omitempty"`
	Categorical    *CategoricalStats  `json:"categorical,omitempty"`
	Text           *TextStats         `json:"text,omitempty"`
}

// Profile computes a ColumnProfile for every column of the table
func Profile(table *dataset.Table) []ColumnProfile {
	profiles := make([]ColumnProfile, len(table.Columns))
	for idx, col := range table.Columns {
		profiles[idx] = profileColumn(table, idx, col)
	}
	return profiles
}

func profileColumn(table *dataset.Table, idx int, col dataset.Column) ColumnProfile {
	profile := ColumnProfile{Name: col.Name, Kind: col.Kind, Count: table.RowCount()}

	var values []dataset.Value
	distinct := make(map[string]int)
	for _, row := range table.Rows {
		v := row[idx]
		if v.IsNull() {
			profile.Missing++
			continue
		}
		values = append(values, v)
		distinct[v.Key()]++
	}
	profile.Distinct = len(distinct)
	if profile.Count > 0 {
		profile.Completeness = math.Max(0, 1-float64(profile.Missing)/float64(profile.Count))
	}
	profile.BinaryEligible = IsBinaryEligible(table, idx)

	switch col.Kind {
	case dataset.KindInteger, dataset.KindFloat:
		profile.Numeric = numericStats(values)
	case dataset.KindText:
		profile.Categorical = categoricalStats(values)
		profile.Text = textStats(values)
	case dataset.KindBoolean:
		profile.Categorical = categoricalStats(values)
	}
	return profile
}

func numericStats(values []dataset.Value) *NumericStats {
	nums := make([]float64, 0, len(values))
	stats := &NumericStats{}
	for _, v := range values {
		f, ok := v.Numeric()
		if !ok {
			continue
		}
		nums = append(nums, f)
		if f == 0 {
			stats.ZeroCount++
		}
		if f < 0 {
			stats.NegativeCount++
		}
	}
	if len(nums) == 0 {
		return nil
	}
	stats.Min = floats.Min(nums)
	stats.Max = floats.Max(nums)
	stats.Mean = stat.Mean(nums, nil)
	return stats
}

// categoricalStats picks the mode; ties go to the value seen first
func categoricalStats(values []dataset.Value) *CategoricalStats {
	if len(values) == 0 {
		return nil
	}
	freq := make(map[string]int)
	var order []string
	for _, v := range values {
		s := v.String()
		if freq[s] == 0 {
			order = append(order, s)
		}
		freq[s]++
	}

	stats := &CategoricalStats{}
	for _, s := range order {
		if freq[s] > stats.ModeFrequency {
			stats.Mode = s
			stats.ModeFrequency = freq[s]
		}
	}
	return stats
}

func textStats(values []dataset.Value) *TextStats {
	if len(values) == 0 {
		return nil
	}
	stats := &TextStats{}
	total := 0
	for _, v := range values {
		s := v.String()
		total += len(s)
		if strings.ContainsAny(s, "0123456789") {
			stats.HasNumbers = true
		}
		if strings.ContainsAny(s, "!@#$%^&*()_+-=[]{}|;:,.<>?") {
			stats.HasSpecialChars = true
		}
	}
	stats.AvgLength = float64(total) / float64(len(values))
	return stats
}
