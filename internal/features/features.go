// Package features names and standardises the feature columns handed to a
// binary trainer.
package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"tabclass/domain/dataset"
)

// Names returns the generic feature names F0..F{n-1}
func Names(n int) []string {
	if n <= 0 {
		return nil
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("F%d", i)
	}
	return names
}

// Indices returns the positions of every column except the label
func Indices(columns []dataset.Column, label dataset.LabelColumn) []int {
	out := make([]int, 0, len(columns))
	for i := range columns {
		if i != label.Index {
			out = append(out, i)
		}
	}
	return out
}

// Standardizer rescales numeric feature columns to zero mean and unit
// variance using statistics fitted on training rows only.
type Standardizer struct {
	Columns []int     `json:"columns"`
	Means   []float64 `json:"means"`
	StdDevs []float64 `json:"std_devs"`
}

// Fit computes per-column mean and standard deviation over the non-null
// cells of integer and float feature columns.
func Fit(columns []dataset.Column, label dataset.LabelColumn, rows []dataset.Row) *Standardizer {
	s := &Standardizer{}
	for _, idx := range Indices(columns, label) {
		kind := columns[idx].Kind
		if kind != dataset.KindInteger && kind != dataset.KindFloat {
			continue
		}
		values := make([]float64, 0, len(rows))
		for _, row := range rows {
			if x, ok := row[idx].Numeric(); ok {
				values = append(values, x)
			}
		}
		mean, std := 0.0, 1.0
		if len(values) > 0 {
			mean = stat.Mean(values, nil)
		}
		if len(values) > 1 {
			std = stat.StdDev(values, nil)
		}
		if std == 0 {
			std = 1
		}
		s.Columns = append(s.Columns, idx)
		s.Means = append(s.Means, mean)
		s.StdDevs = append(s.StdDevs, std)
	}
	return s
}

// Transform returns standardised copies of rows. Nulls stay null.
func (s *Standardizer) Transform(rows []dataset.Row) []dataset.Row {
	if rows == nil {
		return nil
	}
	out := make([]dataset.Row, len(rows))
	for i, row := range rows {
		r := row.Clone()
		for k, idx := range s.Columns {
			if x, ok := r[idx].Numeric(); ok {
				r[idx] = dataset.Float((x - s.Means[k]) / s.StdDevs[k])
			}
		}
		out[i] = r
	}
	return out
}

// Schema returns columns with every standardised column retyped as float
func (s *Standardizer) Schema(columns []dataset.Column) []dataset.Column {
	out := make([]dataset.Column, len(columns))
	copy(out, columns)
	for _, idx := range s.Columns {
		out[idx].Kind = dataset.KindFloat
	}
	return out
}

// Apply standardises every partition of a split and returns the new split
func (s *Standardizer) Apply(split dataset.Split) dataset.Split {
	return dataset.Split{
		Columns:    s.Schema(split.Columns),
		Train:      s.Transform(split.Train),
		Validation: s.Transform(split.Validation),
		Test:       s.Transform(split.Test),
	}
}
