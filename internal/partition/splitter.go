// Package partition builds train/validation/test partitions and balances
// categorical training data.
package partition

import (
	"fmt"
	"math"
	"math/rand"

	"tabclass/domain/core"
	"tabclass/domain/dataset"
)

// Options controls how rows are partitioned
type Options struct {
	// TestFraction is the test share of a plain train/test cut
	TestFraction float64 `json:"test_fraction"`
	// HoldoutFraction is cut off first when a validation set is requested;
	// the holdout is then divided by ValidationShare.
	HoldoutFraction float64 `json:"holdout_fraction"`
	ValidationShare float64 `json:"validation_share"`
	WithValidation  bool    `json:"with_validation"`
	// Stratify samples each label value separately (binary tasks)
	Stratify bool  `json:"stratify"`
	Seed     int64 `json:"seed"`
}

// DefaultOptions returns an 80/20 cut; with validation it yields 70/15/15
func DefaultOptions() Options {
	return Options{
		TestFraction:    0.2,
		HoldoutFraction: 0.3,
		ValidationShare: 0.5,
		Seed:            42,
	}
}

// Validate checks that all fractions lie strictly between 0 and 1
func (o Options) Validate() error {
	for name, f := range map[string]float64{
		"test fraction":    o.TestFraction,
		"holdout fraction": o.HoldoutFraction,
		"validation share": o.ValidationShare,
	} {
		if f <= 0 || f >= 1 {
			return fmt.Errorf("%w: %s is %v", core.ErrInvalidFraction, name, f)
		}
	}
	return nil
}

// Split partitions the table rows. The source table is not modified; every
// emitted row is a copy.
func Split(table *dataset.Table, label dataset.LabelColumn, opts Options) (dataset.Split, error) {
	if err := opts.Validate(); err != nil {
		return dataset.Split{}, err
	}
	if err := checkLabel(table, label); err != nil {
		return dataset.Split{}, err
	}

	out := dataset.Split{Columns: table.Columns}
	if !opts.WithValidation {
		train, test := TrainTestSplit(table.Rows, label, opts.TestFraction, opts.Seed, opts.Stratify)
		out.Train, out.Test = train, test
		return out, nil
	}

	train, holdout := TrainTestSplit(table.Rows, label, opts.HoldoutFraction, opts.Seed, opts.Stratify)
	validation, test := TrainTestSplit(holdout, label, opts.ValidationShare, opts.Seed+1, opts.Stratify)
	out.Train = train
	out.Validation = validation
	if out.Validation == nil {
		out.Validation = []dataset.Row{}
	}
	out.Test = test
	return out, nil
}

// TrainTestSplit cuts rows into two disjoint parts covering every row once.
// With stratify set, each label value is shuffled and cut on its own so both
// parts keep similar class ratios.
func TrainTestSplit(rows []dataset.Row, label dataset.LabelColumn, testFraction float64, seed int64, stratify bool) (train, test []dataset.Row) {
	if len(rows) == 0 {
		return nil, nil
	}
	rng := rand.New(rand.NewSource(seed))

	var trainIdx, testIdx []int
	if stratify {
		trainIdx, testIdx = stratifiedIndices(rows, label, testFraction, rng)
	} else {
		perm := rng.Perm(len(rows))
		testCount := cutSize(len(rows), testFraction)
		testIdx = perm[:testCount]
		trainIdx = perm[testCount:]
	}

	return pick(rows, trainIdx), pick(rows, testIdx)
}

func stratifiedIndices(rows []dataset.Row, label dataset.LabelColumn, testFraction float64, rng *rand.Rand) (trainIdx, testIdx []int) {
	// Groups are visited in order of first appearance so results only depend on the seed
	var order []string
	groups := make(map[string][]int)
	for i, row := range rows {
		key := label.Of(row).Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	for _, key := range order {
		indices := groups[key]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		testCount := cutSize(len(indices), testFraction)
		testIdx = append(testIdx, indices[:testCount]...)
		trainIdx = append(trainIdx, indices[testCount:]...)
	}

	rng.Shuffle(len(trainIdx), func(i, j int) {
		trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
	})
	rng.Shuffle(len(testIdx), func(i, j int) {
		testIdx[i], testIdx[j] = testIdx[j], testIdx[i]
	})
	return trainIdx, testIdx
}

// cutSize rounds n*fraction and keeps at least one row on each side when n > 1
func cutSize(n int, fraction float64) int {
	count := int(math.Round(float64(n) * fraction))
	if n > 1 {
		if count == 0 {
			count = 1
		}
		if count == n {
			count = n - 1
		}
	}
	if count > n {
		count = n
	}
	return count
}

func pick(rows []dataset.Row, indices []int) []dataset.Row {
	if len(indices) == 0 {
		return nil
	}
	out := make([]dataset.Row, len(indices))
	for i, idx := range indices {
		out[i] = rows[idx].Clone()
	}
	return out
}

func checkLabel(table *dataset.Table, label dataset.LabelColumn) error {
	if table == nil || label.Index < 0 || label.Index >= len(table.Columns) || table.Columns[label.Index].Name != label.Name {
		return fmt.Errorf("%w: column %q", core.ErrLabelNotFound, label.Name)
	}
	return nil
}
