package partition

import (
	"fmt"

	"tabclass/domain/core"
	"tabclass/domain/dataset"
)

// Balance oversamples every label group up to the size of the largest one by
// repeating the group's own rows from the start. Groups are emitted in order
// of first appearance. maxRows caps the output size; 0 means unlimited.
func Balance(rows []dataset.Row, label dataset.LabelColumn, maxRows int) ([]dataset.Row, error) {
	if label.Index < 0 {
		return nil, fmt.Errorf("%w: column %q", core.ErrLabelNotFound, label.Name)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var order []string
	groups := make(map[string][]dataset.Row)
	for i, row := range rows {
		if label.Index >= len(row) {
			return nil, fmt.Errorf("%w: row %d has no column %q", core.ErrLabelNotFound, i, label.Name)
		}
		key := label.Of(row).Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	maxCount := 0
	for _, g := range groups {
		if len(g) > maxCount {
			maxCount = len(g)
		}
	}

	required := maxCount * len(groups)
	if maxRows > 0 && required > maxRows {
		return nil, core.NewBalanceLimitError(required, maxRows)
	}

	out := make([]dataset.Row, 0, required)
	for _, key := range order {
		items := groups[key]
		for i := 0; i < maxCount; i++ {
			out = append(out, items[i%len(items)].Clone())
		}
	}
	return out, nil
}

// GroupCounts returns row counts per label value, keyed by the rendered value
func GroupCounts(rows []dataset.Row, label dataset.LabelColumn) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[label.Of(row).String()]++
	}
	return counts
}
