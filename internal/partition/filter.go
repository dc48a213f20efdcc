package partition

import (
	"strings"

	"tabclass/domain/dataset"
)

// DropIncomplete removes rows whose label is null or blank, or whose text
// feature is null or blank. text may be nil when the table has no free-text
// column.
func DropIncomplete(rows []dataset.Row, label dataset.LabelColumn, text *dataset.LabelColumn) []dataset.Row {
	out := make([]dataset.Row, 0, len(rows))
	for _, row := range rows {
		if label.Of(row).IsEmptyText() {
			continue
		}
		if text != nil && text.Of(row).IsEmptyText() {
			continue
		}
		out = append(out, row)
	}
	return out
}

// FilterLabels keeps rows whose rendered label is in keep. An empty keep
// set keeps every row.
func FilterLabels(rows []dataset.Row, label dataset.LabelColumn, keep []string) []dataset.Row {
	if len(keep) == 0 {
		return rows
	}
	allowed := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		allowed[strings.TrimSpace(k)] = struct{}{}
	}

	out := make([]dataset.Row, 0, len(rows))
	for _, row := range rows {
		if _, ok := allowed[label.Of(row).String()]; ok {
			out = append(out, row)
		}
	}
	return out
}
