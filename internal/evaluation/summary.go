package evaluation

import (
	"github.com/montanaflynn/stats"

	"tabclass/domain/classification"
)

// Summarize describes a score distribution. An empty input yields a zero summary.
func Summarize(scores []float64) (classification.ScoreSummary, error) {
	summary := classification.ScoreSummary{Count: len(scores)}
	if len(scores) == 0 {
		return summary, nil
	}
	data := stats.Float64Data(scores)

	var err error
	if summary.Mean, err = stats.Mean(data); err != nil {
		return summary, err
	}
	if summary.StdDev, err = stats.StandardDeviation(data); err != nil {
		return summary, err
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return summary, err
	}
	if summary.Q25, err = stats.Percentile(data, 25); err != nil {
		return summary, err
	}
	if summary.Q75, err = stats.Percentile(data, 75); err != nil {
		return summary, err
	}
	return summary, nil
}
