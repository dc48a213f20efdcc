package classification

// ConfusionCounts are binary outcome counts at one threshold
type ConfusionCounts struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// Total returns the number of counted rows
func (c ConfusionCounts) Total() int { return c.TP + c.FP + c.TN + c.FN }

// CurvePoint is one (x, y) point on a chart series
type CurvePoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Threshold float64 `json:"threshold,omitempty"`
}

// ScoreSummary describes the distribution of model scores
type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// BinaryMetrics summarises a binary classifier on held-out rows
type BinaryMetrics struct {
	Threshold         float64         `json:"threshold"`
	Confusion         ConfusionCounts `json:"confusion"`
	Accuracy          float64         `json:"accuracy"`
	PositivePrecision float64         `json:"positive_precision"` // PPV
	PositiveRecall    float64         `json:"positive_recall"`    // TPR
	NegativePrecision float64         `json:"negative_precision"` // NPV
	NegativeRecall    float64         `json:"negative_recall"`    // TNR
	F1                float64         `json:"f1"`
	AUC               float64         `json:"auc"`
	ROC               []CurvePoint    `json:"roc"`
	Scores            ScoreSummary    `json:"scores"`
}

// ClassMetrics are one-vs-rest metrics for a single class
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// MulticlassMetrics summarises a category classifier on held-out rows
type MulticlassMetrics struct {
	Classes         []string                `json:"classes"`
	ConfusionMatrix [][]int                 `json:"confusion_matrix"` // [actual][predicted]
	Accuracy        float64                 `json:"accuracy"`
	MacroPrecision  float64                 `json:"macro_precision"`
	MacroRecall     float64                 `json:"macro_recall"`
	MacroF1         float64                 `json:"macro_f1"`
	PerClass        map[string]ClassMetrics `json:"per_class"`
	Gains           map[string][]CurvePoint `json:"gains"`
	Scores          ScoreSummary            `json:"scores"`
}
