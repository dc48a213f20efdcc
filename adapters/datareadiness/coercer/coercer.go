package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"tabclass/domain/dataset"
)

// TypeCoercer infers column kinds from raw cells and converts cells to typed values
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of non-null cells that must parse as numbers
	BooleanThreshold float64  `json:"boolean_threshold"` // share of non-null cells that must parse as booleans
	NormalizeStrings bool     `json:"normalize_strings"` // collapse whitespace and lowercase text cells
	NullTokens       []string `json:"null_tokens"`       // cells read as null, compared after trimming
}

// DefaultCoercionConfig returns strict defaults: a column is only typed when
// every non-null cell parses
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 1.0,
		BooleanThreshold: 1.0,
		NormalizeStrings: false,
		NullTokens:       []string{""},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	IntegerCount    int                `json:"integer_count"`
	NumericCount    int                `json:"numeric_count"`
	BooleanCount    int                `json:"boolean_count"`
	IntegerRatio    float64            `json:"integer_ratio"`
	NumericRatio    float64            `json:"numeric_ratio"`
	BooleanRatio    float64            `json:"boolean_ratio"`
	RecommendedKind dataset.ColumnKind `json:"recommended_kind"`
}

// AnalyzeTypeDistribution counts how many cells parse as each kind
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, raw := range values {
		if c.IsNull(raw) {
			continue
		}
		analysis.ValidCount++
		if _, ok := tryParseInteger(raw); ok {
			analysis.IntegerCount++
		}
		if _, ok := tryParseNumeric(raw); ok {
			analysis.NumericCount++
		}
		if _, ok := tryParseBoolean(raw); ok {
			analysis.BooleanCount++
		}
	}

	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.IntegerRatio = float64(analysis.IntegerCount) / valid
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
	}
	analysis.RecommendedKind = c.determineRecommendedKind(analysis)
	return analysis
}

// InferKind returns the recommended kind for a column of raw cells
func (c *TypeCoercer) InferKind(values []string) dataset.ColumnKind {
	return c.AnalyzeTypeDistribution(values).RecommendedKind
}

// Coerce converts a raw cell into a value of the given kind. Cells that do
// not parse become null.
func (c *TypeCoercer) Coerce(raw string, kind dataset.ColumnKind) dataset.Value {
	if c.IsNull(raw) {
		return dataset.Null()
	}
	switch kind {
	case dataset.KindInteger:
		if v, ok := tryParseInteger(raw); ok {
			return dataset.Int(v)
		}
	case dataset.KindFloat:
		if v, ok := tryParseNumeric(raw); ok {
			return dataset.Float(v)
		}
	case dataset.KindBoolean:
		if v, ok := tryParseBoolean(raw); ok {
			return dataset.Bool(v)
		}
	default:
		s := strings.TrimSpace(raw)
		if c.config.NormalizeStrings {
			s = normalizeString(s)
		}
		return dataset.Text(s)
	}
	return dataset.Null()
}

// IsNull reports whether a raw cell is one of the configured null tokens
func (c *TypeCoercer) IsNull(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	for _, token := range c.config.NullTokens {
		if trimmed == token {
			return true
		}
	}
	return trimmed == ""
}

// determineRecommendedKind chooses the most restrictive kind that passes its threshold
func (c *TypeCoercer) determineRecommendedKind(analysis TypeAnalysis) dataset.ColumnKind {
	if analysis.ValidCount == 0 {
		return dataset.KindText
	}
	if analysis.IntegerRatio >= c.config.NumericThreshold {
		return dataset.KindInteger
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return dataset.KindFloat
	}
	if analysis.BooleanRatio >= c.config.BooleanThreshold {
		return dataset.KindBoolean
	}
	return dataset.KindText
}

func tryParseInteger(strVal string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
	return v, err == nil
}

// tryParseNumeric parses floats, accepting parentheses for negatives,
// currency symbols, percent signs and European decimal commas
func tryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(strings.ReplaceAll(cleanVal, "%", ""))

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 or 1 234,56 when the last comma has at most three digits after it
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 3 && strings.Trim(afterComma, "0123456789") == "" {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	case hasComma:
		cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// tryParseBoolean accepts true/false in any case
func tryParseBoolean(strVal string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(strVal)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

var whitespace = regexp.MustCompile(`\s+`)

// normalizeString lowercases, collapses whitespace and drops control characters
func normalizeString(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespace.ReplaceAllString(s, " ")
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
