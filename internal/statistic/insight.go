package statistic

import "sort"

// Insight types produced by the spreadsheet upload endpoint.
const (
	InsightSummary      = "summary"
	InsightMaxValue     = "max_value"
	InsightStatistics   = "statistics"
	InsightTrend        = "trend"
	InsightDistribution = "distribution"
	InsightHistogram    = "histogram"
)

// Insight is one finding extracted from an uploaded spreadsheet. Data is kept
// loosely typed because its shape depends on Type.
type Insight struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Data        map[string]any `json:"data"`
}

// Column is the column a max_value insight refers to.
func (i Insight) Column() string {
	s, _ := i.Data["column"].(string)
	return s
}

// Rows returns chart_data as a list of records (max_value insights).
func (i Insight) Rows() []map[string]any {
	raw, _ := i.Data["chart_data"].([]any)
	rows := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			rows = append(rows, m)
		}
	}
	return rows
}

// Series returns a numeric list stored under key (chart_data for trend
// insights, values for histograms). Non-numeric items count as zero.
func (i Insight) Series(key string) []float64 {
	raw, ok := i.Data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]float64, len(raw))
	for n, v := range raw {
		out[n] = Number(v)
	}
	return out
}

// Mapping returns a numeric map stored under key (means, stds, distribution).
func (i Insight) Mapping(key string) map[string]float64 {
	raw, ok := i.Data[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		out[k] = Number(v)
	}
	return out
}

// Number converts a decoded JSON value to float64, treating anything
// non-numeric as zero.
func Number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
