package visuals

import (
	"fmt"
	"math"
	"strings"

	"cpi-console/internal/statistic"
)

const (
	fenceOpen  = "```mermaid\n"
	fenceClose = "```"
)

// ForInsight returns the chart block for an uploaded-spreadsheet insight, or
// "" when the insight type has no chart or its data is missing.
func ForInsight(in statistic.Insight) string {
	switch in.Type {
	case statistic.InsightMaxValue:
		return GenerateMaxValueChart(in)
	case statistic.InsightStatistics:
		return GenerateStatisticsChart(in.Mapping("means"), in.Mapping("stds"))
	case statistic.InsightTrend:
		return GenerateTrendChart(in.Series("chart_data"))
	case statistic.InsightDistribution:
		return GenerateDistributionPie(in.Mapping("distribution"))
	case statistic.InsightHistogram:
		return GenerateHistogramChart(in.Series("values"))
	default:
		return ""
	}
}

// Body strips the markdown fence from a chart block.
func Body(block string) string {
	block = strings.TrimPrefix(block, fenceOpen)
	return strings.TrimSuffix(block, fenceClose)
}

func formatValues(values []float64) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = statistic.FormatNumber(v)
	}
	return strings.Join(out, ", ")
}

func quoted(labels []string) string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = fmt.Sprintf("%q", strings.ReplaceAll(l, "\"", "'"))
	}
	return strings.Join(out, ", ")
}

// axisRange pads the data range so bars and lines do not touch the frame.
// The range always includes zero.
func axisRange(values ...[]float64) (int, int) {
	lo, hi := 0.0, 0.0
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	top := int(math.Ceil(hi * 1.1))
	if top <= 0 && lo == 0 {
		top = 1
	}
	return int(math.Floor(lo * 1.1)), top
}

func xyChart(title, yLabel string, labels []string, series map[string][]float64, order []string) string {
	all := make([][]float64, 0, len(series))
	for _, s := range series {
		all = append(all, s)
	}
	lo, hi := axisRange(all...)

	var sb strings.Builder
	sb.WriteString(fenceOpen)
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %q\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoted(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis %q %d --> %d\n", yLabel, lo, hi))
	for _, kind := range order {
		// order entries are "bar:<name>" or "line:<name>"
		k, name, _ := strings.Cut(kind, ":")
		sb.WriteString(fmt.Sprintf("    %s [%s]\n", k, formatValues(series[name])))
	}
	sb.WriteString(fenceClose)
	return sb.String()
}

func indexLabels(n int, format string) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf(format, i+1)
	}
	return labels
}

// GenerateMaxValueChart plots the column of a max_value insight, one bar per
// row labelled "항목 N". Rows without a numeric value plot as zero.
func GenerateMaxValueChart(in statistic.Insight) string {
	rows := in.Rows()
	if len(rows) == 0 {
		return ""
	}
	col := in.Column()
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = statistic.Number(r[col])
	}
	return xyChart(in.Title, col, indexLabels(len(rows), "항목 %d"),
		map[string][]float64{"value": values}, []string{"bar:value"})
}

// GenerateStatisticsChart plots mean and standard deviation bars per column,
// in key order.
func GenerateStatisticsChart(means, stds map[string]float64) string {
	if len(means) == 0 {
		return ""
	}
	keys := statistic.SortedKeys(means)
	m := make([]float64, len(keys))
	s := make([]float64, len(keys))
	for i, k := range keys {
		m[i] = means[k]
		s[i] = stds[k]
	}
	return xyChart("평균 / 표준편차", "값", keys,
		map[string][]float64{"평균": m, "표준편차": s}, []string{"bar:평균", "bar:표준편차"})
}

// GenerateTrendChart plots a series as a line.
func GenerateTrendChart(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	return xyChart("추세", "값", indexLabels(len(values), "%d"),
		map[string][]float64{"value": values}, []string{"line:value"})
}

// GenerateHistogramChart plots raw values as bars.
func GenerateHistogramChart(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	return xyChart("히스토그램", "값", indexLabels(len(values), "%d"),
		map[string][]float64{"value": values}, []string{"bar:value"})
}

// GenerateDistributionPie creates a pie chart of category shares.
func GenerateDistributionPie(dist map[string]float64) string {
	if len(dist) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fenceOpen)
	sb.WriteString("pie title 분포\n")
	for _, k := range statistic.SortedKeys(dist) {
		sb.WriteString(fmt.Sprintf("    %q : %s\n", k, statistic.FormatNumber(dist[k])))
	}
	sb.WriteString(fenceClose)
	return sb.String()
}
