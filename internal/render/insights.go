package render

import (
	"cpi-console/internal/statistic"
	"cpi-console/internal/visuals"
)

// InsightCard is a numbered insight from an uploaded spreadsheet. Chart holds
// a Mermaid block and is empty for summaries and insights without data.
type InsightCard struct {
	Index       int
	Title       string
	Description string
	Type        string
	Chart       string
}

// ChartBody is the chart without its markdown fence.
func (c InsightCard) ChartBody() string {
	return visuals.Body(c.Chart)
}

// ProjectInsights numbers insights from 1 in the order received.
func ProjectInsights(insights []statistic.Insight) []InsightCard {
	cards := make([]InsightCard, len(insights))
	for i, in := range insights {
		cards[i] = InsightCard{
			Index:       i + 1,
			Title:       in.Title,
			Description: in.Description,
			Type:        in.Type,
		}
		if in.Type != statistic.InsightSummary {
			cards[i].Chart = visuals.ForInsight(in)
		}
	}
	return cards
}
