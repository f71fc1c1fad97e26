package render

import (
	"fmt"
	"strings"

	"cpi-console/internal/statistic"
)

// Variant names a deployment of the front end, each with its own schedule.
type Variant string

const (
	VariantPeriod Variant = "period"
	VariantLegacy Variant = "legacy"
)

// Schedule is the fixed display order of statistics for a variant.
type Schedule struct {
	Name string
	Keys []string
	// Seasonality enables the combined highest/lowest line.
	Seasonality bool
}

// LegacySchedule is used by the deployment with a backend-selected period.
var LegacySchedule = Schedule{
	Name: string(VariantLegacy),
	Keys: []string{
		"전체_평균", "최고_물가지수", "최저_물가지수", "최근_1년_평균",
		"최근_3년_평균", "연평균_증가율", "변동성", "최고_상승률_지출목적",
		"최저_상승률_지출목적", "상위_지출목적_평균", "최근_추세",
	},
}

// PeriodSchedule is used by the deployment with user-selected periods.
var PeriodSchedule = Schedule{
	Name: string(VariantPeriod),
	Keys: []string{
		"최근_3개월_평균_증가율", "최고_상승률_달", "최저_상승률_달", "물가_상승_추세",
		"변동성_지수", "최고_변동성_지출목적", "최저_변동성_지출목적",
		"물가_안정성_점수", "최근_6개월_변화", "계절성_패턴",
	},
	Seasonality: true,
}

// ScheduleFor returns the schedule of a variant.
func ScheduleFor(v Variant) (Schedule, error) {
	switch v {
	case VariantPeriod:
		return PeriodSchedule, nil
	case VariantLegacy:
		return LegacySchedule, nil
	default:
		return Schedule{}, fmt.Errorf("unknown variant %q", v)
	}
}

type LineKind int

const (
	LineValue LineKind = iota
	LineDate
	LineCategory
	LineCategoryItem
	LineTrend
	LineSeasonality
)

type Line struct {
	Kind LineKind
	Text string
}

// Card is the rendered form of one statistic.
type Card struct {
	Key   string
	Title string
	Lines []Line
}

// Value returns the text of the value line, if the card has one.
func (c Card) Value() (string, bool) {
	for _, l := range c.Lines {
		if l.Kind == LineValue {
			return l.Text, true
		}
	}
	return "", false
}

// Has reports whether the card contains a line of the given kind.
func (c Card) Has(kind LineKind) bool {
	for _, l := range c.Lines {
		if l.Kind == kind {
			return true
		}
	}
	return false
}

// Project maps statistics to cards in schedule order. Keys missing from set
// are skipped and keys not in the schedule are ignored.
func Project(set statistic.Set, schedule Schedule) []Card {
	cards := make([]Card, 0, len(schedule.Keys))
	for _, key := range schedule.Keys {
		e, ok := set[key]
		if !ok {
			continue
		}
		e.Key = key
		cards = append(cards, project(e, schedule.Seasonality))
	}
	return cards
}

// project renders one entry. Which lines appear depends only on which fields
// are present, never on their values.
func project(e statistic.Entry, seasonality bool) Card {
	c := Card{Key: e.Key, Title: e.Description}

	if e.Value != nil {
		c.Lines = append(c.Lines, Line{LineValue, e.Value.String() + e.Unit})
	}
	if e.Date != "" {
		c.Lines = append(c.Lines, Line{LineDate, "시점: " + e.Date})
	}
	if e.Category != "" {
		c.Lines = append(c.Lines, Line{LineCategory, "지출목적: " + e.Category})
	}
	for _, cat := range e.Categories {
		c.Lines = append(c.Lines, Line{LineCategoryItem, fmt.Sprintf("• %s: %s", cat.Name, cat.Value)})
	}
	if e.Trend != "" {
		c.Lines = append(c.Lines, Line{LineTrend, "추세: " + e.Trend})
	}
	if seasonality && e.Seasonality != nil {
		s := e.Seasonality
		c.Lines = append(c.Lines, Line{LineSeasonality, fmt.Sprintf("최고: %s (%s), 최저: %s (%s)",
			s.HighestMonth, s.HighestValue, s.LowestMonth, s.LowestValue)})
	}
	return c
}

// PlainText renders cards as plain text blocks separated by blank lines.
func PlainText(cards []Card) string {
	var sb strings.Builder
	for i, c := range cards {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(c.Title)
		sb.WriteString("\n")
		for _, l := range c.Lines {
			sb.WriteString("  ")
			sb.WriteString(l.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
