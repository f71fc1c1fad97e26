package mockserver

import (
	"fmt"
	"math"
	"sort"
)

type entry map[string]any

func growthRates(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = (values[i]/values[i-1] - 1) * 100
	}
	return out
}

func (s Series) index() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Index
	}
	return out
}

func (s Series) category(name string) []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Categories[name]
	}
	return out
}

func trendLabel(slope float64) string {
	switch {
	case slope > 0.05:
		return "상승"
	case slope < -0.05:
		return "하락"
	default:
		return "보합"
	}
}

// slope is the least-squares gradient of values per step.
func slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sx, sy, sxy, sxx float64
	for i, v := range values {
		x := float64(i)
		sx += x
		sy += v
		sxy += x * v
		sxx += x * x
	}
	return (n*sxy - sx*sy) / (n*sxx - sx*sx)
}

type ranked struct {
	name  string
	value float64
}

func rankCategories(s Series, score func([]float64) float64) []ranked {
	out := make([]ranked, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, ranked{name: c, value: score(s.category(c))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].value > out[j].value })
	return out
}

func categoryList(items []ranked) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, r := range items {
		out[i] = map[string]any{"name": r.name, "value": round2(r.value)}
	}
	return out
}

// PeriodStatistics summarizes a window for the period-selection front end.
// Statistics that need more data than the window holds are omitted.
func PeriodStatistics(s Series) map[string]entry {
	out := map[string]entry{}
	growth := growthRates(s.index())
	if len(growth) == 0 {
		return out
	}

	recent := growth
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	out["최근_3개월_평균_증가율"] = entry{"description": "최근 3개월 평균 증가율", "value": round2(mean(recent)), "unit": "%"}

	hi, lo := 0, 0
	for i, g := range growth {
		if g > growth[hi] {
			hi = i
		}
		if g < growth[lo] {
			lo = i
		}
	}
	out["최고_상승률_달"] = entry{"description": "최고 상승률 달", "value": round2(growth[hi]), "unit": "%", "date": s[hi+1].Label}
	out["최저_상승률_달"] = entry{"description": "최저 상승률 달", "value": round2(growth[lo]), "unit": "%", "date": s[lo+1].Label}

	sl := slope(s.index())
	out["물가_상승_추세"] = entry{"description": "물가 상승 추세", "value": round2(sl), "unit": "pt/월", "trend": trendLabel(sl)}

	vol := stddev(growth)
	out["변동성_지수"] = entry{"description": "변동성 지수", "value": round2(vol), "unit": "%p"}

	volatility := func(v []float64) float64 { return stddev(growthRates(v)) }
	byVol := rankCategories(s, volatility)
	out["최고_변동성_지출목적"] = entry{"description": "최고 변동성 지출목적", "value": round2(byVol[0].value), "unit": "%p", "category": byVol[0].name}
	last := byVol[len(byVol)-1]
	out["최저_변동성_지출목적"] = entry{"description": "최저 변동성 지출목적", "value": round2(last.value), "unit": "%p", "category": last.name}

	score := math.Max(0, math.Min(100, 100-vol*40))
	out["물가_안정성_점수"] = entry{"description": "물가 안정성 점수", "value": round2(score), "unit": "점"}

	if len(s) > 6 {
		now, then := s[len(s)-1].Index, s[len(s)-7].Index
		out["최근_6개월_변화"] = entry{"description": "최근 6개월 변화", "value": round2((now/then - 1) * 100), "unit": "%"}
	}

	if len(growth) >= 12 {
		byMonth := make(map[int][]float64)
		for i, g := range growth {
			m := int(s[i+1].Month.Month)
			byMonth[m] = append(byMonth[m], g)
		}
		hiM, loM := 0, 0
		var hiV, loV float64
		for m := 1; m <= 12; m++ {
			v := mean(byMonth[m])
			if hiM == 0 || v > hiV {
				hiM, hiV = m, v
			}
			if loM == 0 || v < loV {
				loM, loV = m, v
			}
		}
		out["계절성_패턴"] = entry{
			"description":   "계절성 패턴",
			"highest_month": fmt.Sprintf("%d월", hiM),
			"highest_value": round2(hiV),
			"lowest_month":  fmt.Sprintf("%d월", loM),
			"lowest_value":  round2(loV),
		}
	}
	return out
}

// LegacyStatistics summarizes the fixed window served by the legacy endpoints.
func LegacyStatistics(s Series) map[string]entry {
	out := map[string]entry{}
	if len(s) == 0 {
		return out
	}
	idx := s.index()
	out["전체_평균"] = entry{"description": "전체 평균", "value": round2(mean(idx)), "unit": "pt"}

	hi, lo := 0, 0
	for i, v := range idx {
		if v > idx[hi] {
			hi = i
		}
		if v < idx[lo] {
			lo = i
		}
	}
	out["최고_물가지수"] = entry{"description": "최고 물가지수", "value": idx[hi], "unit": "pt", "date": s[hi].Label}
	out["최저_물가지수"] = entry{"description": "최저 물가지수", "value": idx[lo], "unit": "pt", "date": s[lo].Label}

	if len(s) >= 12 {
		out["최근_1년_평균"] = entry{"description": "최근 1년 평균", "value": round2(mean(s.Last(12).index())), "unit": "pt"}
	}
	if len(s) >= 36 {
		out["최근_3년_평균"] = entry{"description": "최근 3년 평균", "value": round2(mean(s.Last(36).index())), "unit": "pt"}
	}
	if years := float64(len(s)-1) / 12; years > 0 {
		cagr := (math.Pow(idx[len(idx)-1]/idx[0], 1/years) - 1) * 100
		out["연평균_증가율"] = entry{"description": "연평균 증가율", "value": round2(cagr), "unit": "%"}
	}
	out["변동성"] = entry{"description": "변동성(표준편차)", "value": round2(stddev(idx)), "unit": "pt"}

	change := func(v []float64) float64 { return (v[len(v)-1]/v[0] - 1) * 100 }
	byChange := rankCategories(s, change)
	top := byChange[0]
	out["최고_상승률_지출목적"] = entry{"description": "최고 상승률 지출목적", "value": round2(top.value), "unit": "%", "category": top.name}
	bottom := byChange[len(byChange)-1]
	out["최저_상승률_지출목적"] = entry{"description": "최저 상승률 지출목적", "value": round2(bottom.value), "unit": "%", "category": bottom.name}

	byLevel := rankCategories(s, func(v []float64) float64 { return median(v) })
	out["상위_지출목적_평균"] = entry{"description": "상위 지출목적 평균", "categories": categoryList(byLevel[:5])}

	sl := slope(s.Last(12).index())
	out["최근_추세"] = entry{"description": "최근 추세", "trend": trendLabel(sl)}
	return out
}
