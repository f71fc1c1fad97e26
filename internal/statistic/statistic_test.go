package statistic

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSet_UnmarshalFieldPresence(t *testing.T) {
	payload := `{
		"전체_평균": {"description": "전체 평균", "value": 102.30, "unit": "pt"},
		"최고_상승률_달": {"description": "최고 상승률 달", "value": 3, "date": "2024-02"},
		"최고_상승률_지출목적": {"description": "최고 상승률 지출목적", "category": "교통",
			"categories": [{"name": "교통", "value": 4.5}, {"name": "식료품", "value": "2.1"}]},
		"계절성_패턴": {"description": "계절성 패턴", "highest_month": "8월", "highest_value": 1.2,
			"lowest_month": "2월", "lowest_value": -0.4},
		"빈값": {"description": "빈 값", "value": null, "highest_month": ""}
	}`

	var set Set
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(set) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(set))
	}

	avg := set["전체_평균"]
	if avg.Key != "전체_평균" {
		t.Errorf("Key = %q", avg.Key)
	}
	if avg.Value == nil || *avg.Value != "102.3" {
		t.Errorf("Value = %v, want 102.3", avg.Value)
	}
	if avg.Date != "" || avg.Categories != nil || avg.Seasonality != nil {
		t.Errorf("unexpected optional fields: %+v", avg)
	}

	if v := set["최고_상승률_달"].Value; v == nil || *v != "3" {
		t.Errorf("integer value = %v, want 3", v)
	}

	cats := set["최고_상승률_지출목적"].Categories
	if len(cats) != 2 || cats[0].Value != "4.5" || cats[1].Value != "2.1" {
		t.Errorf("categories = %+v", cats)
	}

	season := set["계절성_패턴"].Seasonality
	if season == nil {
		t.Fatal("expected seasonality")
	}
	if season.HighestMonth != "8월" || season.HighestValue != "1.2" || season.LowestMonth != "2월" || season.LowestValue != "-0.4" {
		t.Errorf("seasonality = %+v", season)
	}

	empty := set["빈값"]
	if empty.Value != nil {
		t.Errorf("null value should be absent, got %v", *empty.Value)
	}
	if empty.Seasonality != nil {
		t.Errorf("empty highest_month should not produce seasonality")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{102.3, "102.3"},
		{5, "5"},
		{-0.25, "-0.25"},
		{0.1 + 0.2, "0.30000000000000004"},
		{math.Copysign(0, -1), "0"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{-1.5e22, "-1.5e+22"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{1.5e-7, "1.5e-7"},
		{1e-100, "1e-100"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInsightAccessors(t *testing.T) {
	payload := `{"title":"t","description":"d","type":"max_value","data":{
		"column":"가격","chart_data":[{"가격":10},{"가격":12.5},"junk"],
		"means":{"a":1.5,"b":"x"},"values":[1,2,"3"]}}`

	var in Insight
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Column() != "가격" {
		t.Errorf("Column() = %q", in.Column())
	}
	if rows := in.Rows(); len(rows) != 2 {
		t.Errorf("Rows() len = %d, want 2", len(rows))
	}
	means := in.Mapping("means")
	if means["a"] != 1.5 || means["b"] != 0 {
		t.Errorf("Mapping(means) = %v", means)
	}
	vals := in.Series("values")
	if len(vals) != 3 || vals[1] != 2 || vals[2] != 0 {
		t.Errorf("Series(values) = %v", vals)
	}
	if in.Series("missing") != nil || in.Mapping("missing") != nil {
		t.Errorf("missing keys should yield nil")
	}
	if keys := SortedKeys(means); keys[0] != "a" || keys[1] != "b" {
		t.Errorf("SortedKeys = %v", keys)
	}
}
