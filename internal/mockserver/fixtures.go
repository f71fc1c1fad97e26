package mockserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"time"

	"cpi-console/internal/period"
)

// Origin is the first month of every generated series.
var Origin = period.YearMonth{Year: 2015, Month: time.January}

// Categories are the expenditure divisions tracked alongside the headline
// index.
var Categories = []string{
	"식료품·비주류음료", "주류·담배", "의류·신발", "주택·수도·전기·연료",
	"가정용품·가사서비스", "보건", "교통", "통신",
	"오락·문화", "교육", "음식·숙박", "기타상품·서비스",
}

type GeneratorConfig struct {
	Scenario string // "mild", "chaos" or "drift"
	Seed     int64
	Now      time.Time
}

// Point is one month of the generated index.
type Point struct {
	Month      period.YearMonth   `json:"-"`
	Label      string             `json:"month"`
	Index      float64            `json:"index"`
	Categories map[string]float64 `json:"categories"`
}

// Series is a monthly price index from Origin up to the month of Now.
type Series []Point

// Generate builds a deterministic series for the scenario. The same config
// always yields the same values.
func Generate(cfg GeneratorConfig) Series {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	last := period.Of(cfg.Now)
	count := monthsBetween(Origin, last) + 1
	if count < 1 {
		count = 1
	}

	level := 100.0
	catLevel := make(map[string]float64, len(Categories))
	catDrift := make(map[string]float64, len(Categories))
	for i, c := range Categories {
		catLevel[c] = 95 + float64(i)
		catDrift[c] = 0.05 + rng.Float64()*0.4
	}

	series := make(Series, 0, count)
	for i := 0; i < count; i++ {
		ym := Origin.AddMonths(i)

		// Monthly growth in percent
		growth, noise := 0.2, 0.1
		switch cfg.Scenario {
		case "chaos":
			noise = 0.8
			if rng.Float64() < 0.05 {
				growth += 1.5 + rng.Float64()*1.5
			}
		case "drift":
			ratio := float64(i) / float64(count)
			growth = 0.1 + 0.6*ratio
		}
		seasonal := 0.15 * math.Sin(2*math.Pi*float64(ym.Month-1)/12)

		level *= 1 + (growth+seasonal+rng.NormFloat64()*noise)/100
		cats := make(map[string]float64, len(Categories))
		for _, c := range Categories {
			catLevel[c] *= 1 + (catDrift[c]+rng.NormFloat64()*noise*1.5)/100
			cats[c] = round2(catLevel[c])
		}

		series = append(series, Point{Month: ym, Label: ym.String(), Index: round2(level), Categories: cats})
	}
	return series
}

// Window returns the points between start and end inclusive, clamped to the
// generated range.
func (s Series) Window(start, end period.YearMonth) Series {
	var out Series
	for _, p := range s {
		if start.After(p.Month) || p.Month.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Last returns the most recent n points.
func (s Series) Last(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Save writes the series as JSON lines into outDir.
func Save(outDir string, name string, s Series) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(outDir, fmt.Sprintf("%s.jsonl", name))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, p := range s {
		if err := enc.Encode(p); err != nil {
			return "", err
		}
	}
	return path, w.Flush()
}

func monthsBetween(a, b period.YearMonth) int {
	return (b.Year-a.Year)*12 + int(b.Month) - int(a.Month)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	temp := slices.Clone(values)
	slices.Sort(temp)
	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}
