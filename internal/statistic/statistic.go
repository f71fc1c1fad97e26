package statistic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scalar is a JSON leaf value kept in its display form. Numbers are
// normalized to their shortest decimal representation, strings are kept
// verbatim.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty scalar")
	}
	if string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	case '{', '[':
		*s = Scalar(data)
	default:
		if f, err := strconv.ParseFloat(string(data), 64); err == nil {
			*s = Scalar(FormatNumber(f))
			return nil
		}
		*s = Scalar(data)
	}
	return nil
}

func (s Scalar) String() string { return string(s) }

// Float returns the numeric value of the scalar, if it has one.
func (s Scalar) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(s), 64)
	return f, err == nil
}

// FormatNumber renders f with the fewest digits that round-trip, the way a
// browser prints a number: plain decimals for magnitudes in [1e-6, 1e21),
// exponent notation such as 1e+21 or 1.5e-7 outside it.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// CategoryValue is one item of a per-category breakdown.
type CategoryValue struct {
	Name  string `json:"name"`
	Value Scalar `json:"value"`
}

// Seasonality summarizes the strongest and weakest months of a series.
type Seasonality struct {
	HighestMonth Scalar `json:"highest_month"`
	HighestValue Scalar `json:"highest_value"`
	LowestMonth  Scalar `json:"lowest_month"`
	LowestValue  Scalar `json:"lowest_value"`
}

// Entry is one named statistic produced by the backend. Optional fields are
// left at their zero value (nil for pointers and slices) when absent.
type Entry struct {
	Key         string
	Description string
	Value       *Scalar
	Unit        string
	Date        string
	Category    string
	Categories  []CategoryValue
	Trend       string
	Seasonality *Seasonality
}

type wireEntry struct {
	Description  string          `json:"description"`
	Value        *Scalar         `json:"value"`
	Unit         string          `json:"unit"`
	Date         string          `json:"date"`
	Category     string          `json:"category"`
	Categories   []CategoryValue `json:"categories"`
	Trend        string          `json:"trend"`
	HighestMonth *Scalar         `json:"highest_month"`
	HighestValue *Scalar         `json:"highest_value"`
	LowestMonth  *Scalar         `json:"lowest_month"`
	LowestValue  *Scalar         `json:"lowest_value"`
}

// UnmarshalJSON accepts the flat wire layout where the seasonality fields sit
// next to the others.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Entry{
		Key:         e.Key,
		Description: w.Description,
		Value:       w.Value,
		Unit:        w.Unit,
		Date:        w.Date,
		Category:    w.Category,
		Categories:  w.Categories,
		Trend:       w.Trend,
	}
	if w.HighestMonth != nil && *w.HighestMonth != "" {
		e.Seasonality = &Seasonality{
			HighestMonth: *w.HighestMonth,
			HighestValue: deref(w.HighestValue),
			LowestMonth:  deref(w.LowestMonth),
			LowestValue:  deref(w.LowestValue),
		}
	}
	return nil
}

func deref(s *Scalar) Scalar {
	if s == nil {
		return ""
	}
	return *s
}

// Set is the statistics mapping returned by an analysis, keyed by statistic
// name.
type Set map[string]Entry

// UnmarshalJSON fills each entry's Key from its map key.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Set, len(raw))
	for k, e := range raw {
		e.Key = k
		out[k] = e
	}
	*s = out
	return nil
}

// Lookup returns the entry for key, if present.
func (s Set) Lookup(key string) (Entry, bool) {
	e, ok := s[key]
	return e, ok
}
