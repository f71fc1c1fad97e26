package period

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Kind tells which variant of a Selection is active.
type Kind int

const (
	// Relative selects the most recent N months.
	Relative Kind = iota
	// Range selects an explicit start/end month range.
	Range
)

func (k Kind) String() string {
	switch k {
	case Relative:
		return "months"
	case Range:
		return "range"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultMonths is the relative window used when nothing else is chosen.
const DefaultMonths = 36

// YearMonth is a calendar month rendered as YYYY-MM.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Of returns the month containing t.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Compact renders the month as YYYYMM.
func (ym YearMonth) Compact() string {
	return fmt.Sprintf("%04d%02d", ym.Year, int(ym.Month))
}

// AddMonths shifts the month by n (negative moves backwards).
func (ym YearMonth) AddMonths(n int) YearMonth {
	t := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Of(t)
}

// After reports whether ym is later than other.
func (ym YearMonth) After(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year > other.Year
	}
	return ym.Month > other.Month
}

// Selection is the temporal scope of a request. Exactly one of the two
// variants is meaningful, as indicated by Kind.
type Selection struct {
	Kind   Kind
	Months int
	Start  YearMonth
	End    YearMonth
}

// Months builds a relative selection.
func Months(n int) Selection {
	return Selection{Kind: Relative, Months: n}
}

// Between builds a range selection.
func Between(start, end YearMonth) Selection {
	return Selection{Kind: Range, Start: start, End: end}
}

// DefaultRange returns the range ending in the month of now and starting
// the given number of years earlier.
func DefaultRange(now time.Time, years int) Selection {
	end := Of(now)
	return Between(end.AddMonths(-12*years), end)
}

// Validate rejects empty and inverted selections. BuildParams never calls
// it; the remote service is the authority on what it accepts.
func (s Selection) Validate() error {
	switch s.Kind {
	case Relative:
		if s.Months <= 0 {
			return fmt.Errorf("month count must be positive, got %d", s.Months)
		}
	case Range:
		if s.Start.After(s.End) {
			return fmt.Errorf("start %s is after end %s", s.Start, s.End)
		}
	default:
		return fmt.Errorf("unknown period kind %d", int(s.Kind))
	}
	return nil
}

// Label is the filename fragment describing the selection.
func (s Selection) Label() string {
	if s.Kind == Relative {
		return fmt.Sprintf("_최근%d개월", s.Months)
	}
	return fmt.Sprintf("_%s_%s", s.Start, s.End)
}

func (s Selection) String() string {
	if s.Kind == Relative {
		return fmt.Sprintf("last %d months", s.Months)
	}
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. Unlike url.Values it keeps
// insertion order when encoded.
type Params []Param

// Encode renders the parameters as a query string in insertion order.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, kv := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.Value))
	}
	return sb.String()
}

// Get returns the first value for key.
func (p Params) Get(key string) string {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}

// Values converts the list into url.Values.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for _, kv := range p {
		v.Add(kv.Key, kv.Value)
	}
	return v
}

// BuildParams derives the canonical query for a selection. It is a pure
// function of its input and performs no validation.
func BuildParams(s Selection) Params {
	if s.Kind == Relative {
		return Params{
			{Key: "periodType", Value: "months"},
			{Key: "monthCount", Value: strconv.Itoa(s.Months)},
		}
	}
	return Params{
		{Key: "periodType", Value: "range"},
		{Key: "startDate", Value: s.Start.String()},
		{Key: "endDate", Value: s.End.String()},
	}
}
