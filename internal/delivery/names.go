package delivery

import (
	"regexp"
	"strings"
	"time"

	"cpi-console/internal/period"
)

// DefaultDatasetLabel prefixes every derived file name.
const DefaultDatasetLabel = "소비자물가지수"

var pdfSuffix = regexp.MustCompile(`(?i)\.pdf$`)

// DataExportName is the file name of a spreadsheet export made on day now
// for the given selection, e.g. 소비자물가지수_20250317_최근6개월.xlsx.
func DataExportName(label string, now time.Time, sel period.Selection) string {
	return label + "_" + now.Format("20060102") + sel.Label() + ".xlsx"
}

// ConvertedName replaces a trailing .pdf (any case) with .docx. Other
// extensions are kept and .docx is appended.
func ConvertedName(source string) string {
	return pdfSuffix.ReplaceAllString(source, "") + ".docx"
}

// LegacyReportName is the file name of a press release downloaded from the
// legacy endpoint. The date is taken in UTC.
func LegacyReportName(label string, now time.Time) string {
	return label + "_보도자료_" + now.UTC().Format("2006-01-02") + ".docx"
}

// Sanitize strips directory components and characters that are not valid in
// file names on common platforms.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}
