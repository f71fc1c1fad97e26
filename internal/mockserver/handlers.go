package mockserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"cpi-console/internal/period"

	"github.com/rs/zerolog"
)

// ErrInvalidPeriod is reported for non-positive month counts and inverted
// ranges.
var ErrInvalidPeriod = errors.New("기간이 올바르지 않습니다")

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// zipMagic prefixes every fake office document so it sniffs like the real
// thing.
var zipMagic = []byte("PK\x03\x04")

type selection struct {
	legacy bool
	series Series
	label  string
}

func (s *Server) selectWindow(r *http.Request) (selection, error) {
	q := r.URL.Query()
	switch q.Get("periodType") {
	case "":
		return selection{legacy: true, series: s.series.Last(s.legacyMonths), label: fmt.Sprintf("최근 %d개월", s.legacyMonths)}, nil
	case "months":
		n, err := strconv.Atoi(q.Get("monthCount"))
		if err != nil || n <= 0 {
			return selection{}, ErrInvalidPeriod
		}
		return selection{series: s.series.Last(n), label: fmt.Sprintf("최근 %d개월", n)}, nil
	case "range":
		start, err := period.ParseYearMonth(q.Get("startDate"))
		if err != nil {
			return selection{}, ErrInvalidPeriod
		}
		end, err := period.ParseYearMonth(q.Get("endDate"))
		if err != nil || start.After(end) {
			return selection{}, ErrInvalidPeriod
		}
		return selection{series: s.series.Window(start, end), label: fmt.Sprintf("%s ~ %s", start, end)}, nil
	default:
		return selection{}, ErrInvalidPeriod
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func failure(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, map[string]any{"success": false, "error": err.Error()})
}

func attachment(w http.ResponseWriter, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func fakeDocument(lines ...string) []byte {
	var buf bytes.Buffer
	buf.Write(zipMagic)
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selectWindow(r)
	if err != nil {
		failure(w, r, http.StatusInternalServerError, err)
		return
	}

	var stats map[string]entry
	if sel.legacy {
		stats = LegacyStatistics(sel.series)
	} else {
		stats = PeriodStatistics(sel.series)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "statistics": stats})
}

func (s *Server) pressRelease(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selectWindow(r)
	if err != nil {
		failure(w, r, http.StatusInternalServerError, err)
		return
	}

	if sel.legacy {
		name := fmt.Sprintf("보도자료_%s.docx", s.now.Format("20060102"))
		attachment(w, contentTypeDOCX, name, fakeDocument("소비자물가지수 보도자료", sel.label))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<h2>소비자물가지수 동향 (%s)</h2>\n", html.EscapeString(sel.label))
	if n := len(sel.series); n > 0 {
		first, last := sel.series[0], sel.series[n-1]
		fmt.Fprintf(&sb, "<p>%s 소비자물가지수는 %.2f로 %s 대비 %.2f%% 변동하였습니다.</p>\n",
			last.Label, last.Index, first.Label, (last.Index/first.Index-1)*100)
	}
	sb.WriteString("<ul>\n")
	for _, c := range rankCategories(sel.series, func(v []float64) float64 {
		if len(v) < 2 {
			return 0
		}
		return (v[len(v)-1]/v[0] - 1) * 100
	})[:3] {
		fmt.Fprintf(&sb, "<li>%s: %.2f%%</li>\n", html.EscapeString(c.name), c.value)
	}
	sb.WriteString("</ul>\n")

	writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "html": sb.String()})
}

func (s *Server) downloadData(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selectWindow(r)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	lines := []string{"month,index," + strings.Join(Categories, ",")}
	for _, p := range sel.series {
		row := []string{p.Label, strconv.FormatFloat(p.Index, 'f', 2, 64)}
		for _, c := range Categories {
			row = append(row, strconv.FormatFloat(p.Categories[c], 'f', 2, 64))
		}
		lines = append(lines, strings.Join(row, ","))
	}
	attachment(w, contentTypeXLSX, "data.xlsx", fakeDocument(lines...))
}

func readUpload(r *http.Request) (string, []byte, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errors.New("파일이 없습니다")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(r)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "PDF 파일만 변환할 수 있습니다"})
		return
	}

	zerolog.Ctx(r.Context()).Debug().Str("file", name).Int("bytes", len(data)).Msg("converting upload")
	out := strings.TrimSuffix(name, filepath.Ext(name)) + ".docx"
	attachment(w, contentTypeDOCX, out, fakeDocument("converted from "+name, strconv.Itoa(len(data))+" bytes"))
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(r)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls", ".csv":
	default:
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "지원하지 않는 파일 형식입니다"})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success":       true,
		"insights":      s.insights(name, len(data)),
		"press_release": fmt.Sprintf("[보도자료] %s 분석 결과\n\n업로드된 자료(%d bytes)를 분석하였습니다.", name, len(data)),
		"data_preview":  s.series.Last(5),
	})
}

func (s *Server) insights(name string, size int) []map[string]any {
	recent := s.series.Last(12)

	rows := make([]map[string]any, len(recent))
	var maxIdx float64
	for i, p := range recent {
		rows[i] = map[string]any{"지수": p.Index}
		if p.Index > maxIdx {
			maxIdx = p.Index
		}
	}

	means := map[string]float64{}
	stds := map[string]float64{}
	for _, c := range Categories[:4] {
		v := recent.category(c)
		means[c] = round2(mean(v))
		stds[c] = round2(stddev(v))
	}

	growth := growthRates(recent.index())
	dist := map[string]int{}
	for _, g := range growth {
		dist[trendLabel(g)]++
	}
	hist := make([]float64, len(growth))
	for i, g := range growth {
		hist[i] = round2(g)
	}

	return []map[string]any{
		{"title": "데이터 요약", "description": fmt.Sprintf("%s (%d bytes), %d개 항목", name, size, len(recent)), "type": "summary", "data": map[string]any{}},
		{"title": "최대값", "description": fmt.Sprintf("지수의 최대값은 %.2f입니다", maxIdx), "type": "max_value", "data": map[string]any{"column": "지수", "chart_data": rows}},
		{"title": "기초 통계", "description": "주요 지출목적의 평균과 표준편차", "type": "statistics", "data": map[string]any{"means": means, "stds": stds}},
		{"title": "추세", "description": "최근 12개월 지수 추이", "type": "trend", "data": map[string]any{"chart_data": recent.index()}},
		{"title": "분포", "description": "월별 등락 분포", "type": "distribution", "data": map[string]any{"distribution": dist}},
		{"title": "히스토그램", "description": "월간 증가율", "type": "histogram", "data": map[string]any{"values": hist}},
	}
}
