package dispatch

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cpi-console/internal/backend"
	"cpi-console/internal/delivery"
	"cpi-console/internal/mockserver"
	"cpi-console/internal/period"
	"cpi-console/internal/render"
	"cpi-console/internal/statistic"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	calls atomic.Int32

	statistics   func(ctx context.Context, params period.Params) (*backend.StatisticsResponse, error)
	pressRelease func(ctx context.Context, params period.Params) (*backend.PressReleaseResponse, error)
	downloadData func(ctx context.Context, params period.Params) (*backend.Blob, error)
	legacyReport func(ctx context.Context) (*backend.Blob, error)
	convert      func(ctx context.Context, name string, r io.Reader) (*backend.Blob, error)
	upload       func(ctx context.Context, name string, r io.Reader) (*backend.UploadResponse, error)
}

func (f *fakeClient) Statistics(ctx context.Context, params period.Params) (*backend.StatisticsResponse, error) {
	f.calls.Add(1)
	return f.statistics(ctx, params)
}

func (f *fakeClient) PressRelease(ctx context.Context, params period.Params) (*backend.PressReleaseResponse, error) {
	f.calls.Add(1)
	return f.pressRelease(ctx, params)
}

func (f *fakeClient) DownloadData(ctx context.Context, params period.Params) (*backend.Blob, error) {
	f.calls.Add(1)
	return f.downloadData(ctx, params)
}

func (f *fakeClient) LegacyPressRelease(ctx context.Context) (*backend.Blob, error) {
	f.calls.Add(1)
	return f.legacyReport(ctx)
}

func (f *fakeClient) ConvertPDF(ctx context.Context, name string, r io.Reader) (*backend.Blob, error) {
	f.calls.Add(1)
	return f.convert(ctx, name, r)
}

func (f *fakeClient) Upload(ctx context.Context, name string, r io.Reader) (*backend.UploadResponse, error) {
	f.calls.Add(1)
	return f.upload(ctx, name, r)
}

func (f *fakeClient) Health(ctx context.Context) error { return nil }

type recordingView struct {
	NopView

	mu        sync.Mutex
	loadingOn map[Action]int
	released  map[Action]int
	enabled   map[Action]bool
	errors    map[Action]string
	notices   map[Action]string
	cards     []render.Card
	docs      []render.Document
	insights  []render.InsightCard
	receipts  []delivery.Receipt
	panicOn   string
}

func newRecordingView() *recordingView {
	return &recordingView{
		loadingOn: map[Action]int{},
		released:  map[Action]int{},
		enabled:   map[Action]bool{},
		errors:    map[Action]string{},
		notices:   map[Action]string{},
	}
}

func (v *recordingView) SetLoading(a Action, loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if loading {
		v.loadingOn[a]++
	} else {
		v.released[a]++
	}
}

func (v *recordingView) SetEnabled(a Action, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled[a] = enabled
}

func (v *recordingView) ClearError(a Action) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.errors, a)
}

func (v *recordingView) ShowError(a Action, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors[a] = msg
}

func (v *recordingView) ShowNotice(a Action, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices[a] = msg
}

func (v *recordingView) ShowCards(a Action, cards []render.Card) {
	if v.panicOn == "cards" {
		panic("render failure")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards = cards
}

func (v *recordingView) ShowDocument(a Action, doc render.Document) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.docs = append(v.docs, doc)
}

func (v *recordingView) ShowInsights(cards []render.InsightCard, pressRelease string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.insights = cards
}

func (v *recordingView) Delivered(a Action, r delivery.Receipt) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.receipts = append(v.receipts, r)
}

var testNow = time.Date(2025, time.March, 17, 10, 0, 0, 0, time.UTC)

func newController(t *testing.T, client backend.Client, view View, schedule render.Schedule) (*Controller, string) {
	t.Helper()
	dir := t.TempDir()
	c := New(Options{
		Client:   client,
		Delivery: delivery.NewHandler(delivery.DirSink{Dir: dir}),
		View:     view,
		Schedule: schedule,
		Now:      func() time.Time { return testNow.In(time.Local) },
	})
	return c, dir
}

func okStatistics(payload string) func(context.Context, period.Params) (*backend.StatisticsResponse, error) {
	return func(context.Context, period.Params) (*backend.StatisticsResponse, error) {
		resp := &backend.StatisticsResponse{Success: true}
		if err := resp.Statistics.UnmarshalJSON([]byte(payload)); err != nil {
			return nil, err
		}
		return resp, nil
	}
}

func TestRunAnalysis_RangeSelectionSingleCard(t *testing.T) {
	var gotParams period.Params
	client := &fakeClient{statistics: func(ctx context.Context, p period.Params) (*backend.StatisticsResponse, error) {
		gotParams = p
		return okStatistics(`{"전체_평균":{"description":"전체 평균","value":102.3,"unit":"pt"}}`)(ctx, p)
	}}
	view := newRecordingView()
	c, _ := newController(t, client, view, render.LegacySchedule)

	start, _ := period.ParseYearMonth("2023-01")
	end, _ := period.ParseYearMonth("2023-12")
	res, err := c.RunAnalysis(context.Background(), period.Between(start, end))
	require.NoError(t, err)

	assert.Equal(t, "periodType=range&startDate=2023-01&endDate=2023-12", gotParams.Encode())
	assert.Equal(t, Success, res.State)
	require.Len(t, res.Cards, 1)
	assert.Equal(t, "전체 평균", res.Cards[0].Title)
	v, ok := res.Cards[0].Value()
	assert.True(t, ok)
	assert.Equal(t, "102.3pt", v)
	assert.Len(t, res.Cards[0].Lines, 1)
	assert.Equal(t, res.Cards, view.cards)

	assert.True(t, c.Status(Report).Enabled, "report enabled after analysis success")
	stats, sel := c.LastAnalysis()
	assert.Contains(t, stats, "전체_평균")
	require.NotNil(t, sel)
	assert.Equal(t, period.Range, sel.Kind)
}

func TestRunAnalysis_ApplicationErrorKeepsReportDisabled(t *testing.T) {
	client := &fakeClient{statistics: func(context.Context, period.Params) (*backend.StatisticsResponse, error) {
		return &backend.StatisticsResponse{Success: false, Error: "기간이 올바르지 않습니다"}, nil
	}}
	view := newRecordingView()
	c, _ := newController(t, client, view, render.Schedule{})

	res, err := c.RunAnalysis(context.Background(), period.Months(0))
	require.NoError(t, err)
	assert.Equal(t, Error, res.State)
	assert.Equal(t, "기간이 올바르지 않습니다", res.Message)
	assert.Equal(t, "기간이 올바르지 않습니다", view.errors[Analyze])
	assert.True(t, view.enabled[Analyze])
	assert.True(t, c.Status(Analyze).Enabled)

	assert.False(t, c.Status(Report).Enabled)
	_, err = c.DownloadReport(context.Background(), period.Months(6))
	assert.ErrorIs(t, err, ErrDisabled)
	assert.EqualValues(t, 1, client.calls.Load(), "no request for a disabled report")

	stats, sel := c.LastAnalysis()
	assert.Nil(t, stats)
	assert.Nil(t, sel)
}

func TestDispatch_ErrorMessages(t *testing.T) {
	transport := &backend.TransportError{Op: "statistics", Err: errors.New("connection refused")}

	tests := []struct {
		name   string
		run    func(c *Controller) (Result, error)
		client *fakeClient
		want   string
	}{
		{
			name:   "analysis transport",
			client: &fakeClient{statistics: func(context.Context, period.Params) (*backend.StatisticsResponse, error) { return nil, transport }},
			run:    func(c *Controller) (Result, error) { return c.RunAnalysis(context.Background(), period.Months(6)) },
			want:   "서버 연결 오류: connection refused",
		},
		{
			name:   "analysis fallback",
			client: &fakeClient{statistics: func(context.Context, period.Params) (*backend.StatisticsResponse, error) { return &backend.StatisticsResponse{}, nil }},
			run:    func(c *Controller) (Result, error) { return c.RunAnalysis(context.Background(), period.Months(6)) },
			want:   "통계 분석 중 오류가 발생했습니다.",
		},
		{
			name:   "report transport",
			client: &fakeClient{pressRelease: func(context.Context, period.Params) (*backend.PressReleaseResponse, error) { return nil, transport }},
			run:    func(c *Controller) (Result, error) { return c.DownloadReport(context.Background(), period.Months(6)) },
			want:   "보도자료 로드 오류: connection refused",
		},
		{
			name:   "report fallback",
			client: &fakeClient{pressRelease: func(context.Context, period.Params) (*backend.PressReleaseResponse, error) { return &backend.PressReleaseResponse{}, nil }},
			run:    func(c *Controller) (Result, error) { return c.DownloadReport(context.Background(), period.Months(6)) },
			want:   "보도자료 생성 중 오류가 발생했습니다.",
		},
		{
			name:   "data transport",
			client: &fakeClient{downloadData: func(context.Context, period.Params) (*backend.Blob, error) { return nil, transport }},
			run:    func(c *Controller) (Result, error) { return c.DownloadData(context.Background(), period.Months(6)) },
			want:   "자료 다운로드 오류: connection refused",
		},
		{
			name: "data server message",
			client: &fakeClient{downloadData: func(context.Context, period.Params) (*backend.Blob, error) {
				return nil, &backend.APIError{Op: "download-data", Status: 400, Message: "기간이 올바르지 않습니다"}
			}},
			run:  func(c *Controller) (Result, error) { return c.DownloadData(context.Background(), period.Months(0)) },
			want: "기간이 올바르지 않습니다",
		},
		{
			name: "convert fallback",
			client: &fakeClient{convert: func(context.Context, string, io.Reader) (*backend.Blob, error) {
				return nil, &backend.APIError{Op: "pdf-to-docx", Status: 500}
			}},
			run:  func(c *Controller) (Result, error) { return c.ConvertFile(context.Background(), "a.pdf", strings.NewReader("%PDF")) },
			want: "변환 중 오류가 발생했습니다.",
		},
		{
			name:   "upload fallback",
			client: &fakeClient{upload: func(context.Context, string, io.Reader) (*backend.UploadResponse, error) { return &backend.UploadResponse{}, nil }},
			run:    func(c *Controller) (Result, error) { return c.UploadSpreadsheet(context.Background(), "a.xlsx", strings.NewReader("x")) },
			want:   "파일 업로드 중 오류가 발생했습니다.",
		},
		{
			name: "legacy report fallback",
			client: &fakeClient{legacyReport: func(context.Context) (*backend.Blob, error) {
				return nil, &backend.APIError{Op: "press-release", Status: 500}
			}},
			run:  func(c *Controller) (Result, error) { return c.DownloadLegacyReport(context.Background()) },
			want: "보도자료 다운로드 중 오류가 발생했습니다.",
		},
		{
			name:   "legacy report transport",
			client: &fakeClient{legacyReport: func(context.Context) (*backend.Blob, error) { return nil, transport }},
			run:    func(c *Controller) (Result, error) { return c.DownloadLegacyReport(context.Background()) },
			want:   "다운로드 오류: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newRecordingView()
			dir := t.TempDir()
			c := New(Options{
				Client:        tt.client,
				Delivery:      delivery.NewHandler(delivery.DirSink{Dir: dir}),
				View:          view,
				UnlockReports: true,
			})

			res, err := tt.run(c)
			require.NoError(t, err)
			assert.Equal(t, Error, res.State)
			assert.Equal(t, tt.want, res.Message)
			assert.Equal(t, tt.want, view.errors[res.Action])
			assert.Equal(t, 1, view.released[res.Action])
			assert.True(t, c.Status(res.Action).Enabled)

			entries, _ := os.ReadDir(dir)
			assert.Empty(t, entries, "nothing delivered on error")
		})
	}
}

func TestDispatch_BusyIsNoOp(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	client := &fakeClient{
		statistics: func(ctx context.Context, p period.Params) (*backend.StatisticsResponse, error) {
			close(entered)
			<-release
			return okStatistics(`{}`)(ctx, p)
		},
		convert: func(context.Context, string, io.Reader) (*backend.Blob, error) {
			return &backend.Blob{Data: []byte("PK")}, nil
		},
	}
	view := newRecordingView()
	c, _ := newController(t, client, view, render.Schedule{})

	done := make(chan Result)
	go func() {
		res, _ := c.RunAnalysis(context.Background(), period.Months(6))
		done <- res
	}()
	<-entered

	assert.False(t, c.Status(Analyze).Enabled)
	_, err := c.RunAnalysis(context.Background(), period.Months(12))
	assert.ErrorIs(t, err, ErrBusy)
	assert.EqualValues(t, 1, client.calls.Load())

	// Other actions are not blocked by an in-flight analysis.
	res, err := c.ConvertFile(context.Background(), "report.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)

	close(release)
	first := <-done
	assert.Equal(t, Success, first.State)
	assert.Equal(t, 1, view.loadingOn[Analyze])
	assert.Equal(t, 1, view.released[Analyze])
	assert.True(t, c.Status(Analyze).Enabled)
}

// releaseGateView tracks Analyze's indicator and blocks the first release
// until hold is closed.
type releaseGateView struct {
	NopView

	mu      sync.Mutex
	loading bool
	enabled bool

	once sync.Once
	held chan struct{}
	hold chan struct{}
}

func (v *releaseGateView) SetLoading(a Action, loading bool) {
	if a != Analyze {
		return
	}
	if !loading {
		v.once.Do(func() {
			close(v.held)
			<-v.hold
		})
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
}

func (v *releaseGateView) SetEnabled(a Action, enabled bool) {
	if a != Analyze {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled = enabled
}

func (v *releaseGateView) shown() (loading, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading, v.enabled
}

func TestDispatch_RetriggerDuringReleaseKeepsViewConsistent(t *testing.T) {
	secondEntered := make(chan struct{})
	secondRelease := make(chan struct{})
	client := &fakeClient{}
	client.statistics = func(ctx context.Context, p period.Params) (*backend.StatisticsResponse, error) {
		if client.calls.Load() == 2 {
			close(secondEntered)
			<-secondRelease
		}
		return okStatistics(`{}`)(ctx, p)
	}
	view := &releaseGateView{held: make(chan struct{}), hold: make(chan struct{})}
	c, _ := newController(t, client, view, render.Schedule{})

	firstDone := make(chan Result)
	go func() {
		res, _ := c.RunAnalysis(context.Background(), period.Months(6))
		firstDone <- res
	}()
	<-view.held

	secondDone := make(chan error)
	go func() {
		_, err := c.RunAnalysis(context.Background(), period.Months(12))
		secondDone <- err
	}()
	// Let the second dispatch reach begin while the first is releasing.
	time.Sleep(20 * time.Millisecond)
	close(view.hold)

	assert.Equal(t, Success, (<-firstDone).State)
	<-secondEntered

	assert.Equal(t, "loading", c.Status(Analyze).State)
	loading, enabled := view.shown()
	assert.True(t, loading, "view shows the second request loading")
	assert.False(t, enabled, "view keeps the control disabled while loading")

	close(secondRelease)
	require.NoError(t, <-secondDone)
	loading, enabled = view.shown()
	assert.False(t, loading)
	assert.True(t, enabled)
	assert.True(t, c.Status(Analyze).Enabled)
}

func TestDispatch_PanicInViewStillReleasesControl(t *testing.T) {
	client := &fakeClient{statistics: okStatistics(`{"최근_3개월_평균_증가율":{"description":"d","value":1}}`)}
	view := newRecordingView()
	view.panicOn = "cards"
	c, _ := newController(t, client, view, render.Schedule{})

	res, err := c.RunAnalysis(context.Background(), period.Months(6))
	require.NoError(t, err)
	assert.Equal(t, Error, res.State)
	assert.Contains(t, res.Message, "render failure")
	assert.Equal(t, 1, view.released[Analyze])
	assert.True(t, c.Status(Analyze).Enabled)
	assert.False(t, c.Status(Report).Enabled)

	view.panicOn = ""
	res, err = c.RunAnalysis(context.Background(), period.Months(6))
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)
	assert.Equal(t, 2, view.released[Analyze])
}

func TestDownloadReport_UsesCachedSelection(t *testing.T) {
	var reportParams []string
	client := &fakeClient{
		statistics: okStatistics(`{}`),
		pressRelease: func(_ context.Context, p period.Params) (*backend.PressReleaseResponse, error) {
			reportParams = append(reportParams, p.Encode())
			return &backend.PressReleaseResponse{Success: true, HTML: "<h2>보도자료</h2>"}, nil
		},
	}
	view := newRecordingView()
	c, _ := newController(t, client, view, render.Schedule{})

	_, err := c.RunAnalysis(context.Background(), period.Months(12))
	require.NoError(t, err)

	res, err := c.DownloadReport(context.Background(), period.Months(3))
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)
	require.NotNil(t, res.Document)
	assert.Equal(t, "<h2>보도자료</h2>", res.Document.HTML)
	require.Len(t, view.docs, 1)
	assert.Equal(t, []string{"periodType=months&monthCount=12"}, reportParams)
}

func TestDownloadReport_WithoutAnalysisUsesCurrentSelection(t *testing.T) {
	var got string
	client := &fakeClient{pressRelease: func(_ context.Context, p period.Params) (*backend.PressReleaseResponse, error) {
		got = p.Encode()
		return &backend.PressReleaseResponse{Success: true}, nil
	}}
	c := New(Options{Client: client, UnlockReports: true})

	_, err := c.DownloadReport(context.Background(), period.Months(3))
	require.NoError(t, err)
	assert.Equal(t, "periodType=months&monthCount=3", got)
}

func TestDownloadData_DeliversDerivedName(t *testing.T) {
	var got string
	client := &fakeClient{
		statistics: okStatistics(`{}`),
		downloadData: func(_ context.Context, p period.Params) (*backend.Blob, error) {
			got = p.Encode()
			return &backend.Blob{Data: []byte("PK\x03\x04"), SuggestedName: "data.xlsx"}, nil
		},
	}
	view := newRecordingView()
	c, dir := newController(t, client, view, render.Schedule{})

	_, err := c.RunAnalysis(context.Background(), period.Months(24))
	require.NoError(t, err)

	res, err := c.DownloadData(context.Background(), period.Months(6))
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)
	assert.Equal(t, "periodType=months&monthCount=6", got, "data export never uses the cached selection")
	require.NotNil(t, res.Receipt)
	assert.True(t, strings.HasSuffix(res.Receipt.Name, "_최근6개월.xlsx"), res.Receipt.Name)
	assert.Equal(t, "소비자물가지수_"+testNow.In(time.Local).Format("20060102")+"_최근6개월.xlsx", res.Receipt.Name)
	assert.FileExists(t, filepath.Join(dir, res.Receipt.Name))
	require.Len(t, view.receipts, 1)
}

func TestConvertFile(t *testing.T) {
	var uploaded string
	client := &fakeClient{convert: func(_ context.Context, name string, r io.Reader) (*backend.Blob, error) {
		uploaded = name
		return &backend.Blob{Data: []byte("PK"), SuggestedName: "server.docx"}, nil
	}}
	view := newRecordingView()
	c, dir := newController(t, client, view, render.Schedule{})

	res, err := c.ConvertFile(context.Background(), "report.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)
	assert.Equal(t, "report.pdf", uploaded)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, "report.docx", res.Receipt.Name)
	assert.FileExists(t, filepath.Join(dir, "report.docx"))
	assert.Equal(t, "변환이 완료되었습니다!", view.notices[Convert])
}

func TestConvertFile_NoFile(t *testing.T) {
	client := &fakeClient{}
	view := newRecordingView()
	c, _ := newController(t, client, view, render.Schedule{})

	res, err := c.ConvertFile(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, Error, res.State)
	assert.Equal(t, "파일을 선택해주세요.", res.Message)
	assert.EqualValues(t, 0, client.calls.Load())
	assert.Equal(t, 1, view.released[Convert])
}

func TestUploadSpreadsheet(t *testing.T) {
	client := &fakeClient{upload: func(context.Context, string, io.Reader) (*backend.UploadResponse, error) {
		return &backend.UploadResponse{
			Success:      true,
			PressRelease: "보도자료 본문",
			Insights: []statistic.Insight{
				{Title: "요약", Type: statistic.InsightSummary},
				{Title: "추세", Type: statistic.InsightTrend, Data: map[string]any{"chart_data": []any{1.0, 2.0}}},
			},
		}, nil
	}}
	view := newRecordingView()
	c, _ := newController(t, client, view, render.Schedule{})

	res, err := c.UploadSpreadsheet(context.Background(), "cpi.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)
	require.NotNil(t, res.Document)
	assert.Equal(t, "보도자료 본문", res.Document.Text)
	require.Len(t, view.insights, 2)
	assert.Equal(t, 2, view.insights[1].Index)
}

func TestLegacyFlow(t *testing.T) {
	client := &fakeClient{
		statistics: func(ctx context.Context, p period.Params) (*backend.StatisticsResponse, error) {
			if p != nil {
				t.Errorf("legacy analysis sent params %q", p.Encode())
			}
			return okStatistics(`{"전체_평균":{"description":"전체 평균","value":101}}`)(ctx, p)
		},
		legacyReport: func(context.Context) (*backend.Blob, error) {
			return &backend.Blob{Data: []byte("PK")}, nil
		},
	}
	view := newRecordingView()
	c, _ := newController(t, client, view, render.Schedule{})

	_, err := c.DownloadLegacyReport(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)

	res, err := c.RunLegacyAnalysis(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Cards, 1)
	assert.False(t, c.Status(Report).Enabled)
	assert.True(t, c.Status(LegacyReport).Enabled)

	res, err = c.DownloadLegacyReport(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, "소비자물가지수_보도자료_2025-03-17.docx", res.Receipt.Name)
}

func TestSnapshot(t *testing.T) {
	c := New(Options{Client: &fakeClient{}})
	snap := c.Snapshot()
	require.Len(t, snap, len(Actions))
	for _, s := range snap {
		assert.Equal(t, "idle", s.State)
		wantEnabled := s.Action != Report && s.Action != LegacyReport
		assert.Equal(t, wantEnabled, s.Enabled, s.Name)
	}
}

func TestController_AgainstMockBackend(t *testing.T) {
	srv := mockserver.New(zerolog.Nop(), mockserver.Config{
		Generator: mockserver.GeneratorConfig{Scenario: "mild", Seed: 3, Now: time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC)},
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	view := newRecordingView()
	c, dir := newController(t, backend.NewClient(backend.Config{BaseURL: ts.URL}), view, render.Schedule{})
	ctx := context.Background()

	res, err := c.RunAnalysis(ctx, period.Months(0))
	require.NoError(t, err)
	assert.Equal(t, "기간이 올바르지 않습니다", res.Message)
	assert.False(t, c.Status(Report).Enabled)

	res, err = c.RunAnalysis(ctx, period.Months(24))
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)
	assert.NotEmpty(t, res.Cards)
	assert.Equal(t, render.PeriodSchedule.Keys[0], res.Cards[0].Key)

	res, err = c.DownloadReport(ctx, period.Months(6))
	require.NoError(t, err)
	assert.Equal(t, Success, res.State)

	res, err = c.ConvertFile(ctx, "report.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, Success, res.State, res.Message)
	assert.FileExists(t, filepath.Join(dir, "report.docx"))

	res, err = c.ConvertFile(ctx, "notes.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "PDF 파일만 변환할 수 있습니다", res.Message)
}
