package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"cpi-console/internal/backend"
	"cpi-console/internal/delivery"
	"cpi-console/internal/period"
	"cpi-console/internal/render"
	"cpi-console/internal/statistic"

	"github.com/rs/zerolog/log"
)

const (
	msgNoFile    = "파일을 선택해주세요."
	msgConverted = "변환이 완료되었습니다!"
)

// Options configures a Controller.
type Options struct {
	Client   backend.Client
	Delivery *delivery.Handler
	View     View

	// Schedule orders the cards of a period analysis. Defaults to
	// render.PeriodSchedule; the legacy analysis always uses
	// render.LegacySchedule.
	Schedule     render.Schedule
	DatasetLabel string
	Now          func() time.Time

	// UnlockReports enables the report actions without a prior analysis.
	// Used by one-shot CLI commands.
	UnlockReports bool
}

// Result is the outcome of one dispatched action.
type Result struct {
	Action   Action
	State    State
	Message  string
	Cards    []render.Card
	Document *render.Document
	Receipt  *delivery.Receipt
}

// Failed reports whether the action ended in the Error state.
func (r Result) Failed() bool {
	return r.State == Error
}

// Controller serializes requests per action against the statistics service
// and reflects their lifecycle into a View.
type Controller struct {
	client   backend.Client
	delivery *delivery.Handler
	view     View
	schedule render.Schedule
	label    string
	now      func() time.Time

	mu       sync.Mutex
	controls map[Action]*control

	// Written only on a successful analysis.
	cacheMu       sync.RWMutex
	lastStats     statistic.Set
	lastSelection *period.Selection
}

// New builds a controller. Report and LegacyReport start disabled unless
// opts.UnlockReports is set.
func New(opts Options) *Controller {
	c := &Controller{
		client:   opts.Client,
		delivery: opts.Delivery,
		view:     opts.View,
		schedule: opts.Schedule,
		label:    opts.DatasetLabel,
		now:      opts.Now,
		controls: make(map[Action]*control, len(Actions)),
	}
	if c.view == nil {
		c.view = NopView{}
	}
	if len(c.schedule.Keys) == 0 {
		c.schedule = render.PeriodSchedule
	}
	if c.label == "" {
		c.label = delivery.DefaultDatasetLabel
	}
	if c.now == nil {
		c.now = time.Now
	}
	for _, a := range Actions {
		gated := a == Report || a == LegacyReport
		c.controls[a] = &control{unlocked: !gated || opts.UnlockReports}
	}
	return c
}

// Status returns a snapshot of one action.
func (c *Controller) Status(a Action) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked(a)
}

// Snapshot returns the status of every action in display order.
func (c *Controller) Snapshot() []Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Status, 0, len(Actions))
	for _, a := range Actions {
		out = append(out, c.statusLocked(a))
	}
	return out
}

func (c *Controller) statusLocked(a Action) Status {
	ctl := c.controls[a]
	return Status{Action: a, Name: a.String(), State: ctl.state.String(), Enabled: ctl.enabled(), Message: ctl.message}
}

// LastAnalysis returns the statistics of the last successful analysis and
// the selection it was made with. The selection is nil for a legacy
// analysis or when no analysis has succeeded.
func (c *Controller) LastAnalysis() (statistic.Set, *period.Selection) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	if c.lastSelection == nil {
		return c.lastStats, nil
	}
	sel := *c.lastSelection
	return c.lastStats, &sel
}

func (c *Controller) remember(stats statistic.Set, sel *period.Selection) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.lastStats = stats
	c.lastSelection = sel
}

// begin moves a to Loading. It is the only gate against duplicate
// submission: checking and setting happen under one lock.
func (c *Controller) begin(a Action) error {
	ctl := c.controls[a]
	ctl.viewMu.Lock()
	defer ctl.viewMu.Unlock()

	c.mu.Lock()
	switch {
	case ctl.state == Loading:
		c.mu.Unlock()
		return ErrBusy
	case !ctl.unlocked:
		c.mu.Unlock()
		return ErrDisabled
	}
	ctl.state = Loading
	ctl.message = ""
	c.mu.Unlock()

	c.notify(a, func(v View) {
		v.ClearError(a)
		v.SetLoading(a, true)
		v.SetEnabled(a, false)
	})
	return nil
}

// finish records the outcome, then clears the loading indicator and
// re-enables the control. A dispatch of the same action waits in begin
// until the view has been updated.
func (c *Controller) finish(a Action, res Result) {
	ctl := c.controls[a]
	ctl.viewMu.Lock()
	defer ctl.viewMu.Unlock()

	c.mu.Lock()
	ctl.state = res.State
	ctl.message = res.Message
	enabled := ctl.enabled()
	c.mu.Unlock()

	c.notify(a, func(v View) {
		if res.State == Error {
			v.ShowError(a, res.Message)
		}
		v.SetLoading(a, false)
		v.SetEnabled(a, enabled)
	})
}

func (c *Controller) unlock(a Action) {
	ctl := c.controls[a]
	ctl.viewMu.Lock()
	defer ctl.viewMu.Unlock()

	c.mu.Lock()
	ctl.unlocked = true
	enabled := ctl.enabled()
	c.mu.Unlock()

	c.notify(a, func(v View) { v.SetEnabled(a, enabled) })
}

// notify shields the controller's bookkeeping from a misbehaving view.
func (c *Controller) notify(a Action, fn func(View)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("action", a.String()).Interface("panic", r).Msg("View update panicked")
		}
	}()
	fn(c.view)
}

// run executes op for action a between begin and finish. A panic inside op
// is turned into an Error result; finish runs exactly once on every path.
func (c *Controller) run(a Action, op func() Result) (res Result, err error) {
	if err := c.begin(a); err != nil {
		log.Debug().Str("action", a.String()).Err(err).Msg("Dispatch rejected")
		return Result{Action: a, State: c.stateOf(a)}, err
	}

	start := time.Now()
	log.Debug().Str("action", a.String()).Msg("Dispatch started")

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("action", a.String()).Interface("panic", r).Msg("Dispatch panicked")
			res = c.failure(a, fmt.Errorf("%v", r))
		}
		res.Action = a
		c.finish(a, res)

		ev := log.Info()
		if res.State == Error {
			ev = log.Warn().Str("message", res.Message)
		}
		ev.Str("action", a.String()).Str("state", res.State.String()).Dur("elapsed", time.Since(start)).Msg("Dispatch finished")
	}()

	return op(), nil
}

func (c *Controller) stateOf(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controls[a].state
}

// failure maps an error from the client or the delivery handler to the
// message shown for action a.
func (c *Controller) failure(a Action, err error) Result {
	var (
		te  *backend.TransportError
		ae  *backend.APIError
		msg string
	)
	switch {
	case errors.As(err, &te):
		msg = a.category() + " 오류: " + te.Detail()
	case errors.As(err, &ae):
		msg = ae.Message
		if msg == "" {
			msg = a.fallback()
		}
	default:
		msg = a.category() + " 오류: " + err.Error()
	}
	return Result{Action: a, State: Error, Message: msg}
}

// rejected is the result of a response whose success indicator is false.
func rejected(a Action, message string) Result {
	if message == "" {
		message = a.fallback()
	}
	return Result{Action: a, State: Error, Message: message}
}

// RunAnalysis requests statistics for sel and projects them into cards. On
// success the selection is cached for DownloadReport and Report is enabled.
func (c *Controller) RunAnalysis(ctx context.Context, sel period.Selection) (Result, error) {
	return c.run(Analyze, func() Result {
		resp, err := c.client.Statistics(ctx, period.BuildParams(sel))
		if err != nil {
			return c.failure(Analyze, err)
		}
		if !resp.Success {
			return rejected(Analyze, resp.Error)
		}

		cards := render.Project(resp.Statistics, c.schedule)
		c.view.ShowCards(Analyze, cards)
		c.remember(resp.Statistics, &sel)
		c.unlock(Report)
		return Result{State: Success, Cards: cards}
	})
}

// RunLegacyAnalysis requests statistics for the period the service picks
// itself. On success LegacyReport is enabled.
func (c *Controller) RunLegacyAnalysis(ctx context.Context) (Result, error) {
	return c.run(Analyze, func() Result {
		resp, err := c.client.Statistics(ctx, nil)
		if err != nil {
			return c.failure(Analyze, err)
		}
		if !resp.Success {
			return rejected(Analyze, resp.Error)
		}

		cards := render.Project(resp.Statistics, render.LegacySchedule)
		c.view.ShowCards(Analyze, cards)
		c.remember(resp.Statistics, nil)
		c.unlock(LegacyReport)
		return Result{State: Success, Cards: cards}
	})
}

// DownloadReport fetches the press release for the selection of the last
// successful analysis, or for current when there is none.
func (c *Controller) DownloadReport(ctx context.Context, current period.Selection) (Result, error) {
	return c.run(Report, func() Result {
		sel := current
		if _, cached := c.LastAnalysis(); cached != nil {
			sel = *cached
		}

		resp, err := c.client.PressRelease(ctx, period.BuildParams(sel))
		if err != nil {
			return c.failure(Report, err)
		}
		if !resp.Success {
			return rejected(Report, resp.Error)
		}

		doc := render.Document{Title: "보도자료", HTML: resp.HTML}
		c.view.ShowDocument(Report, doc)
		return Result{State: Success, Document: &doc}
	})
}

// DownloadData exports the spreadsheet for sel. The selection is always the
// one passed in, never the cached one.
func (c *Controller) DownloadData(ctx context.Context, sel period.Selection) (Result, error) {
	return c.run(DataDownload, func() Result {
		blob, err := c.client.DownloadData(ctx, period.BuildParams(sel))
		if err != nil {
			return c.failure(DataDownload, err)
		}
		return c.deliver(ctx, DataDownload, blob, delivery.DataExportName(c.label, c.now(), sel))
	})
}

// DownloadLegacyReport fetches the press release document of the legacy
// service.
func (c *Controller) DownloadLegacyReport(ctx context.Context) (Result, error) {
	return c.run(LegacyReport, func() Result {
		blob, err := c.client.LegacyPressRelease(ctx)
		if err != nil {
			return c.failure(LegacyReport, err)
		}
		return c.deliver(ctx, LegacyReport, blob, delivery.LegacyReportName(c.label, c.now()))
	})
}

// ConvertFile uploads a PDF and delivers the converted document.
func (c *Controller) ConvertFile(ctx context.Context, name string, r io.Reader) (Result, error) {
	return c.run(Convert, func() Result {
		if name == "" || r == nil {
			return Result{State: Error, Message: msgNoFile}
		}

		blob, err := c.client.ConvertPDF(ctx, name, r)
		if err != nil {
			return c.failure(Convert, err)
		}
		res := c.deliver(ctx, Convert, blob, delivery.ConvertedName(name))
		if res.State == Success {
			res.Message = msgConverted
			c.view.ShowNotice(Convert, msgConverted)
		}
		return res
	})
}

// UploadSpreadsheet sends a spreadsheet for analysis and shows the returned
// insights and generated press release.
func (c *Controller) UploadSpreadsheet(ctx context.Context, name string, r io.Reader) (Result, error) {
	return c.run(Upload, func() Result {
		if name == "" || r == nil {
			return Result{State: Error, Message: msgNoFile}
		}

		resp, err := c.client.Upload(ctx, name, r)
		if err != nil {
			return c.failure(Upload, err)
		}
		if !resp.Success {
			return rejected(Upload, resp.Error)
		}

		insights := render.ProjectInsights(resp.Insights)
		c.view.ShowInsights(insights, resp.PressRelease)
		doc := render.Document{Title: name, Text: resp.PressRelease, Insights: insights}
		return Result{State: Success, Document: &doc}
	})
}

func (c *Controller) deliver(ctx context.Context, a Action, blob *backend.Blob, name string) Result {
	if c.delivery == nil {
		return Result{State: Error, Message: a.category() + " 오류: no download destination configured"}
	}
	receipt, err := c.delivery.Deliver(ctx, blob, name)
	if err != nil {
		return c.failure(a, err)
	}
	c.view.Delivered(a, receipt)
	return Result{State: Success, Receipt: &receipt}
}
