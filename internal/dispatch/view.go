package dispatch

import (
	"cpi-console/internal/delivery"
	"cpi-console/internal/render"
)

// View is the presentation port the controller drives. Implementations need
// not be safe for concurrent use by different actions unless they are shared
// between goroutines. Updates for one action arrive in the order the
// action's state changed; a callback must not dispatch that same action.
type View interface {
	SetLoading(a Action, loading bool)
	SetEnabled(a Action, enabled bool)
	ClearError(a Action)
	ShowError(a Action, msg string)
	ShowNotice(a Action, msg string)
	ShowCards(a Action, cards []render.Card)
	ShowDocument(a Action, doc render.Document)
	ShowInsights(cards []render.InsightCard, pressRelease string)
	Delivered(a Action, receipt delivery.Receipt)
}

// NopView ignores every update.
type NopView struct{}

func (NopView) SetLoading(Action, bool) {}
func (NopView) SetEnabled(Action, bool) {}
func (NopView) ClearError(Action) {}
func (NopView) ShowError(Action, string) {}
func (NopView) ShowNotice(Action, string) {}
func (NopView) ShowCards(Action, []render.Card) {}
func (NopView) ShowDocument(Action, render.Document) {}
func (NopView) ShowInsights([]render.InsightCard, string) {}
func (NopView) Delivered(Action, delivery.Receipt) {}
