package commands

import (
	"fmt"
	"io"
	"os"
	"sync"

	"cpi-console/internal/delivery"
	"cpi-console/internal/dispatch"
	"cpi-console/internal/render"

	"github.com/mattn/go-isatty"
)

const defaultWidth = 100

// terminalView prints the dispatcher's updates. It is shared by concurrent
// actions in batch mode, so writes are serialized.
type terminalView struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	width int
}

func newTerminalView(out, errOut io.Writer) *terminalView {
	v := &terminalView{out: out, err: errOut, width: defaultWidth}
	if f, ok := out.(*os.File); ok && !isatty.IsTerminal(f.Fd()) {
		v.width = 0
	}
	return v
}

func (v *terminalView) printf(w io.Writer, format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(w, format, args...)
}

func (v *terminalView) SetLoading(a dispatch.Action, loading bool) {
	if loading {
		v.printf(v.err, "… %s\n", a)
	}
}

func (v *terminalView) SetEnabled(dispatch.Action, bool) {}

func (v *terminalView) ClearError(dispatch.Action) {}

func (v *terminalView) ShowError(a dispatch.Action, msg string) {
	v.printf(v.err, "%s\n", render.ErrorLine(msg))
}

func (v *terminalView) ShowNotice(a dispatch.Action, msg string) {
	v.printf(v.out, "%s\n", render.NoticeLine(msg))
}

func (v *terminalView) ShowCards(a dispatch.Action, cards []render.Card) {
	if len(cards) == 0 {
		v.printf(v.out, "표시할 통계가 없습니다.\n")
		return
	}
	// Plain text when piped, cards on a terminal.
	if v.width == 0 {
		v.printf(v.out, "%s", render.PlainText(cards))
		return
	}
	v.printf(v.out, "%s\n", render.RenderCards(cards, v.width))
}

func (v *terminalView) ShowDocument(a dispatch.Action, doc render.Document) {
	if doc.HTML != "" {
		v.printf(v.out, "%s\n", doc.HTML)
		return
	}
	v.printf(v.out, "%s\n", doc.Text)
}

func (v *terminalView) ShowInsights(cards []render.InsightCard, pressRelease string) {
	for _, c := range cards {
		v.printf(v.out, "%d. %s\n   %s\n", c.Index, c.Title, c.Description)
		if c.Chart != "" {
			v.printf(v.out, "%s\n", c.Chart)
		}
	}
	if pressRelease != "" {
		v.printf(v.out, "\n%s\n", pressRelease)
	}
}

func (v *terminalView) Delivered(a dispatch.Action, r delivery.Receipt) {
	v.printf(v.out, "%s\n", render.NoticeLine(fmt.Sprintf("%s (%d bytes)", r.Location, r.Size)))
}
