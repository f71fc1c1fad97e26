package dispatch

import (
	"errors"
	"fmt"
	"sync"
)

// Action identifies one user-triggered operation. Each action has its own
// control and its own lifecycle; different actions may run concurrently.
type Action int

const (
	Analyze Action = iota
	Report
	DataDownload
	Convert
	Upload
	LegacyReport
)

// Actions lists every action in display order.
var Actions = []Action{Analyze, Report, DataDownload, Convert, Upload, LegacyReport}

func (a Action) String() string {
	switch a {
	case Analyze:
		return "analyze"
	case Report:
		return "report"
	case DataDownload:
		return "data"
	case Convert:
		return "convert"
	case Upload:
		return "upload"
	case LegacyReport:
		return "legacy-report"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// category prefixes transport failures shown to the user.
func (a Action) category() string {
	switch a {
	case Report:
		return "보도자료 로드"
	case DataDownload:
		return "자료 다운로드"
	case LegacyReport:
		return "다운로드"
	default:
		return "서버 연결"
	}
}

// fallback is shown when the service reports a failure without a message.
func (a Action) fallback() string {
	switch a {
	case Analyze:
		return "통계 분석 중 오류가 발생했습니다."
	case Report:
		return "보도자료 생성 중 오류가 발생했습니다."
	case DataDownload:
		return "자료 다운로드 중 오류가 발생했습니다."
	case Convert:
		return "변환 중 오류가 발생했습니다."
	case Upload:
		return "파일 업로드 중 오류가 발생했습니다."
	case LegacyReport:
		return "보도자료 다운로드 중 오류가 발생했습니다."
	default:
		return "오류가 발생했습니다."
	}
}

// State is the lifecycle of one action.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrBusy is returned when an action is triggered while it is Loading.
	ErrBusy = errors.New("operation already in progress")
	// ErrDisabled is returned when an action's control has not been enabled
	// yet, e.g. a report before any successful analysis.
	ErrDisabled = errors.New("operation is not available yet")
)

// Status is a snapshot of one action's control.
type Status struct {
	Action  Action `json:"-"`
	Name    string `json:"action"`
	State   string `json:"state"`
	Enabled bool   `json:"enabled"`
	Message string `json:"message,omitempty"`
}

type control struct {
	state    State
	unlocked bool
	message  string

	// viewMu orders a state change and its View notification against the
	// next one for the same action. Taken before Controller.mu.
	viewMu sync.Mutex
}

func (c *control) enabled() bool {
	return c.unlocked && c.state != Loading
}
