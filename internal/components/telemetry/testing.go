package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call made to a TestAPI.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

// TestAPI records every report it receives, it is safe for concurrent use.
type TestAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewTestAPI() *TestAPI {
	return &TestAPI{}
}

func (t *TestAPI) record(kind, id string, params []any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.reports = append(t.reports, Report{Kind: kind, Id: id, Params: params})
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.record("broken", id, params)
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.record("warning", id, params)
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.record("debug", msg, params)
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.record("count", id, []any{count})
}

// Reports returns the reports of the given kind whose id ends with `suffix`.
func (t *TestAPI) Reports(kind, suffix string) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var out []Report
	for _, r := range t.reports {
		if r.Kind == kind && strings.HasSuffix(r.Id, suffix) {
			out = append(out, r)
		}
	}
	return out
}
