// Package journal records the per-stage structured outcome of every scan
// tick: one entry per symbol, whether it ended in a rejection or a candidate.
package journal

import (
	"fmt"
	"log"

	"perpgate/internal/model"
)

// Stage identifies which pipeline step produced an Entry.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageGate1   Stage = "gate1"
	StageGate2   Stage = "gate2"
	StageGate3   Stage = "gate3"
	StagePlanner Stage = "planner"
	StageScorer  Stage = "scorer"
)

// Entry is a single structured journal record: (symbol, stage, reason,
// context). Context carries whatever numeric/string detail explains the
// reason without needing a probe back into the gate result.
type Entry struct {
	Symbol  string
	Stage   Stage
	Reason  string
	Context map[string]any

	Plan  *model.TradePlan
	Score *model.ScoreResult
}

func (e Entry) String() string {
	if e.Plan != nil && e.Score != nil {
		return fmt.Sprintf("🟢 [%s] tier=%s score=%d rr=%.2f intent=%s entry1=%.6f sl=%.6f",
			e.Symbol, e.Score.Tier, e.Score.Score, e.Score.RRTp2, e.Plan.Intent, e.Plan.Entry1, e.Plan.SL)
	}
	return fmt.Sprintf("⛔ [%s/%s] %s %+v", e.Symbol, e.Stage, e.Reason, e.Context)
}

// Sink consumes journal entries. Implementations must not block the tick for
// long; the orchestrator fans out to sinks synchronously but each should be
// cheap or internally async.
type Sink interface {
	Record(Entry)
}

// LogSink is the always-on sink: every entry also goes to the process log.
type LogSink struct{}

func (LogSink) Record(e Entry) {
	log.Println(e.String())
}

// MultiSink fans an entry out to several sinks.
type MultiSink []Sink

func (m MultiSink) Record(e Entry) {
	for _, s := range m {
		s.Record(e)
	}
}
