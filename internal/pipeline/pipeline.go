// Package pipeline runs the full per-symbol cascade: rolling-derivatives
// update, Gate 1, Gate 2, Gate 3, Planner, Scorer, emitting one journal Entry.
package pipeline

import (
	"context"
	"time"

	"perpgate/internal/derivatives"
	"perpgate/internal/gate1"
	"perpgate/internal/gate2"
	"perpgate/internal/gate3"
	"perpgate/internal/journal"
	"perpgate/internal/market"
	"perpgate/internal/model"
	"perpgate/internal/planner"
	"perpgate/internal/scorer"
)

// Config carries the scoring/planning thresholds needed per tick.
type Config struct {
	MinRRTp2  float64
	ScorerCfg scorer.Config
	Venue     string
}

// Pipeline bundles the dependencies needed to run one symbol end to end.
type Pipeline struct {
	Fetcher *market.Fetcher
	Engine  *derivatives.Engine
	Config  Config
}

// RunSymbol fetches the snapshot, updates the rolling derivatives series
// unconditionally, then runs gates/planner/scorer in sequence, returning the
// single journal Entry that resulted (rejection or candidate) plus the mark
// price (for price-monitoring callers), or an error for fetch-class failures.
func (p *Pipeline) RunSymbol(ctx context.Context, symbol string) (journal.Entry, float64, error) {
	snap, err := p.Fetcher.Fetch(ctx, symbol)
	if err != nil {
		return journal.Entry{}, 0, err
	}

	now := time.Now().Unix()
	derivCtx := p.Engine.Update(p.Config.Venue, symbol, now, snap.Deriv1h)

	g1 := gate1.Evaluate(symbol, snap.Candles4h, snap.SpreadPct)
	if !g1.Passed {
		return reject(symbol, journal.StageGate1, g1.Reason, map[string]any{"pos_pct": g1.PosPct}), markOf(snap), nil
	}

	g2 := gate2.Evaluate(derivCtx)
	if !g2.Passed {
		ctxMap := map[string]any{"regime": g2.Regime, "alert_only": g2.AlertOnly}
		return reject(symbol, journal.StageGate2, g2.Reason, ctxMap), markOf(snap), nil
	}

	g3 := gate3.Evaluate(snap.Candles1h, snap.Candles15m, g1, g2)
	if !g3.Passed {
		return reject(symbol, journal.StageGate3, g3.Reason, map[string]any{"intent": g3.Intent}), markOf(snap), nil
	}

	mark := markOf(snap)
	plan, ok, reason := planner.Build(symbol, snap.Candles15m, g1, g3, mark, p.Config.MinRRTp2)
	if !ok {
		return reject(symbol, journal.StagePlanner, reason, map[string]any{}), mark, nil
	}

	score := scorer.Score(p.Config.ScorerCfg, g1, g2, g3, plan)
	if !score.Passed {
		return reject(symbol, journal.StageScorer, "tier_not_tradeable", map[string]any{"tier": score.Tier}), mark, nil
	}

	return journal.Entry{Symbol: symbol, Plan: &plan, Score: &score}, mark, nil
}

func reject(symbol string, stage journal.Stage, reason string, ctx map[string]any) journal.Entry {
	return journal.Entry{Symbol: symbol, Stage: stage, Reason: reason, Context: ctx}
}

func markOf(snap model.MarketSnapshot) float64 {
	if snap.MarkPrice != nil {
		return *snap.MarkPrice
	}
	if n := len(snap.Candles15m); n > 0 {
		return snap.Candles15m[n-1].Close
	}
	return 0
}
