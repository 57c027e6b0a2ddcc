// Package planner turns a confirmed Gate 3 candidate into a fully priced
// entry/stop/take-profit ladder and computes risk:reward against it.
package planner

import (
	"math"

	"perpgate/internal/indicator"
	"perpgate/internal/model"
)

const (
	slPadZoneMult = 0.15
	slPadATRMult  = 0.25
	minRisk       = 1e-12
)

var leewayMult = map[model.CoinGroup]float64{
	model.CoinGroupCore:        0.10,
	model.CoinGroupMajor:       0.14,
	model.CoinGroupAlt:         0.18,
	model.CoinGroupAltLowPrice: 0.22,
}

var leewayFallbackBps = map[model.CoinGroup]float64{
	model.CoinGroupCore:        3,
	model.CoinGroupMajor:       5,
	model.CoinGroupAlt:         10,
	model.CoinGroupAltLowPrice: 12,
}

// Build constructs a TradePlan from a passing Gate 3 result. minRRTp2 gates
// acceptance: the plan is only returned (ok=true) if RR to TP2 from either
// entry meets it.
func Build(symbol string, candles15m []model.Candle, g1 model.Gate1Result, g3 model.Gate3Result, mark float64, minRRTp2 float64) (model.TradePlan, bool, string) {
	if !g3.Passed || g3.Zone == nil || g3.TP2Candidate == nil {
		return model.TradePlan{}, false, "no_candidate"
	}

	top, bottom := g3.Zone.Top, g3.Zone.Bottom
	if bottom > top {
		top, bottom = bottom, top
	}
	mid := (top + bottom) / 2
	height := top - bottom

	atr15, ok := indicator.ATR(candles15m, 14)
	if !ok {
		return model.TradePlan{}, false, "insufficient_15m_candles"
	}

	pad := math.Max(height*slPadZoneMult, atr15*slPadATRMult)
	if pad < minRisk {
		pad = minRisk
	}

	entry1 := mid
	var entry2 float64
	var sl float64

	switch g3.Intent {
	case model.IntentLong:
		entry2 = bottom
		sl = bottom - pad
	case model.IntentShort:
		entry2 = top
		sl = top + pad
	default:
		return model.TradePlan{}, false, "no_intent"
	}

	risk := math.Abs(entry1 - sl)
	if risk <= minRisk {
		return model.TradePlan{}, false, "degenerate_risk"
	}

	tp2 := *g3.TP2Candidate
	tps := buildLadder(g3.Intent, entry1, sl, risk, tp2, g1, g3.Structure)

	rrTp2 := rr(entry1, sl, tp2)
	rrTp2Entry2 := rr(entry2, sl, tp2)

	passed := rrTp2 >= minRRTp2 || rrTp2Entry2 >= minRRTp2
	reason := "ok"
	if !passed {
		reason = "rr_below_min"
	}

	group := model.ClassifyCoinGroup(symbol)
	leeway := atr15 * leewayMult[group]
	leewayReason := "atr_mult"
	if leeway <= 0 {
		leeway = mark * leewayFallbackBps[group] / 10000
		leewayReason = "bps_fallback"
	}

	plan := model.TradePlan{
		Symbol:       symbol,
		Intent:       g3.Intent,
		Entry1:       entry1,
		Entry2:       &entry2,
		SL:           sl,
		SLReason:     "zone_atr_pad",
		TPs:          tps,
		RiskPerUnit:  risk,
		RRTp2:        &rrTp2,
		RRTp2Entry2:  &rrTp2Entry2,
		LeewayPrice:  leeway,
		LeewayReason: leewayReason,
		Meta: map[string]any{
			"zone_top":    top,
			"zone_bottom": bottom,
			"zone_height": height,
			"sl_pad":      pad,
			"coin_group":  group,
		},
	}
	return plan, passed, reason
}

func rr(entry, sl, tp float64) float64 {
	risk := math.Abs(entry - sl)
	if risk <= minRisk {
		return 0
	}
	return math.Abs(tp-entry) / risk
}

func buildLadder(intent model.Intent, entry1, sl, risk, tp2 float64, g1 model.Gate1Result, structure model.Structure1HResult) [5]model.TPLevel {
	var tps [5]model.TPLevel

	tp1 := tp1Candidate(intent, entry1, risk, structure, tp2)
	tps[0] = model.TPLevel{Name: "TP1", Price: tp1.price, Reason: tp1.reason}
	tps[1] = model.TPLevel{Name: "TP2", Price: tp2, Reason: "gate3_liquidity_target"}

	rest := furtherLevels(intent, tp2, g1)
	rIdx := 2
	for i := 0; i < len(rest) && rIdx < 5; i++ {
		tps[rIdx] = model.TPLevel{Name: tpName(rIdx), Price: rest[i], Reason: "liquidity_ladder"}
		rIdx++
	}
	rMult := 2.0
	for rIdx < 5 {
		price := rMultPrice(intent, entry1, risk, rMult)
		tps[rIdx] = model.TPLevel{Name: tpName(rIdx), Price: price, Reason: "r_multiple_fallback"}
		rIdx++
		rMult++
	}

	repairMonotonic(intent, &tps)
	return tps
}

type tpCandidate struct {
	price  float64
	reason string
}

func tp1Candidate(intent model.Intent, entry1, risk float64, structure model.Structure1HResult, tp2 float64) tpCandidate {
	fallback := rMultPrice(intent, entry1, risk, 1)
	breakLevel := structure.BreakLevel

	if intent == model.IntentLong {
		if sh := structure.LastSwingHigh; sh != nil && *sh > entry1 && *sh < tp2 {
			return tpCandidate{*sh, "1h_swing"}
		}
		if breakLevel != nil && *breakLevel > entry1 && *breakLevel < tp2 {
			return tpCandidate{*breakLevel, "break_level"}
		}
	} else {
		if sl := structure.LastSwingLow; sl != nil && *sl < entry1 && *sl > tp2 {
			return tpCandidate{*sl, "1h_swing"}
		}
		if breakLevel != nil && *breakLevel < entry1 && *breakLevel > tp2 {
			return tpCandidate{*breakLevel, "break_level"}
		}
	}
	return tpCandidate{fallback, "r_multiple_fallback"}
}

func furtherLevels(intent model.Intent, tp2 float64, g1 model.Gate1Result) []float64 {
	var out []float64
	if intent == model.IntentLong {
		for _, lvl := range g1.SwingHighs {
			if lvl > tp2 {
				out = append(out, lvl)
			}
		}
	} else {
		for _, lvl := range g1.SwingLows {
			if lvl < tp2 {
				out = append(out, lvl)
			}
		}
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func rMultPrice(intent model.Intent, entry1, risk, mult float64) float64 {
	if intent == model.IntentLong {
		return entry1 + risk*mult
	}
	return entry1 - risk*mult
}

func tpName(idx int) string {
	return [5]string{"TP1", "TP2", "TP3", "TP4", "TP5"}[idx]
}

// repairMonotonic enforces strictly increasing (LONG) or decreasing (SHORT)
// TP prices, replacing any level that violates order with a price 0.1% (of
// the predecessor's price) beyond its predecessor.
func repairMonotonic(intent model.Intent, tps *[5]model.TPLevel) {
	for i := 1; i < 5; i++ {
		prev, cur := tps[i-1].Price, tps[i].Price
		violates := (intent == model.IntentLong && cur <= prev) || (intent == model.IntentShort && cur >= prev)
		if violates {
			step := math.Abs(prev) * 0.001
			if intent == model.IntentLong {
				tps[i].Price = prev + step
			} else {
				tps[i].Price = prev - step
			}
			tps[i].Reason = "monotonicity_repair"
		}
	}
}
