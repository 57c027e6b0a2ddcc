// Package gate1 implements the 4H HTF-clarity filter: the first fail-closed
// checkpoint every symbol must clear before derivatives or structure are read.
package gate1

import (
	"perpgate/internal/model"
	"perpgate/internal/smc"
)

const minCandles4h = 80

var spreadCapPct = map[model.CoinGroup]float64{
	model.CoinGroupCore:        0.02,
	model.CoinGroupMajor:       0.06,
	model.CoinGroupAltLowPrice: 0.25,
	model.CoinGroupAlt:         0.15,
}

// Evaluate runs the HTF clarity checks and, on success, attaches the
// liquidity targets a later stage (planner) needs for its TP ladder.
func Evaluate(symbol string, candles4h []model.Candle, spreadPct *float64) model.Gate1Result {
	if len(candles4h) < minCandles4h {
		return model.Gate1Result{Passed: false, Reason: "insufficient_4h_candles"}
	}

	group := model.ClassifyCoinGroup(symbol)
	spreadCap := spreadCapPct[group]
	if spreadPct != nil && *spreadPct > spreadCap {
		return model.Gate1Result{Passed: false, Reason: "spread_too_wide_" + string(group)}
	}

	bias, ok := smc.ComputeHTFBias(candles4h)
	if !ok {
		return model.Gate1Result{Passed: false, Reason: "insufficient_4h_candles"}
	}

	result := model.Gate1Result{
		HTFBias:   bias.Bias,
		Location:  bias.Location,
		PosPct:    bias.PosPct,
		RangeHigh: bias.RangeHigh,
		RangeLow:  bias.RangeLow,
	}

	extreme := bias.PosPct <= 0.30 || bias.PosPct >= 0.70
	if bias.Bias == model.BiasRange && !extreme {
		result.Reason = "mid_range_4h"
		return result
	}
	if bias.Bias != model.BiasRange && bias.PosPct > 0.42 && bias.PosPct < 0.58 {
		result.Reason = "no_clarity"
		return result
	}

	targets := smc.ComputeLiquidityTargets(candles4h)
	if targets.Above == nil && targets.Below == nil {
		result.Reason = "no_liquidity_target"
		return result
	}

	result.SwingHighs = targets.AboveTail
	result.SwingLows = targets.BelowTail
	result.LiquidityAbove = targets.AboveTail
	result.LiquidityBelow = targets.BelowTail
	result.Passed = true
	result.Reason = "ok"
	return result
}
