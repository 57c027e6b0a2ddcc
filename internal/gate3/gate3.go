// Package gate3 confirms structural entry triggers: a 1H BOS/CHoCH or sweep
// with displacement, a clean 15m FVG zone, and a 15m micro-confirmation.
package gate3

import (
	"math"

	"perpgate/internal/indicator"
	"perpgate/internal/model"
	"perpgate/internal/smc"
)

const (
	displacementATRMult = 0.8
	strongDispATRMult   = 1.2
	zoneMaxFillPct      = 0.55
	sweepBufferATRMult  = 0.11
)

// Evaluate runs the structural-confirmation cascade. g1 and g2 must already
// be passing and trade-eligible; callers that skip that check will simply
// get a rejection back.
func Evaluate(candles1h, candles15m []model.Candle, g1 model.Gate1Result, g2 model.Gate2Result) model.Gate3Result {
	if !g1.Passed {
		return model.Gate3Result{Reason: "gate1_fail"}
	}
	if !g2.Passed || g2.AlertOnly {
		return model.Gate3Result{Reason: "gate2_not_trade_eligible"}
	}

	intent, ok := pickIntent(g1.HTFBias, g1.Location)
	if !ok {
		return model.Gate3Result{Reason: "no_clear_intent_htf"}
	}

	structure := smc.AnalyzeStructure1H(candles1h)
	atr1h, haveATR := indicator.ATR(candles1h, 14)
	if !haveATR {
		return model.Gate3Result{Reason: "insufficient_1h_candles", Structure: structure}
	}

	squeeze := g2.Regime == model.RegimeCrowdedSqueeze
	if !triggered(candles1h, structure, intent, squeeze, atr1h) {
		return model.Gate3Result{Reason: "no_1h_trigger", Structure: structure, Intent: intent}
	}

	zones := smc.FindFVG15m(candles15m)
	zone := pickZone(zones, intent)
	if zone == nil {
		return model.Gate3Result{Reason: "no_valid_zone", Structure: structure, Intent: intent}
	}

	atr15, haveATR15 := indicator.ATR(candles15m, 14)
	if !haveATR15 {
		return model.Gate3Result{Reason: "insufficient_15m_candles", Structure: structure, Intent: intent}
	}

	mode := pickMicroMode(g2.DirectionalBiasHint, squeeze)
	strongDisp1h := strongDisplacement(candles1h, atr1h)
	confirmed, notes := microConfirm(candles15m, intent, mode, *zone, atr15, strongDisp1h)
	if !confirmed {
		return model.Gate3Result{Reason: "no_micro_confirm", Structure: structure, Intent: intent, Zone: zone}
	}

	tp2 := tp2FromGate1(g1, structure, intent)

	return model.Gate3Result{
		Passed:       true,
		Reason:       "ok",
		Intent:       intent,
		Structure:    structure,
		Zone:         zone,
		TP2Candidate: tp2,
		Notes:        notes,
	}
}

func pickIntent(bias model.HTFBias, loc model.Location) (model.Intent, bool) {
	switch {
	case bias == model.BiasUp && loc == model.LocationDiscount:
		return model.IntentLong, true
	case bias == model.BiasDown && loc == model.LocationPremium:
		return model.IntentShort, true
	default:
		return "", false
	}
}

func triggered(candles1h []model.Candle, structure model.Structure1HResult, intent model.Intent, squeeze bool, atr1h float64) bool {
	n := len(candles1h)
	if n == 0 {
		return false
	}
	last := candles1h[n-1]
	body := math.Abs(last.Close - last.Open)
	hasDisplacement := body >= displacementATRMult*atr1h

	if !squeeze {
		return (structure.BOS || structure.CHoCH) && hasDisplacement
	}

	if structure.CHoCH && hasDisplacement {
		return true
	}
	return sweepAgainstCrowd(candles1h, intent, structure) && hasDisplacement
}

// sweepAgainstCrowd checks for a liquidity sweep beyond the last opposing
// swing that closes back inside, in the direction the confirmed intent needs.
func sweepAgainstCrowd(candles1h []model.Candle, intent model.Intent, structure model.Structure1HResult) bool {
	n := len(candles1h)
	if n == 0 {
		return false
	}
	last := candles1h[n-1]
	switch intent {
	case model.IntentLong:
		if structure.LastSwingLow == nil {
			return false
		}
		level := *structure.LastSwingLow
		return last.Low < level && last.Close > level
	case model.IntentShort:
		if structure.LastSwingHigh == nil {
			return false
		}
		level := *structure.LastSwingHigh
		return last.High > level && last.Close < level
	default:
		return false
	}
}

func pickZone(zones []model.Zone, intent model.Intent) *model.Zone {
	wantKind := model.ZoneFVGBull
	if intent == model.IntentShort {
		wantKind = model.ZoneFVGBear
	}
	for i := range zones {
		z := zones[i]
		if z.Kind != wantKind {
			continue
		}
		if z.FillPct > zoneMaxFillPct {
			continue
		}
		if z.Top-z.Bottom <= 0 {
			continue
		}
		return &z
	}
	return nil
}

func pickMicroMode(hint string, squeeze bool) int {
	if squeeze {
		return 1
	}
	switch hint {
	case "continuation_preferred":
		return 2
	case "reversal_or_flush_risk", "reversal_or_squeeze_up_risk":
		return 1
	default:
		return 1
	}
}

func microConfirm(candles15m []model.Candle, intent model.Intent, mode int, zone model.Zone, atr15 float64, strongDisp1h bool) (bool, map[string]any) {
	if mode == 2 {
		ok, notes := microConfirmPullbackBreak(candles15m, intent, zone, atr15, strongDisp1h)
		notes["mode"] = 2
		return ok, notes
	}
	ok, notes := microConfirmSweepCHoCH(candles15m, intent, zone, atr15)
	notes["mode"] = 1
	return ok, notes
}

func strongDisplacement(candles1h []model.Candle, atr1h float64) bool {
	n := len(candles1h)
	if n == 0 {
		return false
	}
	last := candles1h[n-1]
	return math.Abs(last.Close-last.Open) >= strongDispATRMult*atr1h
}

// microConfirmSweepCHoCH (mode 1): a sweep of the most recent swing followed
// by a close back through the opposite swing, both on 15m.
func microConfirmSweepCHoCH(candles15m []model.Candle, intent model.Intent, zone model.Zone, atr15 float64) (bool, map[string]any) {
	swings := indicator.FractalSwings(candles15m, 2, 2)
	buf := sweepBufferATRMult * atr15

	var highs, lows []indicator.Swing
	for _, s := range swings {
		if s.High {
			highs = append(highs, s)
		} else {
			lows = append(lows, s)
		}
	}
	if len(highs) < 2 || len(lows) < 2 {
		return false, map[string]any{"reason": "insufficient_15m_swings"}
	}

	n := len(candles15m)
	switch intent {
	case model.IntentLong:
		sweepLevel := lows[len(lows)-2].Price
		for i := 0; i < n; i++ {
			c := candles15m[i]
			if c.Low < sweepLevel && c.Close > sweepLevel+buf {
				breakoutLevel := highs[len(highs)-2].Price
				for j := i + 1; j < n; j++ {
					if candles15m[j].Close > breakoutLevel {
						return true, map[string]any{"sweep_level": sweepLevel, "breakout_level": breakoutLevel}
					}
				}
			}
		}
	case model.IntentShort:
		sweepLevel := highs[len(highs)-2].Price
		for i := 0; i < n; i++ {
			c := candles15m[i]
			if c.High > sweepLevel && c.Close < sweepLevel-buf {
				breakoutLevel := lows[len(lows)-2].Price
				for j := i + 1; j < n; j++ {
					if candles15m[j].Close < breakoutLevel {
						return true, map[string]any{"sweep_level": sweepLevel, "breakout_level": breakoutLevel}
					}
				}
			}
		}
	}
	return false, map[string]any{"reason": "no_sweep_choch"}
}

// microConfirmPullbackBreak (mode 2): price touches into the zone, then
// accepts (2 consecutive closes past zone-mid, or 1 if the 1H displacement was strong),
// then breaks the pre-touch swing in the intent direction.
func microConfirmPullbackBreak(candles15m []model.Candle, intent model.Intent, zone model.Zone, atr15 float64, strongDisp1h bool) (bool, map[string]any) {
	mid := (zone.Top + zone.Bottom) / 2
	swings := indicator.FractalSwings(candles15m, 2, 2)

	n := len(candles15m)
	touchIdx := -1
	for i, c := range candles15m {
		switch intent {
		case model.IntentLong:
			if c.Low <= zone.Top && c.Low >= zone.Bottom {
				touchIdx = i
			}
		case model.IntentShort:
			if c.High >= zone.Bottom && c.High <= zone.Top {
				touchIdx = i
			}
		}
	}
	if touchIdx < 0 {
		return false, map[string]any{"reason": "no_zone_touch"}
	}

	accepted, run := 0, 0
	requiredCloses := 2
	if strongDisp1h {
		requiredCloses = 1
	}
	for i := touchIdx; i < n; i++ {
		c := candles15m[i]
		past := (intent == model.IntentLong && c.Close > mid) || (intent == model.IntentShort && c.Close < mid)
		if !past {
			run = 0
			continue
		}
		run++
		if run > accepted {
			accepted = run
		}
	}
	if accepted < requiredCloses {
		return false, map[string]any{"reason": "no_acceptance", "atr15": atr15}
	}

	var preTouchSwing *float64
	for _, s := range swings {
		if s.Index >= touchIdx {
			continue
		}
		if intent == model.IntentLong && s.High {
			v := s.Price
			preTouchSwing = &v
		}
		if intent == model.IntentShort && !s.High {
			v := s.Price
			preTouchSwing = &v
		}
	}
	if preTouchSwing == nil {
		return false, map[string]any{"reason": "no_pre_touch_swing"}
	}

	for i := touchIdx; i < n; i++ {
		c := candles15m[i]
		if intent == model.IntentLong && c.Close > *preTouchSwing {
			return true, map[string]any{"break_level": *preTouchSwing}
		}
		if intent == model.IntentShort && c.Close < *preTouchSwing {
			return true, map[string]any{"break_level": *preTouchSwing}
		}
	}
	return false, map[string]any{"reason": "no_break"}
}

// tp2FromGate1 picks the Gate 1 liquidity target in the intent direction,
// falling back to the 1H structure's own swing in that direction when Gate 1
// only resolved a target on the opposite side.
func tp2FromGate1(g1 model.Gate1Result, structure model.Structure1HResult, intent model.Intent) *float64 {
	if intent == model.IntentLong {
		if len(g1.LiquidityAbove) > 0 {
			v := g1.LiquidityAbove[0]
			return &v
		}
		return structure.LastSwingHigh
	}
	if intent == model.IntentShort {
		if len(g1.LiquidityBelow) > 0 {
			v := g1.LiquidityBelow[0]
			return &v
		}
		return structure.LastSwingLow
	}
	return nil
}
