// Package scorer converts a confirmed plan plus its gate context into a
// 0-100 score, an opportunity tier, and a risk multiplier.
package scorer

import (
	"perpgate/internal/model"
)

// Config carries the tunable thresholds; callers populate this from the
// process configuration (a_rr_min, b_rr_min, a_score_min, b_score_min,
// only_trade_tiers).
type Config struct {
	ARRMin         float64
	BRRMin         float64
	AScoreMin      int
	BScoreMin      int
	OnlyTradeTiers map[model.Tier]bool
}

// Score rates a passing plan against its Gate 1/2/3 context.
func Score(cfg Config, g1 model.Gate1Result, g2 model.Gate2Result, g3 model.Gate3Result, plan model.TradePlan) model.ScoreResult {
	score := 50
	var reasons []string
	add := func(delta int, reason string) {
		score += delta
		reasons = append(reasons, reason)
	}

	if g1.PosPct <= 0.30 || g1.PosPct >= 0.70 {
		add(12, "htf_location_extreme")
	} else {
		add(-8, "htf_location_not_extreme")
	}

	switch g2.Regime {
	case model.RegimeHealthyTrend:
		add(10, "regime_healthy_trend")
	case model.RegimeCrowdedSqueeze:
		add(4, "regime_crowded_squeeze")
	default:
		add(-12, "regime_neutral")
	}
	if g2.Confidence == model.ConfidenceHigh {
		add(4, "confidence_high")
	} else if g2.Confidence == model.ConfidenceLow {
		add(-4, "confidence_low")
	}

	switch {
	case g3.Structure.BOS && g3.Structure.CHoCH:
		add(6, "structure_both")
	case g3.Structure.BOS:
		add(8, "structure_bos")
	case g3.Structure.CHoCH:
		add(10, "structure_choch")
	default:
		add(-20, "structure_none")
	}

	if g3.Zone != nil {
		switch {
		case g3.Zone.FillPct <= 0.25:
			add(10, "zone_fresh")
		case g3.Zone.FillPct <= 0.55:
			add(5, "zone_light_fill")
		default:
			add(-10, "zone_deep_fill")
		}
	}

	rrTp2 := 0.0
	if plan.RRTp2 != nil {
		rrTp2 = *plan.RRTp2
	}
	switch {
	case rrTp2 >= cfg.ARRMin:
		add(12, "rr_ge_a_min")
	case rrTp2 >= cfg.BRRMin:
		add(6, "rr_ge_b_min")
	case rrTp2 >= 1.5:
		add(-4, "rr_marginal")
	default:
		add(-15, "rr_too_low")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	tier := model.TierC
	riskMult := 0.0
	switch {
	case rrTp2 >= cfg.ARRMin && score >= cfg.AScoreMin:
		tier = model.TierA
		riskMult = 1.0
	case rrTp2 >= cfg.BRRMin && score >= cfg.BScoreMin:
		tier = model.TierB
		riskMult = 0.5
	}

	passed := tier == model.TierA || tier == model.TierB
	if passed && cfg.OnlyTradeTiers != nil && !cfg.OnlyTradeTiers[tier] {
		passed = false
		tier = model.TierSkip
		riskMult = 0
	}

	return model.ScoreResult{
		Passed:   passed,
		Tier:     tier,
		RiskMult: riskMult,
		Score:    score,
		RRTp2:    rrTp2,
		Reasons:  reasons,
		Checks: map[string]any{
			"htf_pos_pct": g1.PosPct,
			"regime":      g2.Regime,
			"confidence":  g2.Confidence,
		},
	}
}
