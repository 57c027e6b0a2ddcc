package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"perpgate/internal/model"
)

func defaultCfg() Config {
	return Config{
		ARRMin:         3.0,
		BRRMin:         2.0,
		AScoreMin:      80,
		BScoreMin:      60,
		OnlyTradeTiers: map[model.Tier]bool{model.TierA: true, model.TierB: true},
	}
}

func TestScore_ClampedToValidRange(t *testing.T) {
	rr := -100.0
	plan := model.TradePlan{RRTp2: &rr}
	g1 := model.Gate1Result{PosPct: 0.5}
	g2 := model.Gate2Result{Regime: model.RegimeNeutral, Confidence: model.ConfidenceLow}
	g3 := model.Gate3Result{}

	res := Score(defaultCfg(), g1, g2, g3, plan)
	assert.GreaterOrEqual(t, res.Score, 0)
	assert.LessOrEqual(t, res.Score, 100)
}

func TestScore_TierAWhenHighRRAndHighScore(t *testing.T) {
	rr := 3.5
	plan := model.TradePlan{RRTp2: &rr}
	g1 := model.Gate1Result{PosPct: 0.2}
	g2 := model.Gate2Result{Regime: model.RegimeHealthyTrend, Confidence: model.ConfidenceHigh}
	g3 := model.Gate3Result{
		Structure: model.Structure1HResult{BOS: true},
		Zone:      &model.Zone{FillPct: 0.1},
	}

	res := Score(defaultCfg(), g1, g2, g3, plan)
	assert.Equal(t, model.TierA, res.Tier)
	assert.Equal(t, 1.0, res.RiskMult)
	assert.True(t, res.Passed)
}

func TestScore_TierSkipWhenNotInOnlyTradeTiers(t *testing.T) {
	rr := 3.5
	plan := model.TradePlan{RRTp2: &rr}
	g1 := model.Gate1Result{PosPct: 0.2}
	g2 := model.Gate2Result{Regime: model.RegimeHealthyTrend, Confidence: model.ConfidenceHigh}
	g3 := model.Gate3Result{
		Structure: model.Structure1HResult{BOS: true},
		Zone:      &model.Zone{FillPct: 0.1},
	}

	cfg := defaultCfg()
	cfg.OnlyTradeTiers = map[model.Tier]bool{model.TierB: true}

	res := Score(cfg, g1, g2, g3, plan)
	assert.Equal(t, model.TierSkip, res.Tier)
	assert.False(t, res.Passed)
}

func TestScore_LowScoreYieldsTierC(t *testing.T) {
	rr := 0.5
	plan := model.TradePlan{RRTp2: &rr}
	g1 := model.Gate1Result{PosPct: 0.5}
	g2 := model.Gate2Result{Regime: model.RegimeNeutral, Confidence: model.ConfidenceLow}
	g3 := model.Gate3Result{}

	res := Score(defaultCfg(), g1, g2, g3, plan)
	assert.Equal(t, model.TierC, res.Tier)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.0, res.RiskMult)
}
