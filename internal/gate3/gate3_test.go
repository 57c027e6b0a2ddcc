package gate3

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"perpgate/internal/model"
)

func flatCandles1h(n int, price float64) []model.Candle {
	out := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		out[i] = model.Candle{Ts: int64(i * 3600), Open: price, High: price + 1, Low: price - 1, Close: price}
	}
	return out
}

func TestEvaluate_RejectsWhenGate1Fails(t *testing.T) {
	res := Evaluate(nil, nil, model.Gate1Result{Passed: false}, model.Gate2Result{Passed: true})
	assert.False(t, res.Passed)
	assert.Equal(t, "gate1_fail", res.Reason)
}

func TestEvaluate_RejectsWhenGate2NotTradeEligible(t *testing.T) {
	g1 := model.Gate1Result{Passed: true, HTFBias: model.BiasUp, Location: model.LocationDiscount}

	alertOnly := model.Gate2Result{Passed: true, AlertOnly: true}
	res := Evaluate(nil, nil, g1, alertOnly)
	assert.False(t, res.Passed)
	assert.Equal(t, "gate2_not_trade_eligible", res.Reason)

	notPassed := model.Gate2Result{Passed: false}
	res2 := Evaluate(nil, nil, g1, notPassed)
	assert.Equal(t, "gate2_not_trade_eligible", res2.Reason)
}

func TestEvaluate_RejectsWithoutClearHTFIntent(t *testing.T) {
	g1 := model.Gate1Result{Passed: true, HTFBias: model.BiasUp, Location: model.LocationPremium}
	g2 := model.Gate2Result{Passed: true}

	res := Evaluate(nil, nil, g1, g2)
	assert.False(t, res.Passed)
	assert.Equal(t, "no_clear_intent_htf", res.Reason)
}

func TestEvaluate_RejectsOnInsufficientOneHourCandles(t *testing.T) {
	g1 := model.Gate1Result{Passed: true, HTFBias: model.BiasUp, Location: model.LocationDiscount}
	g2 := model.Gate2Result{Passed: true}

	res := Evaluate(flatCandles1h(5, 100), nil, g1, g2)
	assert.False(t, res.Passed)
	assert.Equal(t, "insufficient_1h_candles", res.Reason)
}

func TestEvaluate_RejectsWithoutTriggerOnFlatStructure(t *testing.T) {
	g1 := model.Gate1Result{Passed: true, HTFBias: model.BiasUp, Location: model.LocationDiscount}
	g2 := model.Gate2Result{Passed: true, Regime: model.RegimeHealthyTrend}

	res := Evaluate(flatCandles1h(30, 100), nil, g1, g2)
	assert.False(t, res.Passed)
	assert.Equal(t, "no_1h_trigger", res.Reason)
}

func TestPickIntent_MapsBiasAndLocationToDirectionalIntent(t *testing.T) {
	intent, ok := pickIntent(model.BiasUp, model.LocationDiscount)
	assert.True(t, ok)
	assert.Equal(t, model.IntentLong, intent)

	intent, ok = pickIntent(model.BiasDown, model.LocationPremium)
	assert.True(t, ok)
	assert.Equal(t, model.IntentShort, intent)

	_, ok = pickIntent(model.BiasUp, model.LocationPremium)
	assert.False(t, ok)
}

func TestPickZone_SkipsOverfilledAndWrongKindZones(t *testing.T) {
	zones := []model.Zone{
		{Kind: model.ZoneFVGBear, Top: 110, Bottom: 105, FillPct: 0.1},
		{Kind: model.ZoneFVGBull, Top: 100, Bottom: 95, FillPct: 0.9},
		{Kind: model.ZoneFVGBull, Top: 90, Bottom: 85, FillPct: 0.2},
	}
	zone := pickZone(zones, model.IntentLong)
	assert.NotNil(t, zone)
	assert.Equal(t, 90.0, zone.Top)
}

func TestPickMicroMode_SqueezeAlwaysForcesMode1(t *testing.T) {
	assert.Equal(t, 1, pickMicroMode("continuation_preferred", true))
	assert.Equal(t, 2, pickMicroMode("continuation_preferred", false))
	assert.Equal(t, 1, pickMicroMode("reversal_or_flush_risk", false))
}
