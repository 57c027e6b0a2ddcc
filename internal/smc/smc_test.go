package smc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpgate/internal/model"
)

func flatCandles(n int, start float64, step float64) []model.Candle {
	out := make([]model.Candle, n)
	price := start
	for i := 0; i < n; i++ {
		out[i] = model.Candle{Ts: int64(i * 14400), Open: price, High: price + 1, Low: price - 1, Close: price}
		price += step
	}
	return out
}

func TestComputeHTFBias_InsufficientCandles(t *testing.T) {
	_, ok := ComputeHTFBias(flatCandles(10, 100, 0))
	assert.False(t, ok)
}

func TestComputeHTFBias_UptrendClassifiesUp(t *testing.T) {
	candles := flatCandles(90, 100, 1)
	res, ok := ComputeHTFBias(candles)
	require.True(t, ok)
	assert.Equal(t, model.BiasUp, res.Bias)
}

func TestComputeHTFBias_PosPctBoundaries(t *testing.T) {
	candles := flatCandles(90, 100, 0)
	for i := range candles[len(candles)-60:] {
		idx := len(candles) - 60 + i
		candles[idx].High = 110
		candles[idx].Low = 90
	}
	candles[len(candles)-1].Close = 90 + 0.30*20 // exactly 0.30 of the 90-110 range
	res, ok := ComputeHTFBias(candles)
	require.True(t, ok)
	assert.InDelta(t, 0.30, res.PosPct, 1e-9)
	assert.Equal(t, model.LocationDiscount, res.Location)
}

func TestFindFVG15m_DetectsBullishGap(t *testing.T) {
	candles := []model.Candle{
		{Ts: 0, Open: 100, High: 101, Low: 99, Close: 100},
		{Ts: 900, Open: 102, High: 105, Low: 101, Close: 104},
		{Ts: 1800, Open: 106, High: 108, Low: 103, Close: 107},
	}
	zones := FindFVG15m(candles)
	require.NotEmpty(t, zones)
	assert.Equal(t, model.ZoneFVGBull, zones[0].Kind)
	assert.Equal(t, 101.0, zones[0].Bottom)
	assert.Equal(t, 103.0, zones[0].Top)
}

func TestFindFVG15m_FillPctClampedToUnitRange(t *testing.T) {
	candles := []model.Candle{
		{Ts: 0, Open: 100, High: 101, Low: 99, Close: 100},
		{Ts: 900, Open: 102, High: 105, Low: 101, Close: 104},
		{Ts: 1800, Open: 106, High: 108, Low: 103, Close: 107},
		{Ts: 2700, Open: 95, High: 96, Low: 90, Close: 95}, // fully fills and overshoots below
	}
	zones := FindFVG15m(candles)
	require.NotEmpty(t, zones)
	var bull *model.Zone
	for i := range zones {
		if zones[i].Kind == model.ZoneFVGBull {
			bull = &zones[i]
		}
	}
	require.NotNil(t, bull, "the overshot bullish gap must be among the zones")
	assert.LessOrEqual(t, bull.FillPct, 1.0)
	assert.GreaterOrEqual(t, bull.FillPct, 0.0)
}

func TestAnalyzeStructure1H_InsufficientCandles(t *testing.T) {
	res := AnalyzeStructure1H(flatCandles(5, 100, 1))
	assert.Equal(t, model.TrendUnknown, res.Trend)
	assert.Equal(t, "insufficient_1h_candles", res.Reason)
}

func TestComputeLiquidityTargets_SplitsAroundLastClose(t *testing.T) {
	candles := flatCandles(90, 100, 0)
	for i := 10; i < len(candles)-10; i += 5 {
		if (i/5)%2 == 0 {
			candles[i].High = 120
		} else {
			candles[i].Low = 80
		}
	}
	targets := ComputeLiquidityTargets(candles)
	if targets.Above != nil {
		assert.Greater(t, *targets.Above, candles[len(candles)-1].Close)
	}
	if targets.Below != nil {
		assert.Less(t, *targets.Below, candles[len(candles)-1].Close)
	}
}
