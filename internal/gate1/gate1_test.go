package gate1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpgate/internal/model"
)

func trendingCandlesWithSwings(n int, start, step float64) []model.Candle {
	out := make([]model.Candle, n)
	price := start
	for i := 0; i < n; i++ {
		out[i] = model.Candle{Ts: int64(i * 14400), Open: price, High: price + 1, Low: price - 1, Close: price}
		price += step
	}
	for i := 10; i < n-10; i += 5 {
		if (i/5)%2 == 0 {
			out[i].High = out[i].Close + 20
		} else {
			out[i].Low = out[i].Close - 20
		}
	}
	return out
}

func TestEvaluate_RejectsOnInsufficientCandles(t *testing.T) {
	res := Evaluate("BTCUSDT", trendingCandlesWithSwings(10, 100, 1), nil)
	assert.False(t, res.Passed)
	assert.Equal(t, "insufficient_4h_candles", res.Reason)
}

func TestEvaluate_RejectsOnWideSpreadForCoreSymbol(t *testing.T) {
	wide := 0.5
	res := Evaluate("BTCUSDT", trendingCandlesWithSwings(90, 100, 1), &wide)
	assert.False(t, res.Passed)
	assert.Equal(t, "spread_too_wide_core", res.Reason)
}

func TestEvaluate_RejectsMidRange(t *testing.T) {
	candles := make([]model.Candle, 90)
	for i := range candles {
		candles[i] = model.Candle{Ts: int64(i * 14400), Open: 100, High: 101, Low: 99, Close: 100}
	}
	res := Evaluate("SOLUSDT", candles, nil)
	assert.False(t, res.Passed)
	assert.Equal(t, "mid_range_4h", res.Reason)
}

func TestEvaluate_PassesWithClearBiasAndLiquidityTargets(t *testing.T) {
	res := Evaluate("SOLUSDT", trendingCandlesWithSwings(90, 100, 1), nil)
	require.True(t, res.Passed)
	assert.Equal(t, model.BiasUp, res.HTFBias)
	assert.NotEmpty(t, res.SwingHighs)
	assert.NotEmpty(t, res.SwingLows)
}
