package derivatives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpgate/internal/model"
)

func f(v float64) *float64 { return &v }

func TestEngine_SameBucketReplacesInPlace(t *testing.T) {
	e := NewEngine()
	ts := int64(1_700_000_000)

	e.Update("binance", "BTCUSDT", ts, model.Derivatives1H{FundingRate: 0.0001, OpenInterest: f(1000), RatioLongPct: f(50)})
	ctx := e.Update("binance", "BTCUSDT", ts+30, model.Derivatives1H{FundingRate: 0.0002, OpenInterest: f(1100), RatioLongPct: f(55)})

	require.Equal(t, 1, ctx.HistoryLen, "same-bucket update must replace, not append")
	assert.Equal(t, 0.0002, ctx.Last.Funding)
}

func TestEngine_CapsAt72Points(t *testing.T) {
	e := NewEngine()
	base := int64(1_700_000_000)

	var ctx Context
	for i := 0; i < 100; i++ {
		ctx = e.Update("binance", "ETHUSDT", base+int64(i)*3600, model.Derivatives1H{FundingRate: 0.0001, OpenInterest: f(1000 + float64(i))})
	}

	assert.LessOrEqual(t, ctx.HistoryLen, model.MaxSeriesPoints)
}

func TestEngine_KeysDoNotCollideAcrossSymbols(t *testing.T) {
	e := NewEngine()
	ts := int64(1_700_000_000)

	e.Update("binance", "BTCUSDT", ts, model.Derivatives1H{FundingRate: 0.001, OpenInterest: f(500)})
	ctx := e.Update("binance", "ETHUSDT", ts, model.Derivatives1H{FundingRate: -0.002, OpenInterest: f(200)})

	assert.Equal(t, 1, ctx.HistoryLen, "ETHUSDT series must not see BTCUSDT's point")
	assert.Equal(t, -0.002, ctx.Last.Funding)
}

func TestEngine_ZScoreZeroOnFlatStd(t *testing.T) {
	e := NewEngine()
	base := int64(1_700_000_000)

	var ctx Context
	for i := 0; i < 20; i++ {
		ctx = e.Update("binance", "SOLUSDT", base+int64(i)*3600, model.Derivatives1H{FundingRate: 0.0001})
	}

	assert.Equal(t, 0.0, ctx.FundingZ, "identical funding samples must yield a zero z-score, not a divergence")
}

func TestEngine_ReadyOnlyAfterThreshold(t *testing.T) {
	e := NewEngine()
	base := int64(1_700_000_000)

	var ctx Context
	for i := 0; i < 10; i++ {
		ctx = e.Update("binance", "BTCUSDT", base+int64(i)*3600, model.Derivatives1H{FundingRate: 0.0001})
	}
	assert.False(t, ctx.Ready)

	for i := 10; i < 20; i++ {
		ctx = e.Update("binance", "BTCUSDT", base+int64(i)*3600, model.Derivatives1H{FundingRate: 0.0001})
	}
	assert.True(t, ctx.Ready)
}
