package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpgate/internal/model"
)

func candles15m(n int, base float64) []model.Candle {
	out := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		out[i] = model.Candle{Ts: int64(i * 900), Open: base, High: base + 2, Low: base - 2, Close: base}
	}
	return out
}

func TestBuild_RejectsWithoutCandidate(t *testing.T) {
	_, ok, reason := Build("BTCUSDT", candles15m(20, 100), model.Gate1Result{}, model.Gate3Result{Passed: false}, 100, 2.5)
	assert.False(t, ok)
	assert.Equal(t, "no_candidate", reason)
}

func TestBuild_LongPlanHasFiveMonotonicTPs(t *testing.T) {
	tp2 := 130.0
	g1 := model.Gate1Result{SwingHighs: []float64{140, 150, 160}}
	g3 := model.Gate3Result{
		Passed:       true,
		Intent:       model.IntentLong,
		Zone:         &model.Zone{Top: 105, Bottom: 100},
		TP2Candidate: &tp2,
	}

	plan, ok, _ := Build("BTCUSDT", candles15m(20, 100), g1, g3, 102, 1.0)
	require.True(t, ok)

	for i := 1; i < 5; i++ {
		assert.Greater(t, plan.TPs[i].Price, plan.TPs[i-1].Price, "TP ladder must be strictly increasing for LONG")
	}
	assert.Less(t, plan.SL, plan.Entry1)
}

func TestBuild_RejectsWhenRRBelowMinimum(t *testing.T) {
	tp2 := 100.5
	g1 := model.Gate1Result{}
	g3 := model.Gate3Result{
		Passed:       true,
		Intent:       model.IntentLong,
		Zone:         &model.Zone{Top: 105, Bottom: 100},
		TP2Candidate: &tp2,
	}

	_, ok, reason := Build("BTCUSDT", candles15m(20, 100), g1, g3, 102, 10.0)
	assert.False(t, ok)
	assert.Equal(t, "rr_below_min", reason)
}

func TestBuild_ShortPlanSLAboveEntry(t *testing.T) {
	tp2 := 70.0
	g1 := model.Gate1Result{SwingLows: []float64{60, 50, 40}}
	g3 := model.Gate3Result{
		Passed:       true,
		Intent:       model.IntentShort,
		Zone:         &model.Zone{Top: 100, Bottom: 95},
		TP2Candidate: &tp2,
	}

	plan, ok, _ := Build("ETHUSDT", candles15m(20, 98), g1, g3, 98, 1.0)
	require.True(t, ok)
	assert.Greater(t, plan.SL, plan.Entry1)
	for i := 1; i < 5; i++ {
		assert.Less(t, plan.TPs[i].Price, plan.TPs[i-1].Price, "TP ladder must be strictly decreasing for SHORT")
	}
}
