package smc

import (
	"sort"

	"perpgate/internal/indicator"
	"perpgate/internal/model"
)

const (
	liquidityWindow = 80
	liquidityLeft    = 2
	liquidityRight   = 2
	liquidityMaxTail = 10
)

// LiquidityTargets is the nearest pivot above/below the last close, plus the
// tail of further levels in each direction for the planner's TP3-5 ladder.
type LiquidityTargets struct {
	Above     *float64
	Below     *float64
	AboveTail []float64
	BelowTail []float64
}

// ComputeLiquidityTargets finds pivot swings (left=right=2) over the last 80
// 4H bars and splits them around the last close.
func ComputeLiquidityTargets(candles []model.Candle) LiquidityTargets {
	n := len(candles)
	window := candles
	if n > liquidityWindow {
		window = candles[n-liquidityWindow:]
	}
	swings := indicator.FractalSwings(window, liquidityLeft, liquidityRight)
	if len(window) == 0 {
		return LiquidityTargets{}
	}
	lastClose := window[len(window)-1].Close

	var highs, lows []float64
	for _, s := range swings {
		if s.High {
			highs = append(highs, s.Price)
		} else {
			lows = append(lows, s.Price)
		}
	}
	sort.Float64s(highs)
	sort.Float64s(lows)

	var above []float64
	for _, h := range highs {
		if h > lastClose {
			above = append(above, h)
		}
	}
	var below []float64
	for i := len(lows) - 1; i >= 0; i-- {
		if lows[i] < lastClose {
			below = append(below, lows[i])
		}
	}

	targets := LiquidityTargets{}
	if len(above) > 0 {
		v := above[0]
		targets.Above = &v
		if len(above) > liquidityMaxTail {
			above = above[:liquidityMaxTail]
		}
		targets.AboveTail = above
	}
	if len(below) > 0 {
		v := below[0]
		targets.Below = &v
		if len(below) > liquidityMaxTail {
			below = below[:liquidityMaxTail]
		}
		targets.BelowTail = below
	}
	return targets
}
