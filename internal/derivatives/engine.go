// Package derivatives maintains the per-(venue,symbol) rolling funding/OI/ratio
// history and derives the z-scores and persistence flags Gate 2 classifies on.
package derivatives

import (
	"math"
	"sync"

	"perpgate/internal/model"
)

const (
	zWindow          = 24
	confirm4hBuckets = 4
	ratioHitHigh     = 67.5
	ratioHitLow      = 32.5
	fundingHitAbs    = 0.00015
	oiSlopeMinPoints = 5
)

// Context is the derived statistics Gate 2 reads for one symbol.
type Context struct {
	Last          model.SeriesPoint
	OIDelta       float64
	OIDeltaPct    float64
	OISpikeZ      float64
	FundingZ      float64
	FundingMean   float64
	FundingStd    float64
	RatioDev      float64
	OISlope4hPct  float64
	Confirm4h     bool
	Confirm4hNote string
	Ready         bool
	HistoryLen    int
}

// Engine owns the rolling series for every (venue,symbol) pair seen so far.
// It persists for the process lifetime; there is no disk-backed storage.
type Engine struct {
	mu     sync.Mutex
	series map[string]*model.RollingSeries
}

func NewEngine() *Engine {
	return &Engine{series: make(map[string]*model.RollingSeries)}
}

func seriesKey(venue, symbol string) string {
	return "deriv_series_1h:" + venue + ":" + symbol
}

// Update appends or replaces the current-bucket observation and returns the
// freshly computed Context for the symbol.
func (e *Engine) Update(venue, symbol string, ts int64, d model.Derivatives1H) Context {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := seriesKey(venue, symbol)
	s, ok := e.series[key]
	if !ok {
		s = &model.RollingSeries{Venue: venue, Symbol: symbol}
		e.series[key] = s
	}

	bucket := (ts / 3600) * 3600
	s.Upsert(model.SeriesPoint{
		Ts:           ts,
		BucketTs:     bucket,
		Venue:        venue,
		Symbol:       symbol,
		OI:           d.OpenInterest,
		Funding:      d.FundingRate,
		RatioLongPct: d.RatioLongPct,
	})

	return computeContext(s.Filtered())
}

func computeContext(pts []model.SeriesPoint) Context {
	n := len(pts)
	ctx := Context{HistoryLen: n}
	if n == 0 {
		return ctx
	}
	ctx.Last = pts[n-1]
	ctx.Ready = n >= readinessThreshold()

	if n >= 2 {
		prev := pts[n-2]
		if prev.OI != nil && ctx.Last.OI != nil {
			ctx.OIDelta = *ctx.Last.OI - *prev.OI
			if *prev.OI != 0 {
				ctx.OIDeltaPct = ctx.OIDelta / *prev.OI * 100
			}
		}
	}

	ctx.OISpikeZ = oiSpikeZ(pts)
	ctx.FundingZ, ctx.FundingMean, ctx.FundingStd = fundingZ(pts)

	if ctx.Last.RatioLongPct != nil {
		ctx.RatioDev = math.Abs(*ctx.Last.RatioLongPct - 50)
	}

	ctx.OISlope4hPct = oiSlope4h(pts)
	ctx.Confirm4h, ctx.Confirm4hNote = confirm4h(pts)

	return ctx
}

func readinessThreshold() int {
	v := zWindow
	if v > 18 {
		v = 18
	}
	if v < 12 {
		v = 12
	}
	return v
}

func minSamples() int {
	v := zWindow / 2
	if v > 12 {
		v = 12
	}
	if v < 8 {
		v = 8
	}
	return v
}

func oiSpikeZ(pts []model.SeriesPoint) float64 {
	var deltas []float64
	for i := 1; i < len(pts); i++ {
		if pts[i-1].OI == nil || pts[i].OI == nil || *pts[i-1].OI == 0 {
			continue
		}
		deltas = append(deltas, (*pts[i].OI-*pts[i-1].OI)/ *pts[i-1].OI*100)
	}
	if len(deltas) > zWindow {
		deltas = deltas[len(deltas)-zWindow:]
	}
	return zScoreLast(deltas)
}

func fundingZ(pts []model.SeriesPoint) (z, mean, std float64) {
	window := pts
	if len(window) > zWindow {
		window = window[len(window)-zWindow:]
	}
	vals := make([]float64, len(window))
	for i, p := range window {
		vals[i] = p.Funding
	}
	z = zScoreLast(vals)
	mean, std = meanStd(vals)
	return
}

// zScoreLast computes the z-score of the last sample against the window's
// own mean/std (the sample is part of its own baseline), requiring at least
// minSamples() points and treating std<1e-12 as 0.
func zScoreLast(vals []float64) float64 {
	if len(vals) < minSamples() {
		return 0
	}
	mean, std := meanStd(vals)
	if std < 1e-12 {
		return 0
	}
	return (vals[len(vals)-1] - mean) / std
}

func meanStd(vals []float64) (mean, std float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean = sum / float64(len(vals))
	if len(vals) < 2 {
		return mean, 0
	}
	var variance float64
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vals) - 1)
	return mean, math.Sqrt(variance)
}

func oiSlope4h(pts []model.SeriesPoint) float64 {
	n := len(pts)
	if n < oiSlopeMinPoints {
		return 0
	}
	now := pts[n-1]
	ago := pts[n-5]
	if now.OI == nil || ago.OI == nil || *ago.OI == 0 {
		return 0
	}
	return (*now.OI - *ago.OI) / *ago.OI * 100
}

func confirm4h(pts []model.SeriesPoint) (bool, string) {
	window := pts
	if len(window) > confirm4hBuckets {
		window = window[len(window)-confirm4hBuckets:]
	}
	ratioHits, fundingHits := 0, 0
	for _, p := range window {
		if p.RatioLongPct != nil && (*p.RatioLongPct >= ratioHitHigh || *p.RatioLongPct <= ratioHitLow) {
			ratioHits++
		}
		if math.Abs(p.Funding) >= fundingHitAbs {
			fundingHits++
		}
	}
	if ratioHits >= 2 {
		return true, "ratio_persistence"
	}
	if fundingHits >= 2 {
		return true, "funding_persistence"
	}
	return false, "no_persistence"
}
