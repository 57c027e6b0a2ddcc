package smc

import (
	"sort"

	"perpgate/internal/model"
)

// FindFVG15m scans 15m candles for bullish/bearish fair-value gaps and scores
// each by how little of it has been filled since creation, with a small
// recency bonus. Results are sorted best-first.
func FindFVG15m(candles []model.Candle) []model.Zone {
	var zones []model.Zone
	n := len(candles)
	for i := 1; i+1 < n; i++ {
		a, d := candles[i-1], candles[i+1]
		if a.High < d.Low {
			zones = append(zones, zoneFromGap(candles, i+1, model.ZoneFVGBull, a.High, d.Low))
		}
		if a.Low > d.High {
			zones = append(zones, zoneFromGap(candles, i+1, model.ZoneFVGBear, d.High, a.Low))
		}
	}

	sort.SliceStable(zones, func(i, j int) bool {
		if zones[i].Score != zones[j].Score {
			return zones[i].Score > zones[j].Score
		}
		return zones[i].CreatedTs > zones[j].CreatedTs
	})
	return zones
}

func zoneFromGap(candles []model.Candle, createdIdx int, kind model.ZoneKind, bottom, top float64) model.Zone {
	height := top - bottom
	fillPct := 0.0
	touched := false

	if height > 0 {
		switch kind {
		case model.ZoneFVGBull:
			minLowAfter := top
			for i := createdIdx; i < len(candles); i++ {
				if candles[i].Low < minLowAfter {
					minLowAfter = candles[i].Low
				}
			}
			floor := minLowAfter
			if floor < bottom {
				floor = bottom
			}
			fillPct = (top - floor) / height
		case model.ZoneFVGBear:
			maxHighAfter := bottom
			for i := createdIdx; i < len(candles); i++ {
				if candles[i].High > maxHighAfter {
					maxHighAfter = candles[i].High
				}
			}
			ceil := maxHighAfter
			if ceil > top {
				ceil = top
			}
			fillPct = (ceil - bottom) / height
		}
		if fillPct < 0 {
			fillPct = 0
		}
		if fillPct > 1 {
			fillPct = 1
		}
		touched = fillPct > 0
	}

	reason := "fresh"
	switch {
	case fillPct >= 0.80:
		reason = "deep_fill"
	case fillPct > 0.55:
		reason = "mid_fill"
	case fillPct > 0:
		reason = "light_fill"
	}

	createdTs := int64(0)
	if createdIdx < len(candles) {
		createdTs = candles[createdIdx].Ts
	}

	return model.Zone{
		Kind:      kind,
		Top:       top,
		Bottom:    bottom,
		CreatedTs: createdTs,
		Touched:   touched,
		FillPct:   fillPct,
		Score:     (1 - fillPct) + 0.1,
		Reason:    reason,
	}
}
