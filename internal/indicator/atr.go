package indicator

import (
	"math"

	"perpgate/internal/model"
)

// ATR returns the Average True Range as the plain mean of the true ranges of
// the last `period` bars, or (0, false) if there are fewer than period+2 candles.
func ATR(candles []model.Candle, period int) (float64, bool) {
	n := len(candles)
	if n < period+2 {
		return 0, false
	}

	sum := 0.0
	for i := n - period; i < n; i++ {
		h, l, pc := candles[i].High, candles[i].Low, candles[i-1].Close
		sum += math.Max(h-l, math.Max(math.Abs(h-pc), math.Abs(l-pc)))
	}

	return sum / float64(period), true
}
