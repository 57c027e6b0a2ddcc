package indicator

// EMA computes the Exponential Moving Average series, seeded with the first
// close and aligned index-for-index with closes. Returns nil if there aren't
// enough closes for one full period.
func EMA(closes []float64, period int) []float64 {
	if len(closes) < period {
		return nil
	}

	ema := make([]float64, len(closes))
	k := 2.0 / float64(period+1)

	ema[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		ema[i] = (closes[i]-ema[i-1])*k + ema[i-1]
	}

	return ema
}

// SMA computes the Simple Moving Average series over the given period.
func SMA(closes []float64, period int) []float64 {
	if len(closes) < period {
		return nil
	}

	sma := make([]float64, 0, len(closes)-period+1)
	for i := period - 1; i < len(closes); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += closes[j]
		}
		sma = append(sma, sum/float64(period))
	}
	return sma
}

// EMASlope returns the change in EMA over the last `back` completed points of
// the series, i.e. ema[last] - ema[last-back]. Used for the HTF ema50 slope.
func EMASlope(ema []float64, back int) (float64, bool) {
	n := len(ema)
	if n <= back {
		return 0, false
	}
	return ema[n-1] - ema[n-1-back], true
}
