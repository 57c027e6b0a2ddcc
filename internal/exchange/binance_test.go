package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLongPct_EvenRatioIsFiftyPercent(t *testing.T) {
	pct := normalizeLongPct("1.0")
	require.NotNil(t, pct)
	assert.InDelta(t, 50.0, *pct, 1e-9)
}

func TestNormalizeLongPct_SkewedRatioAboveFifty(t *testing.T) {
	pct := normalizeLongPct("3.0")
	require.NotNil(t, pct)
	assert.InDelta(t, 75.0, *pct, 1e-9)
}

func TestNormalizeLongPct_NonNumericYieldsNil(t *testing.T) {
	assert.Nil(t, normalizeLongPct("not-a-number"))
}

func TestNormalizeLongPct_NonPositiveYieldsNil(t *testing.T) {
	assert.Nil(t, normalizeLongPct("0"))
	assert.Nil(t, normalizeLongPct("-1.5"))
}

func TestParseKline_ParsesOHLCVFields(t *testing.T) {
	row := []any{
		float64(1700000000000),
		"100.5", "101.0", "99.5", "100.8", "12345.6",
	}
	c, err := parseKline(row)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), c.Ts)
	assert.Equal(t, 100.5, c.Open)
	assert.Equal(t, 101.0, c.High)
	assert.Equal(t, 99.5, c.Low)
	assert.Equal(t, 100.8, c.Close)
	assert.Equal(t, 12345.6, c.Volume)
}

func TestParseKline_RejectsMalformedRow(t *testing.T) {
	row := []any{float64(1700000000000), "bad", "101.0", "99.5", "100.8", "12345.6"}
	_, err := parseKline(row)
	assert.Error(t, err)
}
