package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"perpgate/internal/model"
)

// BinanceFutures is a thin REST adapter over Binance USD-M futures endpoints.
// Streams, when present, let FetchTopOfBook/FetchSpreadPct serve off a live
// websocket book-ticker instead of polling REST for every symbol every tick.
type BinanceFutures struct {
	BaseURL string
	HTTP    *http.Client
	Streams map[string]*BookStream
}

func NewBinanceFutures(baseURL string) *BinanceFutures {
	if baseURL == "" {
		baseURL = "https://fapi.binance.com"
	}
	return &BinanceFutures{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 8 * time.Second},
		Streams: make(map[string]*BookStream),
	}
}

// WatchBookTicker starts (once) a reconnecting book-ticker stream for symbol.
func (b *BinanceFutures) WatchBookTicker(symbol string) {
	if _, ok := b.Streams[symbol]; ok {
		return
	}
	url := fmt.Sprintf("wss://fstream.binance.com/ws/%s@bookTicker", strings.ToLower(symbol))
	s := NewBookStream(url, symbol)
	b.Streams[symbol] = s
	s.Start()
}

func (b *BinanceFutures) Name() string { return "binance" }

func (b *BinanceFutures) Ping(ctx context.Context) (bool, error) {
	var out struct{}
	if err := b.getJSON(ctx, "/fapi/v1/ping", nil, &out); err != nil {
		return false, err
	}
	return true, nil
}

var intervalMap = map[string]string{
	model.Interval15m: "15m",
	model.Interval1h:  "1h",
	model.Interval4h:  "4h",
}

func (b *BinanceFutures) FetchOHLCV(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	binInterval, ok := intervalMap[interval]
	if !ok {
		return nil, fmt.Errorf("binance: unsupported interval %q", interval)
	}

	var raw [][]any
	params := map[string]string{
		"symbol":   symbol,
		"interval": binInterval,
		"limit":    strconv.Itoa(limit),
	}
	if err := b.getJSON(ctx, "/fapi/v1/klines", params, &raw); err != nil {
		return nil, fmt.Errorf("binance fetch klines %s %s: %w", symbol, interval, err)
	}

	candles := make([]model.Candle, 0, len(raw))
	for _, row := range raw {
		if len(row) < 5 {
			continue
		}
		c, err := parseKline(row)
		if err != nil {
			continue
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseKline(row []any) (model.Candle, error) {
	openTimeMs, ok := row[0].(float64)
	if !ok {
		return model.Candle{}, fmt.Errorf("bad open time")
	}
	open, err1 := parseFloatAny(row[1])
	high, err2 := parseFloatAny(row[2])
	low, err3 := parseFloatAny(row[3])
	closeP, err4 := parseFloatAny(row[4])
	vol, err5 := parseFloatAny(row[5])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return model.Candle{}, fmt.Errorf("malformed kline row")
	}
	return model.Candle{
		Ts:     int64(openTimeMs) / 1000,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closeP,
		Volume: vol,
	}, nil
}

func parseFloatAny(v any) (float64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("not a string")
	}
	return strconv.ParseFloat(s, 64)
}

func (b *BinanceFutures) FetchMarkPrice(ctx context.Context, symbol string) (*float64, error) {
	var out struct {
		MarkPrice string `json:"markPrice"`
	}
	if err := b.getJSON(ctx, "/fapi/v1/premiumIndex", map[string]string{"symbol": symbol}, &out); err != nil {
		return nil, fmt.Errorf("binance fetch mark price %s: %w", symbol, err)
	}
	v, err := strconv.ParseFloat(out.MarkPrice, 64)
	if err != nil {
		return nil, nil
	}
	return &v, nil
}

func (b *BinanceFutures) FetchTopOfBook(ctx context.Context, symbol string) (*float64, *float64, error) {
	if s, ok := b.Streams[symbol]; ok {
		if bid, ask, fresh := s.TopOfBook(); fresh {
			return &bid, &ask, nil
		}
	}

	var out struct {
		BidPrice string `json:"bidPrice"`
		AskPrice string `json:"askPrice"`
	}
	if err := b.getJSON(ctx, "/fapi/v1/ticker/bookTicker", map[string]string{"symbol": symbol}, &out); err != nil {
		return nil, nil, fmt.Errorf("binance fetch book ticker %s: %w", symbol, err)
	}
	bid, errB := strconv.ParseFloat(out.BidPrice, 64)
	ask, errA := strconv.ParseFloat(out.AskPrice, 64)
	if errB != nil || errA != nil {
		return nil, nil, nil
	}
	return &bid, &ask, nil
}

func (b *BinanceFutures) FetchSpreadPct(ctx context.Context, symbol string) (*float64, error) {
	bid, ask, err := b.FetchTopOfBook(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if bid == nil || ask == nil || *bid <= 0 {
		return nil, nil
	}
	spread := (*ask - *bid) / *bid * 100
	return &spread, nil
}

func (b *BinanceFutures) FetchDerivatives1H(ctx context.Context, symbol string) (model.Derivatives1H, error) {
	var fundingResp []struct {
		FundingRate string `json:"fundingRate"`
	}
	if err := b.getJSON(ctx, "/fapi/v1/fundingRate", map[string]string{"symbol": symbol, "limit": "1"}, &fundingResp); err != nil {
		return model.Derivatives1H{}, fmt.Errorf("binance fetch funding %s: %w", symbol, err)
	}
	var funding float64
	if len(fundingResp) > 0 {
		funding, _ = strconv.ParseFloat(fundingResp[0].FundingRate, 64)
	}

	var oiResp struct {
		OpenInterest string `json:"openInterest"`
	}
	var oiNotional *float64
	if err := b.getJSON(ctx, "/fapi/v1/openInterest", map[string]string{"symbol": symbol}, &oiResp); err == nil {
		if contracts, err := strconv.ParseFloat(oiResp.OpenInterest, 64); err == nil {
			if mark, err := b.FetchMarkPrice(ctx, symbol); err == nil && mark != nil {
				notional := contracts * *mark
				oiNotional = &notional
			}
		}
	}

	var ratioResp []struct {
		LongShortRatio string `json:"longShortRatio"`
	}
	var ratioPct *float64
	if err := b.getJSON(ctx, "/futures/data/globalLongShortAccountRatio", map[string]string{"symbol": symbol, "period": "1h", "limit": "1"}, &ratioResp); err == nil && len(ratioResp) > 0 {
		ratioPct = normalizeLongPct(ratioResp[0].LongShortRatio)
	}

	return model.Derivatives1H{
		FundingRate:  funding,
		OpenInterest: oiNotional,
		RatioLongPct: ratioPct,
		Meta:         map[string]any{"venue": "binance"},
	}, nil
}

// normalizeLongPct converts Binance's raw global long/short ACCOUNT ratio
// into a 0-100 percent-long figure. The raw value is longAccounts/shortAccounts,
// not a percentage, so it cannot be rescaled directly: unconvertible values
// yield nil (unknown) rather than a misleading guess.
func normalizeLongPct(raw string) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil
	}
	pct := v / (1 + v) * 100
	if pct < 0 || pct > 100 {
		return nil
	}
	return &pct
}

func (b *BinanceFutures) getJSON(ctx context.Context, path string, params map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+path, nil)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := b.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("binance: unexpected status %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
