// Package market assembles a MarketSnapshot for one symbol from an
// exchange.Client, caching candle and derivatives fetches for the scan tick.
package market

import (
	"context"
	"fmt"
	"time"

	"perpgate/internal/cache"
	"perpgate/internal/exchange"
	"perpgate/internal/model"
)

const (
	candleTTL = 20 * time.Second
	derivTTL  = 30 * time.Second

	limit15m = 200
	limit1h  = 200
	limit4h  = 120
)

type Fetcher struct {
	Client exchange.Client
	Cache  *cache.TTLCache
}

func NewFetcher(client exchange.Client, c *cache.TTLCache) *Fetcher {
	return &Fetcher{Client: client, Cache: c}
}

// Fetch builds a full MarketSnapshot, returning a fetch-class error if any
// required call fails (a gate never sees a partial candle set).
func (f *Fetcher) Fetch(ctx context.Context, symbol string) (model.MarketSnapshot, error) {
	candles15m, err := f.candles(ctx, symbol, model.Interval15m, limit15m)
	if err != nil {
		return model.MarketSnapshot{}, fmt.Errorf("fetch 15m candles %s: %w", symbol, err)
	}
	candles1h, err := f.candles(ctx, symbol, model.Interval1h, limit1h)
	if err != nil {
		return model.MarketSnapshot{}, fmt.Errorf("fetch 1h candles %s: %w", symbol, err)
	}
	candles4h, err := f.candles(ctx, symbol, model.Interval4h, limit4h)
	if err != nil {
		return model.MarketSnapshot{}, fmt.Errorf("fetch 4h candles %s: %w", symbol, err)
	}

	deriv, err := f.derivatives(ctx, symbol)
	if err != nil {
		return model.MarketSnapshot{}, fmt.Errorf("fetch derivatives %s: %w", symbol, err)
	}

	mark, _ := f.Client.FetchMarkPrice(ctx, symbol)
	bid, ask, _ := f.Client.FetchTopOfBook(ctx, symbol)
	spread, _ := f.Client.FetchSpreadPct(ctx, symbol)

	return model.MarketSnapshot{
		Symbol:        symbol,
		Candles15m:    candles15m,
		Candles1h:     candles1h,
		Candles4h:     candles4h,
		Deriv1h:       deriv,
		MarkPrice:     mark,
		Bid:           bid,
		Ask:           ask,
		SpreadPct:     spread,
		LastUpdatedTs: time.Now().Unix(),
	}, nil
}

func (f *Fetcher) candles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	key := fmt.Sprintf("candles:%s:%s:%s", f.Client.Name(), symbol, interval)
	v, err := f.Cache.GetOrFetch(key, candleTTL, func() (any, error) {
		return f.Client.FetchOHLCV(ctx, symbol, interval, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Candle), nil
}

func (f *Fetcher) derivatives(ctx context.Context, symbol string) (model.Derivatives1H, error) {
	key := fmt.Sprintf("deriv_1h:%s:%s", f.Client.Name(), symbol)
	v, err := f.Cache.GetOrFetch(key, derivTTL, func() (any, error) {
		return f.Client.FetchDerivatives1H(ctx, symbol)
	})
	if err != nil {
		return model.Derivatives1H{}, err
	}
	return v.(model.Derivatives1H), nil
}
