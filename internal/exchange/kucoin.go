package exchange

import (
	"context"
	"net/http"
	"time"

	"perpgate/internal/model"
)

// KucoinFutures is the fallback venue adapter. KuCoin futures symbols use a
// different naming scheme (XBTUSDTM, ETHUSDTM, ...) that the router's caller
// never maps for us, so this client only promises what it can serve without
// that mapping: a ping for routing health and best-effort nils everywhere
// else. It exists so the router always has a second venue to fall back to
// rather than going fatal the moment Binance hiccups.
type KucoinFutures struct {
	BaseURL string
	HTTP    *http.Client
}

func NewKucoinFutures(baseURL string) *KucoinFutures {
	if baseURL == "" {
		baseURL = "https://api-futures.kucoin.com"
	}
	return &KucoinFutures{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 8 * time.Second},
	}
}

func (k *KucoinFutures) Name() string { return "kucoin" }

func (k *KucoinFutures) Ping(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.BaseURL+"/api/v1/timestamp", nil)
	if err != nil {
		return false, err
	}
	resp, err := k.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// FetchOHLCV returns an empty, non-error candle set: without a symbol
// mapping layer this venue cannot serve candles, and gates treat an empty
// slice as insufficient data rather than crashing the tick.
func (k *KucoinFutures) FetchOHLCV(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	return []model.Candle{}, nil
}

func (k *KucoinFutures) FetchMarkPrice(ctx context.Context, symbol string) (*float64, error) {
	return nil, nil
}

func (k *KucoinFutures) FetchTopOfBook(ctx context.Context, symbol string) (bid, ask *float64, err error) {
	return nil, nil, nil
}

func (k *KucoinFutures) FetchSpreadPct(ctx context.Context, symbol string) (*float64, error) {
	return nil, nil
}

func (k *KucoinFutures) FetchDerivatives1H(ctx context.Context, symbol string) (model.Derivatives1H, error) {
	return model.Derivatives1H{Meta: map[string]any{"venue": "kucoin", "note": "fallback placeholder"}}, nil
}
