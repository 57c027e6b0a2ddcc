// Package exchange defines the venue-agnostic capability surface the core
// pipeline consumes, plus concrete adapters (Binance REST, a websocket
// book-ticker stream) and a primary/fallback router.
package exchange

import (
	"context"

	"perpgate/internal/model"
)

// Client is the capability set every venue adapter must provide. Gate/plan/
// score logic never depends on a concrete venue, only on this interface.
type Client interface {
	Name() string
	Ping(ctx context.Context) (bool, error)
	FetchOHLCV(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	FetchMarkPrice(ctx context.Context, symbol string) (*float64, error)
	FetchTopOfBook(ctx context.Context, symbol string) (bid, ask *float64, err error)
	FetchSpreadPct(ctx context.Context, symbol string) (*float64, error)
	FetchDerivatives1H(ctx context.Context, symbol string) (model.Derivatives1H, error)
}
