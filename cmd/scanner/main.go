// Command scanner runs the perpetual-futures decision pipeline: a recurring
// scan across the configured symbols, each producing either a rejection or a
// scored trade candidate on the journal.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"perpgate/internal/cache"
	"perpgate/internal/config"
	"perpgate/internal/derivatives"
	"perpgate/internal/exchange"
	"perpgate/internal/journal"
	"perpgate/internal/market"
	"perpgate/internal/orchestrator"
	"perpgate/internal/pipeline"
	"perpgate/internal/scorer"
)

const numWorkers = 10

func main() {
	log.Println("🚀 Starting perpgate scanner")

	config.Load()
	cfg := config.AppConfig

	binance := exchange.NewBinanceFutures(cfg.BinanceBaseURL)
	for _, sym := range cfg.Symbols {
		binance.WatchBookTicker(sym)
	}
	kucoin := exchange.NewKucoinFutures("")

	router := &exchange.Router{Primary: binance, Fallback: kucoin}
	if cfg.PrimaryExchange == "kucoin" {
		router = &exchange.Router{Primary: kucoin, Fallback: binance}
	}

	client, err := router.Get(context.Background())
	if err != nil {
		log.Fatalf("❌ no exchange client available at startup: %v", err)
	}

	fetcher := market.NewFetcher(client, cache.NewTTLCache())
	engine := derivatives.NewEngine()

	pipe := &pipeline.Pipeline{
		Fetcher: fetcher,
		Engine:  engine,
		Config: pipeline.Config{
			MinRRTp2: cfg.MinRRTp2,
			Venue:    client.Name(),
			ScorerCfg: scorer.Config{
				ARRMin:         cfg.ARRMin,
				BRRMin:         cfg.BRRMin,
				AScoreMin:      cfg.AScoreMin,
				BScoreMin:      cfg.BScoreMin,
				OnlyTradeTiers: cfg.OnlyTradeTiers,
			},
		},
	}

	sinks := journal.MultiSink{journal.LogSink{}}
	if tg, err := journal.NewTelegramSink(cfg.TelegramBotToken, cfg.TelegramChatID); err != nil {
		log.Printf("⚠️  telegram sink disabled: %v", err)
	} else if tg != nil {
		sinks = append(sinks, tg)
	}

	orch := orchestrator.New(cfg.Symbols, pipe, sinks, numWorkers, time.Duration(cfg.ScanIntervalSec)*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("🔄 shutdown signal received")
		cancel()
	}()

	orch.Start(ctx)
	log.Println("✅ perpgate scanner stopped")
}
