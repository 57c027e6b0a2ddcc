package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"perpgate/internal/model"
)

type Config struct {
	NodeEnv          string
	Symbols          []string
	PrimaryExchange  string
	ScanIntervalSec  int
	BinanceAPIKey    string
	BinanceSecretKey string
	BinanceBaseURL   string
	KucoinAPIKey     string
	KucoinSecretKey  string
	TelegramBotToken string
	TelegramChatID   string

	MinRRTp2       float64
	ARRMin         float64
	BRRMin         float64
	AScoreMin      int
	BScoreMin      int
	OnlyTradeTiers map[model.Tier]bool
}

var AppConfig *Config

// Load reads environment variables (optionally seeded from a local .env)
// and initializes the global config.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	AppConfig = &Config{
		NodeEnv:          getEnv("NODE_ENV", "development"),
		Symbols:          getEnvAsSlice("SYMBOLS", "BTCUSDT,ETHUSDT"),
		PrimaryExchange:  getEnv("PRIMARY_EXCHANGE", "binance"),
		ScanIntervalSec:  getEnvAsInt("SCAN_INTERVAL_SEC", 60),
		BinanceAPIKey:    getEnv("BINANCE_API_KEY", ""),
		BinanceSecretKey: getEnv("BINANCE_SECRET_KEY", ""),
		BinanceBaseURL:   getEnv("BINANCE_BASE_URL", "https://fapi.binance.com"),
		KucoinAPIKey:     getEnv("KUCOIN_API_KEY", ""),
		KucoinSecretKey:  getEnv("KUCOIN_SECRET_KEY", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		MinRRTp2:  getEnvAsFloat("MIN_RR_TP2", 2.5),
		ARRMin:    getEnvAsFloat("A_RR_MIN", 3.0),
		BRRMin:    getEnvAsFloat("B_RR_MIN", 2.0),
		AScoreMin: getEnvAsInt("A_SCORE_MIN", 80),
		BScoreMin: getEnvAsInt("B_SCORE_MIN", 60),
		OnlyTradeTiers: tierSet(getEnvAsSlice("ONLY_TRADE_TIERS", "A,B")),
	}

	log.Println("✅ Configuration loaded successfully")
}

func tierSet(names []string) map[model.Tier]bool {
	out := make(map[model.Tier]bool, len(names))
	for _, n := range names {
		out[model.Tier(strings.TrimSpace(n))] = true
	}
	return out
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  invalid int for %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("⚠️  invalid float for %s=%q, using default %.4f", key, value, defaultValue)
		return defaultValue
	}
	return f
}
