package journal

import (
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink forwards only emitted candidates (passing ScoreResult), never
// gate rejections, as a single terse message. Rendering to Telegram is an
// external collaborator; this sink owns no gate logic, it just formats.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink connects to the bot API. Returns (nil, nil) if token/chatID
// are blank, so wiring it is optional without special-casing call sites.
func NewTelegramSink(token, chatIDStr string) (*TelegramSink, error) {
	if token == "" || chatIDStr == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: init bot: %w", err)
	}
	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram: parse chat id: %w", err)
	}
	log.Printf("✅ [Telegram] authorized as %s", bot.Self.UserName)
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

func (t *TelegramSink) Record(e Entry) {
	if t == nil || t.bot == nil {
		return
	}
	if e.Plan == nil || e.Score == nil || !e.Score.Passed {
		return
	}

	text := fmt.Sprintf(
		"📈 %s %s — tier %s (score %d)\nentry1 %.6f · sl %.6f · rr %.2f",
		e.Symbol, e.Plan.Intent, e.Score.Tier, e.Score.Score, e.Plan.Entry1, e.Plan.SL, e.Score.RRTp2,
	)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("⚠️  [Telegram] send failed: %v", err)
	}
}
