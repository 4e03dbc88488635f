package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akulkarni/oddsedge/internal/engine"
	"github.com/akulkarni/oddsedge/internal/logging"
)

// Telegram caps bot messages at roughly 30/min per chat; spacing sends out
// keeps us under the 429 threshold.
const minSendInterval = 2 * time.Second

// Notifier pushes opportunity alerts to a single Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time
}

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false
	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("telegram bot handshake: %w", err)
	}
	logging.Infof("telegram notifier ready for chat %d", chatID)
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// SendOpportunity posts a formatted alert, blocking as needed to respect the
// per-chat rate limit.
func (n *Notifier) SendOpportunity(op *engine.Opportunity) error {
	if n == nil || n.bot == nil {
		return fmt.Errorf("telegram notifier not initialized")
	}

	msg := tgbotapi.NewMessage(n.chatID, formatOpportunity(op))
	msg.ParseMode = tgbotapi.ModeMarkdown

	n.mu.Lock()
	defer n.mu.Unlock()
	if elapsed := time.Since(n.lastSend); elapsed < minSendInterval {
		time.Sleep(minSendInterval - elapsed)
	}
	n.lastSend = time.Now()

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func formatOpportunity(op *engine.Opportunity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🚨 *Arbitrage %.3f%%*\n\n", op.Margin)
	fmt.Fprintf(&b, "*%s*\n", escapeMarkdown(op.Event))
	fmt.Fprintf(&b, "🏆 %s | %s", escapeMarkdown(op.League), op.Market)
	if op.Line != nil && *op.Line != "" {
		fmt.Fprintf(&b, " (line %s)", *op.Line)
	}
	b.WriteString("\n\n")

	for _, leg := range op.BestPrices {
		fmt.Fprintf(&b, "💰 %s @ *%.2f* (%s)\n",
			escapeMarkdown(leg.Outcome), leg.Price, escapeMarkdown(leg.Sportsbook))
	}
	if op.CommenceTime != nil {
		fmt.Fprintf(&b, "🕐 Starts: %s\n", op.CommenceTime.UTC().Format("2006-01-02 15:04 UTC"))
	}
	return b.String()
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
