package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// LogSender writes notifications to a structured logger
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a sender backed by logger, or slog.Default when nil
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, n Notification) error {
	level := slog.LevelInfo
	switch n.Level {
	case LevelError:
		level = slog.LevelError
	case LevelWarning:
		level = slog.LevelWarn
	}
	attrs := []any{"level_name", string(n.Level)}
	if n.OrderID != "" {
		attrs = append(attrs, "order_id", n.OrderID)
	}
	if n.Title != "" {
		attrs = append(attrs, "title", n.Title)
	}
	s.logger.Log(ctx, level, n.Message, attrs...)
	return nil
}

// BotAPI is the part of tgbotapi.BotAPI used for sending
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender posts notifications to a staff chat
type TelegramSender struct {
	bot    BotAPI
	chatID int64
}

// NewTelegramSender connects to the Bot API with token
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return NewTelegramSenderWithBot(bot, chatID), nil
}

// NewTelegramSenderWithBot wraps an existing bot client
func NewTelegramSenderWithBot(bot BotAPI, chatID int64) *TelegramSender {
	return &TelegramSender{bot: bot, chatID: chatID}
}

func (s *TelegramSender) Send(_ context.Context, n Notification) error {
	msg := tgbotapi.NewMessage(s.chatID, FormatText(n))
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

var levelIcons = map[Level]string{
	LevelSuccess: "✅",
	LevelError:   "❌",
	LevelInfo:    "ℹ️",
	LevelWarning: "⚠️",
}

// FormatText renders a notification as a single chat message
func FormatText(n Notification) string {
	var b strings.Builder
	if icon, ok := levelIcons[n.Level]; ok {
		b.WriteString(icon)
		b.WriteString(" ")
	}
	if n.Title != "" {
		b.WriteString(n.Title)
		b.WriteString(": ")
	}
	b.WriteString(n.Message)
	if n.OrderID != "" {
		b.WriteString(" (#")
		b.WriteString(n.OrderID)
		b.WriteString(")")
	}
	return b.String()
}

// Recorder keeps every notification in memory
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Send(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

// Notifications returns a copy of everything recorded so far
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
