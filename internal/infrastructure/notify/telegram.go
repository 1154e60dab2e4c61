package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// telegramAPIURL is the Bot API base endpoint
const telegramAPIURL = "https://api.telegram.org"

// defaultSendTimeout bounds one sendMessage call
const defaultSendTimeout = 5 * time.Second

// sendMessageRequest is the Bot API sendMessage body
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// sendMessageResponse is the Bot API envelope
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramNotifier dispatches plain-text messages through the Telegram Bot
// API. It implements the integration.Notifier port. Failed sends are
// reported to the caller, which logs them; there is no retry.
type TelegramNotifier struct {
	http     *resty.Client
	botToken string
	logger   *zap.Logger
}

// TelegramOption is a functional option for TelegramNotifier configuration
type TelegramOption func(*TelegramNotifier)

// WithBaseURL overrides the Bot API endpoint, used by tests
func WithBaseURL(baseURL string) TelegramOption {
	return func(n *TelegramNotifier) {
		n.http.SetBaseURL(baseURL)
	}
}

// WithSendTimeout overrides the default per-send timeout
func WithSendTimeout(timeout time.Duration) TelegramOption {
	return func(n *TelegramNotifier) {
		n.http.SetTimeout(timeout)
	}
}

// NewTelegramNotifier creates a new TelegramNotifier
func NewTelegramNotifier(botToken string, logger *zap.Logger, opts ...TelegramOption) *TelegramNotifier {
	notifier := &TelegramNotifier{
		http: resty.New().
			SetBaseURL(telegramAPIURL).
			SetTimeout(defaultSendTimeout).
			SetHeader("Content-Type", "application/json"),
		botToken: botToken,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(notifier)
	}
	return notifier
}

// Send posts one message to the given chat
func (n *TelegramNotifier) Send(ctx context.Context, chatID, text string) error {
	if n.botToken == "" {
		return integration.ErrNotifyChannelNotConfigured
	}

	var result sendMessageResponse
	resp, err := n.http.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{
			ChatID:                chatID,
			Text:                  text,
			DisableWebPagePreview: true,
		}).
		SetResult(&result).
		SetError(&result).
		ForceContentType("application/json").
		Post(fmt.Sprintf("/bot%s/sendMessage", n.botToken))
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrNotifyDispatchFailed, err)
	}
	if resp.StatusCode() >= 300 || !result.OK {
		return fmt.Errorf("%w: HTTP %d %s", integration.ErrNotifyDispatchFailed, resp.StatusCode(), result.Description)
	}

	n.logger.Debug("Alert notification dispatched",
		zap.String("chat_id", chatID),
		zap.Int("text_len", len(text)),
	)
	return nil
}

// Ensure TelegramNotifier implements the Notifier port
var _ integration.Notifier = (*TelegramNotifier)(nil)
