package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
)

const telegramAPI = "https://api.telegram.org"

// Telegram posts OTP codes and new-order alerts to an operator chat through
// the Bot API.
type Telegram struct {
	botToken string
	chatID   string
	baseURL  string
	ttl      time.Duration
	client   *http.Client
}

// NewTelegram creates a Telegram notifier for the given bot and chat.
func NewTelegram(botToken, chatID string, ttl time.Duration) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPI,
		ttl:      ttl,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

func (n *Telegram) Send(ctx context.Context, email, code string, otpID uuid.UUID) error {
	return n.sendMessage(ctx, telegramMessage{
		ChatID: n.chatID,
		Text:   messageText(email, code, otpID, n.ttl),
	})
}

// OrderPlaced sends a summary of a new order.
func (n *Telegram) OrderPlaced(ctx context.Context, order *models.Order) error {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, "%d. <b>%s</b>\n   %d x %s = %s\n",
			item.Line,
			html.EscapeString(item.ProductID),
			item.Quantity,
			item.PriceAtTime,
			item.Subtotal(),
		)
	}

	text := fmt.Sprintf(`<b>New order</b>
<b>Order:</b> %s
<b>Customer:</b> %s
<b>Items:</b>
%s
<b>Total:</b> %s
<b>Payment:</b> %s
<b>Ship to:</b> %s`,
		order.ID,
		order.UserID,
		items.String(),
		order.TotalAmount,
		html.EscapeString(order.PaymentMethod),
		html.EscapeString(order.ShippingAddress),
	)

	return n.sendMessage(ctx, telegramMessage{
		ChatID:    n.chatID,
		Text:      strings.TrimSpace(text),
		ParseMode: "HTML",
	})
}

func (n *Telegram) sendMessage(ctx context.Context, msg telegramMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
