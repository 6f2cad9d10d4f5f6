// Package sms implements the notify.Notifier contract against the
// UjumbeSMS HTTP gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hamu/internal/domain/notify"
	"hamu/pkg/logger"
)

// The gateway accepts at most this many recipients per message bag.
const maxRecipientsPerBag = 80

// Config holds gateway credentials and settings.
type Config struct {
	BaseURL string
	APIKey  string
	Email   string

	// Sender is the registered sender ID shown on recipients' phones.
	Sender string

	Timeout time.Duration
}

// Client sends SMS through the UjumbeSMS messaging API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	email      string
	sender     string
}

// NewClient creates an SMS client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	sender := cfg.Sender
	if sender == "" {
		sender = "HamuWater"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		email:      cfg.Email,
		sender:     sender,
	}
}

type messageBag struct {
	Numbers string `json:"numbers"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

type bagWrapper struct {
	MessageBag messageBag `json:"message_bag"`
}

type payload struct {
	Data []bagWrapper `json:"data"`
}

// Send groups messages by text, chunks recipients per gateway limits, and
// posts them in one request.
func (c *Client) Send(ctx context.Context, messages []notify.Message) error {
	if len(messages) == 0 {
		return nil
	}

	byText := make(map[string][]string)
	order := make([]string, 0)
	for _, m := range messages {
		if m.PhoneNumber == "" {
			continue
		}
		if _, ok := byText[m.Text]; !ok {
			order = append(order, m.Text)
		}
		byText[m.Text] = append(byText[m.Text], m.PhoneNumber)
	}

	var bags []bagWrapper
	for _, text := range order {
		numbers := byText[text]
		for start := 0; start < len(numbers); start += maxRecipientsPerBag {
			end := start + maxRecipientsPerBag
			if end > len(numbers) {
				end = len(numbers)
			}
			bags = append(bags, bagWrapper{MessageBag: messageBag{
				Numbers: strings.Join(numbers[start:end], ","),
				Message: text,
				Sender:  c.sender,
			}})
		}
	}
	if len(bags) == 0 {
		return nil
	}

	body, err := json.Marshal(payload{Data: bags})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/messaging", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Authorization", c.apiKey)
	req.Header.Set("email", c.email)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, snippet)
	}

	logger.Info(ctx, "sms batch sent",
		"bags", len(bags),
		"recipients", len(messages),
	)
	return nil
}

// Ensure interface compliance.
var _ notify.Notifier = (*Client)(nil)
