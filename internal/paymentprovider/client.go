// Package paymentprovider реализует клиент платёжного шлюза Razorpay
// для работы с платёжными ссылками: создание и запрос актуального статуса.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client клиент API Razorpay.
type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент шлюза.
func NewClient(keyID, keySecret, apiURL string) *Client {
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api error: %s (status: %d)", string(respBody), resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// CreatePaymentLink создаёт платёжную ссылку на указанную сумму,
// помеченную именем плательщика.
func (c *Client) CreatePaymentLink(ctx context.Context, amount int64, currency, description, payerName string) (*PaymentLink, error) {
	const op = "paymentprovider.CreatePaymentLink"

	reqBody := CreateLinkRequest{
		Amount:      amount,
		Currency:    currency,
		Description: description,
		Customer: Customer{
			Name: payerName,
		},
		Notify:         Notify{SMS: false, Email: false},
		ReminderEnable: false,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/payment_links", reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Защита от дублей при сетевых ретраях на стороне шлюза
	req.Header.Set("Idempotence-Key", uuid.New().String())

	var link PaymentLink
	if err := c.do(req, &link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &link, nil
}

// FetchPaymentLink запрашивает у шлюза актуальное состояние ссылки.
// Статус всегда берётся живым запросом, локальные значения не кешируются.
func (c *Client) FetchPaymentLink(ctx context.Context, linkID string) (*PaymentLink, error) {
	const op = "paymentprovider.FetchPaymentLink"

	req, err := c.newRequest(ctx, http.MethodGet, "/payment_links/"+linkID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var link PaymentLink
	if err := c.do(req, &link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &link, nil
}
