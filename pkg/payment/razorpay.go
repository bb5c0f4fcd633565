package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Gateway abstracts the payment provider so handlers can be tested
// without hitting the real API.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Config holds payment gateway credentials
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string
}

// Order represents a gateway order awaiting payment
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to the Razorpay-compatible orders API
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new payment gateway client
func NewClient(config Config, logger *logrus.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder creates a gateway order for the given amount in minor
// units (paise for INR).
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	if currency == "" {
		currency = c.config.Currency
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.KeyID, c.config.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"receipt":     receipt,
		}).Error("Payment gateway order creation failed")
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
	}).Info("Payment gateway order created")

	return &order, nil
}

// VerifySignature checks the HMAC-SHA256 signature the gateway sends
// back after checkout. The signed payload is "<orderID>|<paymentID>"
// keyed with the account secret; comparison is constant-time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.config.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
