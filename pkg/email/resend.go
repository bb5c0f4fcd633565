package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const resendAPIURL = "https://api.resend.com/emails"

// ResendClient sends email through the Resend API
type ResendClient struct {
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewResendClient creates a production email sender
func NewResendClient(apiKey, from string, logger *logrus.Logger) *ResendClient {
	return &ResendClient{
		apiKey: apiKey,
		from:   from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers a message through the Resend API
func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(resendRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call email API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"to":          msg.To,
			"response":    string(respBody),
		}).Error("Email API request failed")
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}

	c.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email sent")

	return nil
}

// LogSender logs messages instead of sending them. Used in development
// when no API key is configured.
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a development email sender
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message without delivering it
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email (dev mode, not sent)")
	return nil
}
