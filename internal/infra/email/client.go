// File: internal/infra/email/client.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/KrappRamiro/zero2prod/internal/domain/ports/adapter"
)

var _ adapter.EmailSender = (*Client)(nil)

// Client talks to a Postmark-compatible transactional email API. It is
// stateless and safe for concurrent use; per-call state is limited to the
// request itself.
type Client struct {
	baseURL   string
	sender    string
	authToken string
	client    *http.Client
}

func NewClient(baseURL, sender, authToken string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("email base url empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid email base url: %w", err)
	}
	if sender == "" {
		return nil, errors.New("email sender empty")
	}
	return &Client{
		baseURL:   baseURL,
		sender:    sender,
		authToken: authToken,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// Send performs exactly one outbound HTTP call. A transport failure or a
// non-2xx response is returned immediately; the caller decides what a
// delivery failure means.
func (c *Client) Send(ctx context.Context, msg adapter.Message) error {
	payload := sendEmailRequest{
		From:     c.sender,
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTML,
		TextBody: msg.Text,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send email to %s: transport returned %d", msg.To, resp.StatusCode)
	}
	return nil
}
