package channels

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/findin/findin-backend/internal/config"
)

// SMSSender posts messages to an HTTP SMS gateway.
type SMSSender struct {
	gatewayURL string
	apiKey     string
	senderID   string
	client     *http.Client
}

// NewSMSSender returns a gateway sender, or Noop when no gateway URL is
// configured.
func NewSMSSender(cfg *config.Config) Sender {
	if cfg.SMSGatewayURL == "" {
		return Noop{}
	}
	return &SMSSender{
		gatewayURL: cfg.SMSGatewayURL,
		apiKey:     cfg.SMSAPIKey,
		senderID:   cfg.SMSSenderID,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSSender) Send(ctx context.Context, to, subject, body string) error {
	form := url.Values{}
	form.Set("senderid", s.senderID)
	form.Set("msgType", "text")
	form.Set("msg", body)
	form.Set("mobile", to)
	form.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms gateway status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
