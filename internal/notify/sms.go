package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SMSChannel posts a short message to a third-party SMS gateway.
type SMSChannel struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewSMSChannel constructs the channel.
func NewSMSChannel(apiURL, apiKey string) *SMSChannel {
	return &SMSChannel{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Name implements Channel.
func (s *SMSChannel) Name() string { return "sms" }

// Send implements Channel.
func (s *SMSChannel) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(map[string]string{
		"to":      msg.Recipient,
		"message": msg.Subject(),
		"api_key": s.apiKey,
	})
	if err != nil {
		return fmt.Errorf("sms: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("sms: unexpected status %d", resp.StatusCode)
	}
	return nil
}
