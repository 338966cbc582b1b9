package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const smsRequestTimeout = 5 * time.Second

// SMSSender delivers a single text message. Recipients must already be in
// E.164 format.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// InfobipClient sends SMS through an Infobip-compatible HTTP gateway.
type InfobipClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	sender  string
	log     zerolog.Logger
}

// NewInfobipClient creates an SMS client.
func NewInfobipClient(baseURL, apiKey, sender string, log zerolog.Logger) *InfobipClient {
	return &InfobipClient{
		http:    &http.Client{Timeout: smsRequestTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		sender:  sender,
		log:     log,
	}
}

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type smsResponse struct {
	Messages []struct {
		Status struct {
			GroupID     int    `json:"groupId"`
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"status"`
	} `json:"messages"`
}

// Send posts one message to the gateway. The gateway reports acceptance via
// status group ids 3 (delivered) and 5 (pending); anything else is a failure.
func (c *InfobipClient) Send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(smsRequest{From: c.sender, To: to, Text: body})
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sms/2/text/single", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Authorization", "App "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	defer resp.Body.Close()

	var result smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || len(result.Messages) == 0 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	groupID := result.Messages[0].Status.GroupID
	if groupID != 3 && groupID != 5 {
		return fmt.Errorf("sms rejected by gateway: %s (%s)",
			result.Messages[0].Status.Name, result.Messages[0].Status.Description)
	}
	return nil
}
