package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer sends a single transactional email. Implementations must not retry;
// the caller decides whether a failed send matters.
type Mailer interface {
	Send(ctx context.Context, toName, toAddr, subject, htmlBody string) error
}

// NylasMailer sends via the Nylas v3 grant messages API.
type NylasMailer struct {
	BaseURL string
	APIKey  string
	GrantID string
	client  *http.Client
}

func NewNylasMailer(baseURL, apiKey, grantID string) *NylasMailer {
	if baseURL == "" {
		baseURL = "https://api.us.nylas.com"
	}
	return &NylasMailer{
		BaseURL: baseURL,
		APIKey:  apiKey,
		GrantID: grantID,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type nylasRecipient struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type nylasSendReq struct {
	To      []nylasRecipient `json:"to"`
	Subject string           `json:"subject"`
	Body    string           `json:"body"`
}

func (m *NylasMailer) Send(ctx context.Context, toName, toAddr, subject, htmlBody string) error {
	payload := nylasSendReq{
		To:      []nylasRecipient{{Name: toName, Email: toAddr}},
		Subject: subject,
		Body:    htmlBody,
	}
	body, _ := json.Marshal(payload)
	endpoint := fmt.Sprintf("%s/v3/grants/%s/messages/send", m.BaseURL, m.GrantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("nylas send: %d", resp.StatusCode)
	}
	return nil
}
