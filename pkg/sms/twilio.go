package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier is the phone OTP contract. The provider holds the codes; there is
// no local OTP state to leak or expire.
type Verifier interface {
	SendVerification(ctx context.Context, phone string) error
	CheckVerification(ctx context.Context, phone, code string) (bool, error)
}

// TwilioVerifier implements Verifier against the Twilio Verify v2 API.
type TwilioVerifier struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	ServiceSID string
	client     *http.Client
}

func NewTwilioVerifier(baseURL, accountSID, authToken, serviceSID string) *TwilioVerifier {
	if baseURL == "" {
		baseURL = "https://verify.twilio.com"
	}
	return &TwilioVerifier{
		BaseURL:    baseURL,
		AccountSID: accountSID,
		AuthToken:  authToken,
		ServiceSID: serviceSID,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *TwilioVerifier) SendVerification(ctx context.Context, phone string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Channel", "sms")
	endpoint := fmt.Sprintf("%s/v2/Services/%s/Verifications", t.BaseURL, t.ServiceSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("twilio verification: %d", resp.StatusCode)
	}
	return nil
}

type verificationCheckResp struct {
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

func (t *TwilioVerifier) CheckVerification(ctx context.Context, phone, code string) (bool, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Code", code)
	endpoint := fmt.Sprintf("%s/v2/Services/%s/VerificationCheck", t.BaseURL, t.ServiceSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	resp, err := t.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("twilio verification check: %d", resp.StatusCode)
	}
	var out verificationCheckResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Status == "approved", nil
}
