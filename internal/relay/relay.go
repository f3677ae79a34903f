package relay

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"diagwa/internal/helper"
)

// Inbound is one received chat message headed for the downstream consumer.
// AuditID stays nil for messages arriving over the device socket; only the
// hosted webhook path can correlate an audit trail.
type Inbound struct {
	SenderID string
	Text     string
	AuditID  *string
}

type forwardPayload struct {
	Message     string  `json:"message"`
	PhoneNumber string  `json:"phone_number"`
	AuditID     *string `json:"audit_id"`
}

// Forwarder POSTs inbound messages to a configured consumer endpoint.
type Forwarder struct {
	URL    string
	Secret string
	client *http.Client
}

func NewForwarder(url, secret string) *Forwarder {
	return &Forwarder{
		URL:    url,
		Secret: secret,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled reports whether a consumer endpoint is configured.
func (f *Forwarder) Enabled() bool {
	return f.URL != ""
}

// Forward delivers one inbound message. The sender identifier is reduced to
// its bare phone number before posting.
func (f *Forwarder) Forward(in Inbound) error {
	if !f.Enabled() {
		return nil
	}

	payload := forwardPayload{
		Message:     in.Text,
		PhoneNumber: helper.ExtractPhoneFromJID(in.SenderID),
		AuditID:     in.AuditID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, f.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.Secret != "" {
		req.Header.Set("X-DIAGWA-Signature", signPayload(body, f.Secret))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("forward message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("forward message: consumer returned status %d", resp.StatusCode)
	}
	return nil
}

func signPayload(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
