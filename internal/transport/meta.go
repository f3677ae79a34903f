package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"diagwa/internal/helper"
)

const metaGraphBaseURL = "https://graph.facebook.com/v17.0"

// MetaTransport sends through the WhatsApp Cloud API. Documents require a
// publicly hosted media URL, which this service does not expose, so
// SendDocument reports an unsupported result instead of failing the caller.
type MetaTransport struct {
	Token    string
	NumberID string

	// BaseURL overrides the Graph API endpoint, mainly for tests.
	BaseURL string

	client *http.Client
}

func NewMetaTransport(token, numberID string) *MetaTransport {
	return &MetaTransport{
		Token:    token,
		NumberID: numberID,
		BaseURL:  metaGraphBaseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type metaTextPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             metaText `json:"text"`
}

type metaText struct {
	Body string `json:"body"`
}

type metaSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (t *MetaTransport) SendText(ctx context.Context, message, phone string) (*SendResult, error) {
	payload := metaTextPayload{
		MessagingProduct: "whatsapp",
		To:               helper.NormalizePhone(phone),
		Type:             "text",
		Text:             metaText{Body: message},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/messages", t.BaseURL, t.NumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.Token)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meta api request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed metaSendResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("meta api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := string(raw)
		if parsed.Error != nil {
			detail = parsed.Error.Message
		}
		return nil, fmt.Errorf("meta api status %d: %s", resp.StatusCode, detail)
	}

	result := &SendResult{Timestamp: time.Now()}
	if len(parsed.Messages) > 0 {
		result.MessageID = parsed.Messages[0].ID
	}
	return result, nil
}

func (t *MetaTransport) SendDocument(ctx context.Context, phone string, data []byte, fileName, caption string) (*SendResult, error) {
	return &SendResult{
		Unsupported: true,
		Detail:      "document delivery requires a hosted media URL and is not available on the cloud api provider",
	}, nil
}
