package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"diagwa/internal/helper"
)

// TwilioTransport sends through the Twilio WhatsApp channel. Like the cloud
// api provider it cannot attach raw document bytes, so SendDocument reports
// an unsupported result.
type TwilioTransport struct {
	From   string
	client *twilio.RestClient
}

func NewTwilioTransport(accountSID, authToken, from string) *TwilioTransport {
	return &TwilioTransport{
		From: from,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

func (t *TwilioTransport) SendText(ctx context.Context, message, phone string) (*SendResult, error) {
	params := &openapi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + helper.NormalizePhone(phone))
	params.SetFrom("whatsapp:" + t.From)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("twilio send: %w", err)
	}

	result := &SendResult{Timestamp: time.Now()}
	if resp.Sid != nil {
		result.MessageID = *resp.Sid
	}
	return result, nil
}

func (t *TwilioTransport) SendDocument(ctx context.Context, phone string, data []byte, fileName, caption string) (*SendResult, error) {
	return &SendResult{
		Unsupported: true,
		Detail:      "document delivery requires hosted media and is not available on the twilio provider",
	}, nil
}
