package transport

import (
	"context"
	"fmt"
	"strings"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"google.golang.org/protobuf/proto"

	"diagwa/internal/helper"
	"diagwa/internal/session"
)

// SocketTransport sends through the device session owned by a
// session.Manager. It is the only variant that supports documents.
type SocketTransport struct {
	Manager *session.Manager
}

func NewSocketTransport(mgr *session.Manager) *SocketTransport {
	return &SocketTransport{Manager: mgr}
}

func (t *SocketTransport) client() (*whatsmeow.Client, error) {
	cli := t.Manager.Client()
	if cli == nil || t.Manager.State() != session.StateConnected {
		return nil, ErrNotConnected
	}
	return cli, nil
}

func (t *SocketTransport) SendText(ctx context.Context, message, phone string) (*SendResult, error) {
	cli, err := t.client()
	if err != nil {
		return nil, err
	}

	recipient, err := helper.FormatPhoneNumber(phone)
	if err != nil {
		return nil, err
	}

	msg := &waE2E.Message{
		Conversation: proto.String(message),
	}

	resp, err := cli.SendMessage(ctx, recipient, msg)
	if err != nil {
		return nil, fmt.Errorf("send text: %w", err)
	}

	return &SendResult{MessageID: string(resp.ID), Timestamp: resp.Timestamp}, nil
}

func (t *SocketTransport) SendDocument(ctx context.Context, phone string, data []byte, fileName, caption string) (*SendResult, error) {
	cli, err := t.client()
	if err != nil {
		return nil, err
	}

	recipient, err := helper.FormatPhoneNumber(phone)
	if err != nil {
		return nil, err
	}

	uploaded, err := cli.Upload(ctx, data, whatsmeow.MediaDocument)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	msg := &waE2E.Message{
		DocumentMessage: &waE2E.DocumentMessage{
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			Mimetype:      proto.String(documentMimetype(fileName)),
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
			FileName:      proto.String(fileName),
			Title:         proto.String(fileName),
			Caption:       proto.String(caption),
		},
	}

	resp, err := cli.SendMessage(ctx, recipient, msg)
	if err != nil {
		return nil, fmt.Errorf("send document: %w", err)
	}

	return &SendResult{MessageID: string(resp.ID), Timestamp: resp.Timestamp}, nil
}

func documentMimetype(fileName string) string {
	if strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}
