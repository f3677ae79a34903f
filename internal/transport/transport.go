package transport

import (
	"context"
	"errors"
	"time"
)

// ErrNotConnected is returned by the socket transport when the session has
// no open connection.
var ErrNotConnected = errors.New("whatsapp connection is not open")

// SendResult is the provider acknowledgement for one outbound message.
// Unsupported marks operations a provider cannot perform (e.g. document
// sends on hosted APIs that require a public media URL); it is a tagged
// result, not an error.
type SendResult struct {
	MessageID   string
	Timestamp   time.Time
	Unsupported bool
	Detail      string
}

// Transport is the outbound messaging capability. Implementations are
// selected at construction time; callers never inspect the concrete type.
type Transport interface {
	SendText(ctx context.Context, message, phone string) (*SendResult, error)
	SendDocument(ctx context.Context, phone string, data []byte, fileName, caption string) (*SendResult, error)
}
