package ws

import "time"

// Event names pushed to connected frontends.
const (
	EventQRGenerated      = "qr_generated"
	EventConnectionStatus = "connection_status"
	EventSessionError     = "session_error"
)

type WsEvent struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// QRGeneratedData carries a fresh pairing code for display.
type QRGeneratedData struct {
	Session string `json:"session"`
	QRData  string `json:"qr_data"`
}

// ConnectionStatusData is broadcast on every lifecycle transition.
type ConnectionStatusData struct {
	Session string `json:"session"`
	State   string `json:"state"`
	JID     string `json:"jid,omitempty"`
}

// SessionErrorData is broadcast when a session fails to come up.
type SessionErrorData struct {
	Session string `json:"session"`
	Detail  string `json:"detail"`
}
