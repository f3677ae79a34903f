package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mau.fi/whatsmeow/store"

	"diagwa/internal/session"
)

type stubCreds struct{}

func (stubCreds) Load(ctx context.Context) (*store.Device, error)       { return nil, nil }
func (stubCreds) Erase(ctx context.Context, device *store.Device) error { return nil }

func TestQRStatusReportsNullWhenNoCodePending(t *testing.T) {
	mgr := session.NewManager("test", stubCreds{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/qr/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := QRStatus(mgr)(c); err != nil {
		t.Fatalf("QRStatus: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			QR    *string `json:"qr"`
			State string  `json:"state"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Error("success = false")
	}
	if body.Data.QR != nil {
		t.Errorf("qr = %q, want null", *body.Data.QR)
	}
	if body.Data.State != string(session.StateIdle) {
		t.Errorf("state = %q, want %q", body.Data.State, session.StateIdle)
	}
}
