package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestMeta(baseURL string) *MetaTransport {
	return &MetaTransport{
		Token:    "test-token",
		NumberID: "123456",
		BaseURL:  baseURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestMetaSendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"wamid.abc123"}]}`))
	}))
	defer srv.Close()

	tr := newTestMeta(srv.URL)
	res, err := tr.SendText(context.Background(), "hola", "+57 300 123 4567")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}

	if res.MessageID != "wamid.abc123" {
		t.Errorf("message id = %q, want wamid.abc123", res.MessageID)
	}
	if res.Unsupported {
		t.Error("text send marked unsupported")
	}
	if gotPath != "/123456/messages" {
		t.Errorf("path = %q, want /123456/messages", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["messaging_product"] != "whatsapp" {
		t.Errorf("messaging_product = %v", gotBody["messaging_product"])
	}
	if gotBody["to"] != "573001234567" {
		t.Errorf("to = %v, want digits only", gotBody["to"])
	}
}

func TestMetaSendTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer srv.Close()

	tr := newTestMeta(srv.URL)
	_, err := tr.SendText(context.Background(), "hola", "5551234567")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "Invalid OAuth access token") {
		t.Errorf("error %q should carry the api message", err)
	}
}

func TestMetaSendDocumentUnsupported(t *testing.T) {
	tr := newTestMeta("http://unused.invalid")
	res, err := tr.SendDocument(context.Background(), "5551234567", []byte("%PDF-"), "report.pdf", "reporte")
	if err != nil {
		t.Fatalf("SendDocument: %v", err)
	}
	if !res.Unsupported {
		t.Error("document send on cloud api should be unsupported")
	}
	if res.Detail == "" {
		t.Error("unsupported result should explain why")
	}
}

func TestTwilioSendDocumentUnsupported(t *testing.T) {
	tr := NewTwilioTransport("AC0", "token", "+14155238886")
	res, err := tr.SendDocument(context.Background(), "5551234567", nil, "report.pdf", "")
	if err != nil {
		t.Fatalf("SendDocument: %v", err)
	}
	if !res.Unsupported {
		t.Error("document send on twilio should be unsupported")
	}
}
