package helper

import (
	"testing"

	"go.mau.fi/whatsmeow/types"
)

func TestFormatPhoneNumber(t *testing.T) {
	jid, err := FormatPhoneNumber("+57 (300) 123-4567")
	if err != nil {
		t.Fatalf("FormatPhoneNumber: %v", err)
	}
	if jid.User != "573001234567" {
		t.Errorf("user = %q, want 573001234567", jid.User)
	}
	if jid.Server != types.DefaultUserServer {
		t.Errorf("server = %q", jid.Server)
	}

	if _, err := FormatPhoneNumber("abc123"); err == nil {
		t.Error("letters should be rejected")
	}
	if _, err := FormatPhoneNumber("12345"); err == nil {
		t.Error("short numbers should be rejected")
	}
	if _, err := FormatPhoneNumber("1234567890123456"); err == nil {
		t.Error("overlong numbers should be rejected")
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("+57 300-123.4567"); got != "573001234567" {
		t.Errorf("NormalizePhone = %q", got)
	}
}

func TestExtractPhoneFromJID(t *testing.T) {
	cases := map[string]string{
		"593982840685:43@s.whatsapp.net": "593982840685",
		"5551234@c.us":                   "5551234",
		"5551234":                        "5551234",
	}
	for in, want := range cases {
		if got := ExtractPhoneFromJID(in); got != want {
			t.Errorf("ExtractPhoneFromJID(%q) = %q, want %q", in, got, want)
		}
	}
}
