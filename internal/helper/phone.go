package helper

import (
	"fmt"
	"regexp"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

var (
	validFormat = regexp.MustCompile(`^[\d\s\+\-\(\)]+$`)
	nonDigits   = regexp.MustCompile(`[^\d]`)
)

// FormatPhoneNumber converts a phone number to WhatsApp JID format.
// The number must already carry its country code (e.g. "593982840685").
func FormatPhoneNumber(phone string) (types.JID, error) {
	if !validFormat.MatchString(phone) {
		return types.JID{}, fmt.Errorf("invalid phone number format: contains invalid characters")
	}

	// Strip everything except digits
	cleaned := nonDigits.ReplaceAllString(phone, "")

	if len(cleaned) < 7 || len(cleaned) > 15 {
		return types.JID{}, fmt.Errorf("invalid phone number length")
	}

	return types.JID{
		User:   cleaned,
		Server: types.DefaultUserServer,
	}, nil
}

// NormalizePhone strips formatting characters from a phone number without
// converting it to a JID. Used for numbers going to hosted APIs.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ExtractPhoneFromJID strips the server suffix and device part from a JID.
//
//	"593982840685:43@s.whatsapp.net" -> "593982840685"
//	"5551234@c.us"                   -> "5551234"
func ExtractPhoneFromJID(jid string) string {
	atSplit := strings.SplitN(jid, "@", 2)
	if len(atSplit) == 0 {
		return jid
	}
	beforeAt := atSplit[0]
	colonSplit := strings.SplitN(beforeAt, ":", 2)
	return colonSplit[0]
}
