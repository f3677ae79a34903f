package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"diagwa/internal/session"
)

// QRStatus returns the current pairing code (if any) and connection state.
// GET /qr/status
func QRStatus(mgr *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		// null, not "", when no code is pending
		var qr interface{}
		if code := mgr.PairingArtifact(); code != "" {
			qr = code
		}
		return SuccessResponse(c, http.StatusOK, "QR status", map[string]interface{}{
			"qr":    qr,
			"state": string(mgr.State()),
		})
	}
}

// QRReset drops the stored credentials and starts a fresh pairing sequence.
// The restart runs in the background; the response only acknowledges the
// request. GET /qr/reset
func QRReset(mgr *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		go mgr.Restart()
		return SuccessResponse(c, http.StatusOK, "Session restart requested", map[string]interface{}{
			"state": string(mgr.State()),
		})
	}
}
