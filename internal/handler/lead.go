package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"diagwa/internal/relay"
	"diagwa/internal/service"
)

// LeadHandler sends outbound campaign messages and receives hosted-provider
// webhooks.
type LeadHandler struct {
	Service   *service.LeadService
	Forwarder *relay.Forwarder
}

func NewLeadHandler(svc *service.LeadService, fw *relay.Forwarder) *LeadHandler {
	return &LeadHandler{Service: svc, Forwarder: fw}
}

type sendLeadRequest struct {
	Message string `json:"message"`
	Phone   string `json:"phone"`
	PDFPath string `json:"pdfPath"`
}

// Send stores and delivers one campaign message, with an optional PDF
// attachment read from disk. POST /lead
func (h *LeadHandler) Send(c echo.Context) error {
	var req sendLeadRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.Phone) == "" {
		return ErrorResponse(c, http.StatusBadRequest, "message and phone are required", "VALIDATION_ERROR", "")
	}

	var document []byte
	var fileName string
	if req.PDFPath != "" {
		data, err := os.ReadFile(req.PDFPath)
		if err != nil {
			return ErrorResponse(c, http.StatusBadRequest, "Cannot read attachment", "ATTACHMENT_ERROR", err.Error())
		}
		document = data
		fileName = filepath.Base(req.PDFPath)
	}

	result, err := h.Service.SendAndSave(c.Request().Context(), req.Message, req.Phone, document, fileName)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to send lead", "SEND_FAILED", err.Error())
	}

	return SuccessResponse(c, http.StatusOK, "Lead sent successfully", map[string]interface{}{
		"dbResult":   result.Lead,
		"sendResult": result.Send,
	})
}

type leadWebhookRequest struct {
	Message string  `json:"message"`
	From    string  `json:"from"`
	AuditID *string `json:"audit_id"`
}

// Webhook receives inbound messages from hosted providers and relays them to
// the configured consumer. POST /lead/webhook
func (h *LeadHandler) Webhook(c echo.Context) error {
	var req leadWebhookRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if req.Message == "" || req.From == "" {
		return ErrorResponse(c, http.StatusBadRequest, "message and from are required", "VALIDATION_ERROR", "")
	}

	if err := h.Forwarder.Forward(relay.Inbound{
		SenderID: req.From,
		Text:     req.Message,
		AuditID:  req.AuditID,
	}); err != nil {
		return ErrorResponse(c, http.StatusBadGateway, "Failed to relay message", "RELAY_FAILED", err.Error())
	}

	return SuccessResponse(c, http.StatusOK, "Message relayed", nil)
}
