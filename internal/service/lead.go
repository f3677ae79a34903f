package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"diagwa/internal/model"
	"diagwa/internal/transport"
)

// LeadStore is the persistence dependency of LeadService.
type LeadStore interface {
	SaveLead(ctx context.Context, lead *model.Lead) error
}

// LeadResult carries both the stored row and the provider acknowledgement.
type LeadResult struct {
	Lead *model.Lead
	Send *transport.SendResult
}

// LeadService sends one outbound campaign message and records it with a
// fresh audit id. When document bytes are present it tries a document send
// first and falls back to text.
type LeadService struct {
	Store     LeadStore
	Transport transport.Transport
}

func NewLeadService(store LeadStore, tr transport.Transport) *LeadService {
	return &LeadService{Store: store, Transport: tr}
}

func (s *LeadService) SendAndSave(ctx context.Context, message, phone string, document []byte, fileName string) (*LeadResult, error) {
	lead := &model.Lead{
		Message: message,
		Phone:   phone,
		AuditID: uuid.NewString(),
	}
	if err := s.Store.SaveLead(ctx, lead); err != nil {
		return nil, err
	}

	var sent *transport.SendResult
	var err error
	if len(document) > 0 {
		sent, err = s.Transport.SendDocument(ctx, phone, document, fileName, message)
		if err != nil || sent.Unsupported {
			sent, err = s.Transport.SendText(ctx, message, phone)
		}
	} else {
		sent, err = s.Transport.SendText(ctx, message, phone)
	}
	if err != nil {
		return nil, fmt.Errorf("send lead: %w", err)
	}

	return &LeadResult{Lead: lead, Send: sent}, nil
}
