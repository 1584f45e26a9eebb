package service

import (
	"context"
	"log/slog"
	"strings"

	"puppaka/internal/metrics"
	"puppaka/internal/model"
	"puppaka/internal/repository"
)

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService accepts contact submissions.
type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (uint, error)
}

type contactService struct {
	contacts repository.ContactRepository
	metrics  metrics.Recorder
}

// NewContactService builds the contact intake service.
func NewContactService(contacts repository.ContactRepository, rec metrics.Recorder) ContactService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &contactService{contacts: contacts, metrics: rec}
}

// Submit validates and stores a submission. Invalid submissions are not written.
func (s *contactService) Submit(ctx context.Context, in ContactInput) (uint, error) {
	contact := &model.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if err := contact.Validate(); err != nil {
		return 0, err
	}

	id, err := s.contacts.Create(ctx, contact)
	if err != nil {
		return 0, err
	}

	s.metrics.ContactReceived()
	slog.InfoContext(ctx, "contact received", "id", id, "email", contact.Email)
	return id, nil
}
