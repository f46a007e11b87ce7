package content

import (
	"context"
	"fmt"
	"log/slog"
)

// Contact form field names accepted by SetField.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// Deliverer sends a submitted contact draft somewhere.
type Deliverer interface {
	Deliver(ctx context.Context, d ContactDraft) error
}

// MockDeliverer records submissions in the log and always succeeds.
type MockDeliverer struct {
	logger *slog.Logger
}

func NewMockDeliverer(logger *slog.Logger) *MockDeliverer {
	return &MockDeliverer{logger: logger}
}

func (m *MockDeliverer) Deliver(ctx context.Context, d ContactDraft) error {
	if m.logger != nil {
		m.logger.InfoContext(ctx, "contact message recorded (mock)",
			"name", d.Name,
			"email", d.Email,
			"message_len", len(d.Message),
		)
	}
	return nil
}

// ContactForm owns the single in-progress contact draft.
type ContactForm struct {
	draft     ContactDraft
	deliverer Deliverer
}

func NewContactForm(deliverer Deliverer) *ContactForm {
	return &ContactForm{deliverer: deliverer}
}

// SetField updates one draft field without validating the value.
func (f *ContactForm) SetField(field, value string) (ContactDraft, error) {
	switch field {
	case FieldName:
		f.draft.Name = value
	case FieldEmail:
		f.draft.Email = value
	case FieldMessage:
		f.draft.Message = value
	default:
		return f.draft, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return f.draft, nil
}

// Draft returns the current draft.
func (f *ContactForm) Draft() ContactDraft {
	return f.draft
}

// Submit delivers the draft and clears it. A failed delivery keeps the draft
// and returns an error wrapping ErrSubmitFailure.
func (f *ContactForm) Submit(ctx context.Context) error {
	if err := f.deliverer.Deliver(ctx, f.draft); err != nil {
		return fmt.Errorf("%w: %w", ErrSubmitFailure, err)
	}
	f.draft = ContactDraft{}
	return nil
}
