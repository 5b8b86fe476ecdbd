package services

import (
	"context"
	"errors"

	"invoice_manager/pkg/whatsapp"
)

var ErrNotifierDisabled = errors.New("messaging gateway is not configured")

// Notifier delivers a text message to a phone number.
type Notifier interface {
	Notify(ctx context.Context, phone, message string) error
}

type whatsappNotifier struct {
	client *whatsapp.Client
}

func NewWhatsAppNotifier(client *whatsapp.Client) Notifier {
	return &whatsappNotifier{client: client}
}

func (n *whatsappNotifier) Notify(ctx context.Context, phone, message string) error {
	if !n.client.Enabled() {
		return ErrNotifierDisabled
	}
	return n.client.SendTextMessage(ctx, phone, message)
}
