package gonotifications

import (
	"context"

	"github.com/goliatone/go-letters/letter"
	"github.com/goliatone/go-letters/letter/notify"
	"github.com/goliatone/go-notifications/pkg/onready"
)

// Notifier adapts go-notifications OnReadyNotifier to go-letters.
type Notifier struct {
	delegate onready.OnReadyNotifier
}

// NewNotifier wraps a go-notifications notifier.
func NewNotifier(delegate onready.OnReadyNotifier) *Notifier {
	return &Notifier{delegate: delegate}
}

// Send forwards the event to the underlying go-notifications notifier.
// Letter-specific fields without an OnReadyEvent slot stay on the core
// event for notifiers that can use them.
func (n *Notifier) Send(ctx context.Context, evt notify.LetterReadyEvent) error {
	if n == nil || n.delegate == nil {
		return letter.NewError(letter.KindNotImpl, "go-notifications notifier not configured", nil)
	}

	payload := onready.OnReadyEvent{
		Recipients:       evt.Recipients,
		Locale:           evt.Locale,
		ActorID:          evt.ActorID,
		Channels:         evt.Channels,
		FileName:         evt.FileName,
		Format:           "pdf",
		URL:              evt.URL,
		Message:          evt.Message,
		ChannelOverrides: evt.ChannelOverrides,
	}

	return n.delegate.Send(ctx, payload)
}
