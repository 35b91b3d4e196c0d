package notify

import "context"

// LetterReadyNotifier delivers letter-ready notifications to students.
type LetterReadyNotifier interface {
	Send(ctx context.Context, evt LetterReadyEvent) error
}

// LetterReadyEvent mirrors go-notifications OnReadyEvent, but stays in go-letters.
type LetterReadyEvent struct {
	Recipients       []string
	Channels         []string
	Locale           string
	ActorID          string
	RequestID        string
	StudentName      string
	ReferenceNumber  string
	FileName         string
	URL              string
	Message          string
	ChannelOverrides map[string]map[string]any
	Attachments      []NotificationAttachment
}

// NotificationAttachment captures file payloads for notifications.
type NotificationAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
	Size        int64
}
