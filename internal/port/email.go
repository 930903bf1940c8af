package port

import "context"

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender abstracts email delivery for share notifications.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
