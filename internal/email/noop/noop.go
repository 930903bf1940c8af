package noop

import (
	"context"
	"log"

	"larder/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs messages to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) Send(_ context.Context, msg port.EmailMessage) error {
	log.Printf("[NOOP EMAIL] to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
