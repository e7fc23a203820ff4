package gmailapi

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/core"
)

// Forwarder forwards emails through the authenticated Gmail account
type Forwarder struct {
	source core.MailSource
	logger *zap.Logger
}

// NewForwarder creates a forwarder backed by a Gmail mail source
func NewForwarder(source core.MailSource, logger *zap.Logger) *Forwarder {
	return &Forwarder{
		source: source,
		logger: logger,
	}
}

// Forward sends the message's content to the given address, preserving the
// original subject
func (f *Forwarder) Forward(ctx context.Context, msg core.EmailMessage, to string) error {
	if err := f.source.Send(ctx, to, core.ForwardSubject(msg), core.ForwardBody(msg)); err != nil {
		return fmt.Errorf("failed to forward email %s: %w", msg.ID, err)
	}

	f.logger.Debug("Forwarded email via Gmail",
		zap.String("message_id", msg.ID),
		zap.String("to", to))

	return nil
}

var _ core.Forwarder = (*Forwarder)(nil)
