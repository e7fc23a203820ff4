package smtpfwd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/core"
)

// Forwarder delivers forwarded emails through an external SMTP relay
type Forwarder struct {
	addr     string
	username string
	password string
	from     string
	logger   *zap.Logger
}

// NewForwarder creates a new SMTP forwarder
func NewForwarder(addr, username, password, from string, logger *zap.Logger) *Forwarder {
	return &Forwarder{
		addr:     addr,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

// Forward sends the message's content to the given address, preserving the
// original subject
func (f *Forwarder) Forward(ctx context.Context, msg core.EmailMessage, to string) error {
	// Get hostname for EHLO
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", f.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set connection deadline: %w", err)
		}
	} else if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if f.username != "" {
		auth := sasl.NewPlainClient("", f.username, f.password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := c.Mail(f.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	if err := c.Rcpt(to, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(f.buildMessage(msg, to)); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
		// The email has already been accepted at this point
	}

	f.logger.Debug("Forwarded email via SMTP relay",
		zap.String("message_id", msg.ID),
		zap.String("to", to))

	return nil
}

func (f *Forwarder) buildMessage(msg core.EmailMessage, to string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", f.from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", core.ForwardSubject(msg))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	fmt.Fprintf(&buf, "\r\n")
	buf.WriteString(core.ForwardBody(msg))
	return buf.Bytes()
}

var _ core.Forwarder = (*Forwarder)(nil)
