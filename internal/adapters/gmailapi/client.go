package gmailapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mikey/daily-briefer/internal/auth"
	"github.com/mikey/daily-briefer/internal/core"
	"github.com/mikey/daily-briefer/internal/rate"
)

// Client adapts the Gmail API to the core.MailSource port
type Client struct {
	svc     *gmail.Service
	limiter rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a Gmail client from an authenticated credential
func NewClient(ctx context.Context, cred *auth.Credential, limiter rate.Limiter, logger *zap.Logger) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(cred.TokenSource()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc, limiter: limiter, logger: logger}, nil
}

// ListMessages returns full messages matching the query
func (c *Client) ListMessages(ctx context.Context, q core.MailQuery) ([]core.EmailMessage, error) {
	raw := q.Raw
	if raw == "" {
		raw = QueryInbox(q.DaysBack, nil)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := c.svc.Users.Messages.List("me").Q(raw).MaxResults(int64(q.MaxResults)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]core.EmailMessage, 0, len(res.Messages))
	for _, ref := range res.Messages {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		msg, err := c.svc.Users.Messages.Get("me", ref.Id).Context(ctx).Do()
		if err != nil {
			c.logger.Warn("Failed to fetch message, skipping",
				zap.String("id", ref.Id),
				zap.Error(err))
			continue
		}
		messages = append(messages, toEmailMessage(msg))
	}
	return messages, nil
}

// ModifyLabels adds and removes label ids on a message in one call
func (c *Client) ModifyLabels(ctx context.Context, id string, add, remove []string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req := &gmail.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}
	if _, err := c.svc.Users.Messages.Modify("me", id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to modify labels on %s: %w", id, err)
	}
	return nil
}

// Send sends a plain-text message from the authenticated account
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	rfc822 := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body)
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(rfc822)),
	}
	if _, err := c.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// ListLabels returns the name to id mapping of every label in the store
func (c *Client) ListLabels(ctx context.Context) (map[string]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := c.svc.Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	byName := make(map[string]string, len(res.Labels))
	for _, l := range res.Labels {
		byName[l.Name] = l.Id
	}
	return byName, nil
}

// CreateLabel creates a user label visible in the label and message lists
func (c *Client) CreateLabel(ctx context.Context, name string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	created, err := c.svc.Users.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return created.Id, nil
}

func toEmailMessage(msg *gmail.Message) core.EmailMessage {
	out := core.EmailMessage{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		LabelIDs: msg.LabelIds,
	}
	for _, id := range msg.LabelIds {
		if core.IsSystemLabel(id) {
			out.TypeLabels = append(out.TypeLabels, id)
		}
	}
	if msg.InternalDate > 0 {
		out.Timestamp = time.UnixMilli(msg.InternalDate)
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "From":
				out.Sender = h.Value
			case "Subject":
				out.Subject = h.Value
			}
		}
		out.Body = decodeBody(msg.Payload)
	}
	return out
}

// decodeBody extracts the first text part of the message payload
func decodeBody(payload *gmail.MessagePart) string {
	if payload.MimeType == "text/plain" || payload.MimeType == "text/html" {
		if payload.Body != nil && payload.Body.Data != "" {
			if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
				return string(data)
			}
		}
	}
	var htmlFallback string
	for _, part := range payload.Parts {
		if part.Body == nil || part.Body.Data == "" {
			if nested := decodeBody(part); nested != "" {
				return nested
			}
			continue
		}
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			continue
		}
		switch part.MimeType {
		case "text/plain":
			return string(data)
		case "text/html":
			htmlFallback = string(data)
		}
	}
	return htmlFallback
}

var _ core.MailSource = (*Client)(nil)
