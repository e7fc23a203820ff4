package drive

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/mikey/daily-briefer/internal/auth"
	"github.com/mikey/daily-briefer/internal/core"
)

// Client adapts the Google Drive API to the core.DocumentSource port
type Client struct {
	svc    *drive.Service
	logger *zap.Logger
}

// NewClient creates a Drive client from an authenticated credential
func NewClient(ctx context.Context, cred *auth.Credential, logger *zap.Logger) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(cred.TokenSource()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// Search finds workspace documents whose name or content matches the query
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]core.DocumentReference, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	q := fmt.Sprintf("fullText contains '%s' and trashed = false", escapeQuery(query))
	res, err := c.svc.Files.List().
		Q(q).
		PageSize(int64(maxResults)).
		Fields("files(id, name, mimeType, webViewLink)").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	refs := make([]core.DocumentReference, 0, len(res.Files))
	for _, f := range res.Files {
		refs = append(refs, core.DocumentReference{
			Title:   f.Name,
			URL:     f.WebViewLink,
			Source:  "drive",
			DocType: f.MimeType,
		})
	}
	return refs, nil
}

func escapeQuery(q string) string {
	out := make([]rune, 0, len(q))
	for _, r := range q {
		if r == '\'' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

var _ core.DocumentSource = (*Client)(nil)
