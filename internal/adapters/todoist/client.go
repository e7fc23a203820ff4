package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/core"
)

// Client adapts the Todoist REST API to the core.TaskSource port
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Todoist REST client
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

type restTask struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Priority  int    `json:"priority"`
	ProjectID string `json:"project_id"`
	Due       *struct {
		Date string `json:"date"`
	} `json:"due"`
	IsCompleted bool `json:"is_completed"`
}

// ListTasks returns active tasks, optionally filtered to those due on or
// before the given date. Overdue tasks are flagged rather than dropped.
func (c *Client) ListTasks(ctx context.Context, due *time.Time) ([]core.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tasks", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tasks request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("todoist returned status %d: %s", res.StatusCode, string(body))
	}

	var raw []restTask
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]core.Task, 0, len(raw))
	for _, rt := range raw {
		task := core.Task{
			ID:        rt.ID,
			Title:     rt.Content,
			Priority:  rt.Priority,
			Project:   rt.ProjectID,
			Completed: rt.IsCompleted,
		}
		if rt.Due != nil {
			if d, err := time.Parse("2006-01-02", rt.Due.Date); err == nil {
				task.DueDate = d
			}
		}
		if due != nil && !task.DueDate.IsZero() {
			if task.DueDate.After(*due) {
				continue
			}
			task.Overdue = task.DueDate.Before(truncateToDay(*due))
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var _ core.TaskSource = (*Client)(nil)
