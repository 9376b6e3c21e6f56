package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents an EmailJS API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new EmailJS client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// SendCommentNotification emails the artist about a new comment.
func (c *Client) SendCommentNotification(ctx context.Context, n CommentNotification) error {
	kind := "comment"
	if n.IsReply {
		kind = "reply"
	}

	req := SendRequest{
		ServiceID:  c.config.ServiceID,
		TemplateID: c.config.TemplateID,
		UserID:     c.config.PublicKey,
		TemplateParams: map[string]string{
			"author_name": n.AuthorName,
			"content":     n.Content,
			"posted_at":   n.PostedAt,
			"kind":        kind,
			"to_email":    n.ToEmail,
		},
	}

	return c.doRequest(ctx, "email/send", req)
}

// doRequest performs an HTTP request to the EmailJS API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: status %d, body: %s", ErrUnauthorized, resp.StatusCode, string(body))
		default:
			return fmt.Errorf("%w: status %d, body: %s", ErrSendFailed, resp.StatusCode, string(body))
		}
	}

	return nil
}
