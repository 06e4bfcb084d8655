package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	"webstarter-backend/internal/logger"
)

// Client wraps Firebase Cloud Messaging. Token acquisition and
// permission prompting happen in the browser; this side only delivers.
type Client struct {
	messaging *messaging.Client
}

func New(ctx context.Context, credentialsJSON []byte, projectID string) (*Client, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: projectID},
		option.WithCredentialsJSON(credentialsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	return &Client{messaging: msgClient}, nil
}

// Send delivers one notification to one device token and returns the
// FCM message id.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	messageID, err := c.messaging.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to send push notification: %w", err)
	}
	return messageID, nil
}

// SendMulticast fans one notification out to many tokens and reports
// per-token outcomes.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (*messaging.BatchResponse, error) {
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	resp, err := c.messaging.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send multicast notification: %w", err)
	}
	return resp, nil
}

// Broadcast is SendMulticast collapsed to a single error for callers
// that treat partial failure as success.
func (c *Client) Broadcast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	resp, err := c.SendMulticast(ctx, tokens, title, body, data)
	if err != nil {
		return err
	}
	if resp.FailureCount > 0 {
		logger.Log.WithField("failed_tokens", resp.FailureCount).Warn("some push deliveries failed")
	}
	return nil
}
