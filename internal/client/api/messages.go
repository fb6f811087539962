package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/typematch/typematch/internal/client/models"
)

// SendMessage posts a direct message to username and returns the stored
// message as the server recorded it.
func (c *Client) SendMessage(ctx context.Context, username, content string) (*models.Message, error) {
	payload := map[string]string{"content": content}
	raw, err := c.Request(ctx, http.MethodPost, "messages/"+url.PathEscape(username), payload)
	if err != nil {
		return nil, err
	}
	var res struct {
		Message *models.Message `json:"message"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Message, nil
}

// Messages fetches the full conversation history with username.
func (c *Client) Messages(ctx context.Context, username string) ([]models.Message, error) {
	raw, err := c.Request(ctx, http.MethodGet, "messages/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

// UnreadMessages fetches all unread messages addressed to the current user.
func (c *Client) UnreadMessages(ctx context.Context) ([]models.Message, error) {
	raw, err := c.Request(ctx, http.MethodGet, "messages/unread", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

// MarkMessageRead flags a single message as read.
func (c *Client) MarkMessageRead(ctx context.Context, messageID int64) (*models.Message, error) {
	raw, err := c.Request(ctx, http.MethodPatch, "messages/"+strconv.FormatInt(messageID, 10)+"/read", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Message *models.Message `json:"message"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Message, nil
}
