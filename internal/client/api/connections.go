package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/typematch/typematch/internal/client/models"
)

// SendConnectionRequest asks to connect with username and returns the ID of
// the created request, needed for a later cancel.
func (c *Client) SendConnectionRequest(ctx context.Context, username string) (int64, error) {
	raw, err := c.Request(ctx, http.MethodPost, "connections/"+url.PathEscape(username)+"/connect", nil)
	if err != nil {
		return 0, err
	}
	var res struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return 0, err
	}
	return res.Data.ID, nil
}

// AcceptConnectionRequest confirms a received request.
func (c *Client) AcceptConnectionRequest(ctx context.Context, connectionID int64) error {
	_, err := c.Request(ctx, http.MethodPost, "connections/"+strconv.FormatInt(connectionID, 10)+"/accept", nil)
	return err
}

// CancelConnectionRequest withdraws one's own sent request.
func (c *Client) CancelConnectionRequest(ctx context.Context, connectionID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, "connections/"+strconv.FormatInt(connectionID, 10)+"/cancel-request", nil)
	return err
}

// DeclineConnectionRequest rejects a received request.
func (c *Client) DeclineConnectionRequest(ctx context.Context, connectionID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, "connections/"+strconv.FormatInt(connectionID, 10)+"/decline-request", nil)
	return err
}

// SentRequests lists requests the current user has sent and that are still
// pending.
func (c *Client) SentRequests(ctx context.Context) ([]models.Connection, error) {
	raw, err := c.Request(ctx, http.MethodGet, "connections/sent-requests", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Data []models.Connection `json:"data"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// PendingRequests lists requests other users have sent to the current user.
func (c *Client) PendingRequests(ctx context.Context) ([]models.Connection, error) {
	raw, err := c.Request(ctx, http.MethodGet, "connections/pending-requests", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Requests []models.Connection `json:"requests"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Requests, nil
}

// Connections lists confirmed connections.
func (c *Client) Connections(ctx context.Context) ([]models.Connection, error) {
	raw, err := c.Request(ctx, http.MethodGet, "connections", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Connections []models.Connection `json:"connections"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Connections, nil
}

// MarkRequestsRead marks all pending requests as seen.
func (c *Client) MarkRequestsRead(ctx context.Context) error {
	_, err := c.Request(ctx, http.MethodPatch, "connections/requests/read", nil)
	return err
}

// Disconnect removes a confirmed connection.
func (c *Client) Disconnect(ctx context.Context, connectionID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, "connections/"+strconv.FormatInt(connectionID, 10)+"/disconnect", nil)
	return err
}
