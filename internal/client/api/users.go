package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/typematch/typematch/internal/client/models"
)

// UpdateUser patches a profile with a multipart form (fields plus an
// optional new picture) and returns the updated record.
func (c *Client) UpdateUser(ctx context.Context, username string, form *Form) (*models.User, error) {
	raw, err := c.Request(ctx, http.MethodPatch, "users/"+url.PathEscape(username), form)
	if err != nil {
		return nil, err
	}
	var res struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

// DeleteUser removes the account.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	_, err := c.Request(ctx, http.MethodDelete, "users/"+url.PathEscape(username), nil)
	return err
}

// MBTIDetails fetches the description of a user's personality type.
func (c *Client) MBTIDetails(ctx context.Context, username string) (*models.MBTIDetails, error) {
	raw, err := c.Request(ctx, http.MethodGet, "users/"+url.PathEscape(username)+"/mbti", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Details *models.MBTIDetails `json:"mbtiDetails"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Details, nil
}

// Matches fetches the compatibility suggestions for username. A timestamp
// query parameter busts any intermediate caches so repeat visits see fresh
// results.
func (c *Client) Matches(ctx context.Context, username string) ([]models.Match, error) {
	params := url.Values{"timestamp": {strconv.FormatInt(time.Now().UnixMilli(), 10)}}
	raw, err := c.Request(ctx, http.MethodGet, "users/"+url.PathEscape(username)+"/matches", params)
	if err != nil {
		return nil, err
	}
	var res struct {
		Matches []models.Match `json:"matches"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.Matches, nil
}

// UserProfile fetches another user's (or one's own) public profile.
func (c *Client) UserProfile(ctx context.Context, username string) (*models.User, error) {
	raw, err := c.Request(ctx, http.MethodGet, "users/"+url.PathEscape(username)+"/profile", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}
