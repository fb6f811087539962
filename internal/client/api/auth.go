package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/typematch/typematch/internal/client/models"
)

// Login exchanges credentials for a session token. The caller decides what
// to do with the token; the client does not store it itself.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}
	raw, err := c.Request(ctx, http.MethodPost, loginEndpoint, payload)
	if err != nil {
		return "", err
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

// Register creates an account from a multipart signup form (the form may
// carry a profile picture). Returns the token issued by the server, which
// may be empty if registration did not produce one.
func (c *Client) Register(ctx context.Context, form *Form) (string, error) {
	raw, err := c.Request(ctx, http.MethodPost, "auth/register", form)
	if err != nil {
		return "", err
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

// CurrentUser fetches the profile record for the holder of the current token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, err := c.Request(ctx, http.MethodGet, "auth/me", nil)
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
