package backend

import (
	"context"
	"encoding/json"
	"net/url"
)

// AdminPing verifies the configured backend admin token is accepted.
func (c *Client) AdminPing(ctx context.Context) error {
	return c.getJSONAuth(ctx, "/admin/ping", nil)
}

// AdminUsers fetches the backend's registered user list. The payload is
// passed through untouched.
func (c *Client) AdminUsers(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSONAuth(ctx, "/admin/users", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// AdminResponses fetches one user's stored response history, passed
// through untouched.
func (c *Client) AdminResponses(ctx context.Context, userID string) (json.RawMessage, error) {
	path := "/admin/responses?user_id=" + url.QueryEscape(userID)

	var raw json.RawMessage
	if err := c.getJSONAuth(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
