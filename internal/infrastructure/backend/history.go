package backend

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
)

// SaveResponse persists an assessment snapshot to the history store.
func (c *Client) SaveResponse(ctx context.Context, snap *assessment.Snapshot) error {
	return c.postJSON(ctx, "/responses/save", snap, nil)
}

// LastResponse fetches a user's most recent snapshot. An empty body
// means no history exists and returns nil without error.
func (c *Client) LastResponse(ctx context.Context, userID string) (*assessment.Snapshot, error) {
	path := "/responses/last?user_id=" + url.QueryEscape(userID)

	var raw json.RawMessage
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		return nil, nil
	}

	var snap assessment.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, &RemoteError{Endpoint: path, Err: err}
	}
	return &snap, nil
}
