package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
)

// CreateGroup registers a new group and returns its id.
func (c *Client) CreateGroup(ctx context.Context, name string) (progress.Group, error) {
	form := url.Values{}
	form.Set("name", name)

	var group progress.Group
	if err := c.postForm(ctx, "/groups/create", form, &group); err != nil {
		return progress.Group{}, err
	}
	if group.GroupID == "" {
		return progress.Group{}, &RemoteError{Endpoint: "/groups/create", Err: fmt.Errorf("no group id in response")}
	}
	return group, nil
}

// JoinGroup adds a user to an existing group.
func (c *Client) JoinGroup(ctx context.Context, userID, userName, groupID string) error {
	form := url.Values{}
	form.Set("user_id", userID)
	form.Set("user_name", userName)
	form.Set("group_id", groupID)

	var resp struct {
		GroupID string `json:"group_id"`
	}
	if err := c.postForm(ctx, "/groups/join", form, &resp); err != nil {
		return err
	}
	if resp.GroupID == "" {
		return &RemoteError{Endpoint: "/groups/join", Err: fmt.Errorf("no group id in response")}
	}
	return nil
}

// GroupProgress fetches the published member ledger of a group.
func (c *Client) GroupProgress(ctx context.Context, groupID string) ([]progress.Member, error) {
	var envelope struct {
		Members []progress.Member `json:"members"`
	}
	path := "/groups/" + url.PathEscape(groupID) + "/progress"
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Members, nil
}

type publishBody struct {
	progress.PublishRecord
	LastUpdated string `json:"last_updated"`
	CreatedAt   string `json:"created_at"`
}

// PublishProgress sends a member's drafted figures to the group service.
// createdAt stamps both the draft creation and the aggregation time.
func (c *Client) PublishProgress(ctx context.Context, rec progress.PublishRecord, createdAt time.Time) error {
	stamp := createdAt.UTC().Format(time.RFC3339)
	body := publishBody{
		PublishRecord: rec,
		LastUpdated:   stamp,
		CreatedAt:     stamp,
	}
	return c.postJSON(ctx, "/progress/update", body, nil)
}
