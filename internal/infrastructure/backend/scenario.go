package backend

import (
	"context"
	"net/url"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/scenario"
)

// Scenarios fetches the raw scenario records for a place.
func (c *Client) Scenarios(ctx context.Context, place string) ([]scenario.RawRecord, error) {
	var envelope struct {
		Items []scenario.RawRecord `json:"items"`
	}
	path := "/scenarios?place=" + url.QueryEscape(place)
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}
