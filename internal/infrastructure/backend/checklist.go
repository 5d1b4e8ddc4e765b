package backend

import (
	"context"
	"sort"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
)

// Checklist fetches the self-check questions, ordered by their display
// number.
func (c *Client) Checklist(ctx context.Context) ([]assessment.ChecklistItem, error) {
	var envelope struct {
		Items []assessment.ChecklistItem `json:"items"`
	}
	if err := c.getJSON(ctx, "/quiz", &envelope); err != nil {
		return nil, err
	}

	items := envelope.Items
	sort.SliceStable(items, func(i, j int) bool { return items[i].No < items[j].No })
	return items, nil
}
