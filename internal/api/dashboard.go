package api

import (
	"context"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// GetDashboardSummary fetches the KPI snapshot for the active company.
// The summary is derived server-side and replaced whole on every fetch.
func (c *Client) GetDashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	payload, err := c.Get(ctx, "/api/dashboard/summary")
	if err != nil {
		return nil, err
	}

	var summary domain.DashboardSummary
	if err := payload.Decode(&summary); err != nil {
		return nil, &domain.ErrDecode{Endpoint: "dashboard/summary", Reason: err.Error()}
	}
	return &summary, nil
}
