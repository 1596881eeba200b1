package api

import (
	"context"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// ExportFinancialCSV downloads the financial report for the active
// company as raw CSV bytes.
func (c *Client) ExportFinancialCSV(ctx context.Context) (*domain.Download, error) {
	dl, err := c.Download(ctx, "/api/export/financial")
	if err != nil {
		return nil, err
	}
	if dl.Filename == "" {
		dl.Filename = "financial-export.csv"
	}
	return dl, nil
}
