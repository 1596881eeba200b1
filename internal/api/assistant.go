package api

import (
	"context"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// Chat sends a message to the AI assistant and returns its reply. The
// backend answers either {response:...}, {message:...}, or a bare
// string; all normalize to the reply text.
func (c *Client) Chat(ctx context.Context, message string, level domain.DetailLevel) (string, error) {
	if message == "" {
		return "", &domain.ErrValidation{Field: "message", Message: "is required"}
	}

	payload, err := c.Post(ctx, "/chat", map[string]any{
		"message":     message,
		"detailLevel": level,
	})
	if err != nil {
		return "", err
	}
	return assistantText(payload, "chat", []string{"response", "message"})
}

// Analyze submits arbitrary data for AI analysis at the requested
// detail level. Accepted response shapes: {analysis}, {insight},
// {message}, or a bare string.
func (c *Client) Analyze(ctx context.Context, data any, level domain.DetailLevel) (*domain.AnalysisResult, error) {
	payload, err := c.Post(ctx, "/api/ai/analyze", map[string]any{
		"data":        data,
		"detailLevel": level,
	})
	if err != nil {
		return nil, err
	}

	text, err := assistantText(payload, "ai/analyze", []string{"analysis", "insight", "message"})
	if err != nil {
		return nil, err
	}
	return &domain.AnalysisResult{Text: text}, nil
}

// assistantText normalizes the object-or-string response shapes the AI
// endpoints use, trying the given fields in order.
func assistantText(payload Payload, endpoint string, fields []string) (string, error) {
	if s := payload.String(); s != "" {
		return s, nil
	}

	var obj map[string]any
	if err := payload.Decode(&obj); err == nil {
		for _, field := range fields {
			if s, ok := obj[field].(string); ok && s != "" {
				return s, nil
			}
		}
	}

	return "", &domain.ErrDecode{Endpoint: endpoint, Reason: "no reply text in response"}
}
