package api

import (
	"context"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// Login exchanges credentials for a bearer token. The endpoint is
// tenant-exempt: it must work before any company exists or is selected.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	if creds.Email == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "is required"}
	}
	if creds.Password == "" {
		return nil, &domain.ErrValidation{Field: "password", Message: "is required"}
	}

	payload, err := c.Post(ctx, "/auth/login", creds)
	if err != nil {
		return nil, err
	}

	var result domain.LoginResult
	if err := payload.Decode(&result); err != nil || result.Token == "" {
		// some revisions wrap the token in {data:{token:...}}
		var wrapped struct {
			Data *domain.LoginResult `json:"data"`
		}
		if werr := payload.Decode(&wrapped); werr == nil && wrapped.Data != nil && wrapped.Data.Token != "" {
			return wrapped.Data, nil
		}
		return nil, &domain.ErrDecode{Endpoint: "auth/login", Reason: "no token in response"}
	}
	return &result, nil
}
