package api

import (
	"context"
	"errors"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// GetProfile fetches the logged-in user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	payload, err := c.Get(ctx, "/api/user/profile")
	if err != nil {
		return nil, err
	}

	var profile domain.UserProfile
	if err := payload.Decode(&profile); err != nil {
		return nil, &domain.ErrDecode{Endpoint: "user/profile", Reason: err.Error()}
	}
	return &profile, nil
}

// UpdateProfile patches the profile with the non-empty fields of p and
// returns the updated record when the backend echoes one.
func (c *Client) UpdateProfile(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, error) {
	payload, err := c.Patch(ctx, "/api/user/profile", p)
	if err != nil {
		return nil, err
	}

	var updated domain.UserProfile
	if err := payload.Decode(&updated); err != nil {
		return nil, &domain.ErrDecode{Endpoint: "user/profile", Reason: err.Error()}
	}
	return &updated, nil
}

// ChangePassword updates the account password. Two backend revisions
// exist; the current path is tried first, then the legacy one on any
// remote failure.
func (c *Client) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	if change.NewPassword == "" {
		return &domain.ErrValidation{Field: "newPassword", Message: "is required"}
	}

	_, err := c.Patch(ctx, "/api/user/password", change)
	if err == nil {
		return nil
	}

	// local failures are not worth a second network round-trip
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) && reqErr.Status == 0 && reqErr.Err == nil {
		return err
	}

	_, err = c.Patch(ctx, "/api/user/change-password", change)
	return err
}
