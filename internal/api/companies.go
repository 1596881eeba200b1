package api

import (
	"context"
	"encoding/json"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// wireCompany tolerates the id arriving as either "id" or "_id".
type wireCompany struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Status  string `json:"status"`
}

func (w wireCompany) id() string {
	if w.ID != "" {
		return w.ID
	}
	return w.MongoID
}

func (w wireCompany) toDomain() domain.Company {
	return domain.Company{
		ID:     w.id(),
		Name:   w.Name,
		Sector: w.Sector,
		Status: w.Status,
	}
}

// ListCompanies fetches the company list. The backend has answered with
// a bare array, {companies:[...]}, {data:[...]}, and a bare single
// object across revisions; all are accepted, and entries without any id
// are filtered out. No id means not a real company.
func (c *Client) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	payload, err := c.Get(ctx, "/companies")
	if err != nil {
		return nil, err
	}
	return normalizeCompanyList(payload)
}

// CreateCompany creates a company and returns the canonical entity. The
// response may be the entity directly, or wrapped in {company:...} or
// {data:...}; any other shape is a decode error.
func (c *Client) CreateCompany(ctx context.Context, nc domain.NewCompany) (*domain.Company, error) {
	if nc.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "company name is required"}
	}

	payload, err := c.Post(ctx, "/companies", nc)
	if err != nil {
		return nil, err
	}
	return normalizeCompany(payload)
}

func normalizeCompanyList(payload Payload) ([]domain.Company, error) {
	if payload.Kind == PayloadEmpty {
		return []domain.Company{}, nil
	}
	if payload.Kind != PayloadJSON {
		return nil, &domain.ErrDecode{Endpoint: "companies", Reason: "expected JSON, got plain text"}
	}

	// bare array
	var list []wireCompany
	if err := json.Unmarshal(payload.Raw, &list); err == nil {
		return filterCompanies(list), nil
	}

	// wrapped array: {companies:[...]} or {data:[...]}
	var wrapped struct {
		Companies []wireCompany   `json:"companies"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload.Raw, &wrapped); err == nil {
		if wrapped.Companies != nil {
			return filterCompanies(wrapped.Companies), nil
		}
		if wrapped.Data != nil {
			var inner []wireCompany
			if err := json.Unmarshal(wrapped.Data, &inner); err == nil {
				return filterCompanies(inner), nil
			}
		}
	}

	// bare single object
	var single wireCompany
	if err := json.Unmarshal(payload.Raw, &single); err == nil {
		return filterCompanies([]wireCompany{single}), nil
	}

	return nil, &domain.ErrDecode{Endpoint: "companies", Reason: "unrecognized list shape"}
}

func normalizeCompany(payload Payload) (*domain.Company, error) {
	if payload.Kind != PayloadJSON {
		return nil, &domain.ErrDecode{Endpoint: "companies", Reason: "expected JSON entity"}
	}

	// wrapped: {company:...} or {data:...}
	var wrapped struct {
		Company *wireCompany `json:"company"`
		Data    *wireCompany `json:"data"`
	}
	if err := json.Unmarshal(payload.Raw, &wrapped); err == nil {
		if wrapped.Company != nil && wrapped.Company.id() != "" {
			entity := wrapped.Company.toDomain()
			return &entity, nil
		}
		if wrapped.Data != nil && wrapped.Data.id() != "" {
			entity := wrapped.Data.toDomain()
			return &entity, nil
		}
	}

	// bare entity
	var single wireCompany
	if err := json.Unmarshal(payload.Raw, &single); err == nil && single.id() != "" {
		entity := single.toDomain()
		return &entity, nil
	}

	return nil, &domain.ErrDecode{Endpoint: "companies", Reason: "unrecognized entity shape"}
}

// filterCompanies drops id-less records; they never surface to callers.
func filterCompanies(list []wireCompany) []domain.Company {
	out := make([]domain.Company, 0, len(list))
	for _, w := range list {
		if w.id() == "" {
			continue
		}
		out = append(out, w.toDomain())
	}
	return out
}
