package api

import (
	"context"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// ListTransactions fetches the transaction list for the active company.
// An empty body normalizes to an empty slice, never nil-vs-error noise.
func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	payload, err := c.Get(ctx, "/transactions")
	if err != nil {
		return nil, err
	}

	if payload.Kind == PayloadEmpty {
		return []domain.Transaction{}, nil
	}

	var txs []domain.Transaction
	if err := payload.Decode(&txs); err != nil {
		// some revisions wrap the list in {data:[...]}
		var wrapped struct {
			Data []domain.Transaction `json:"data"`
		}
		if werr := payload.Decode(&wrapped); werr != nil || wrapped.Data == nil {
			return nil, &domain.ErrDecode{Endpoint: "transactions", Reason: "unrecognized list shape"}
		}
		txs = wrapped.Data
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

// CreateTransaction records a new revenue or expense entry. The caller
// is expected to broadcast the transactions-updated signal afterwards
// so the dashboard refetches its summary.
func (c *Client) CreateTransaction(ctx context.Context, nt domain.NewTransaction) (*domain.Transaction, error) {
	if nt.Type != domain.TransactionRevenue && nt.Type != domain.TransactionExpense {
		return nil, &domain.ErrValidation{Field: "type", Message: "must be revenue or expense"}
	}
	if nt.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if nt.Description == "" {
		return nil, &domain.ErrValidation{Field: "description", Message: "is required"}
	}

	payload, err := c.Post(ctx, "/transactions", nt)
	if err != nil {
		return nil, err
	}

	var tx domain.Transaction
	if err := payload.Decode(&tx); err == nil && tx.ID != "" {
		return &tx, nil
	}

	var wrapped struct {
		Data *domain.Transaction `json:"data"`
	}
	if err := payload.Decode(&wrapped); err == nil && wrapped.Data != nil && wrapped.Data.ID != "" {
		return wrapped.Data, nil
	}

	return nil, &domain.ErrDecode{Endpoint: "transactions", Reason: "unrecognized entity shape"}
}
