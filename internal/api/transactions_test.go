package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

func TestListTransactionsShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":"t1","type":"revenue","amount":150}]`, 1},
		{"wrapped in data", `{"data":[{"id":"t1"},{"id":"t2"}]}`, 2},
		{"empty body", ``, 0},
		{"null data normalizes to empty", `[]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t,
				fakeSession{token: "tok", company: "c1"},
				DefaultPolicy(),
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(tt.body))
				}),
			)

			txs, err := client.ListTransactions(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if txs == nil {
				t.Fatal("list must never be nil")
			}
			if len(txs) != tt.want {
				t.Errorf("got %d transactions, want %d", len(txs), tt.want)
			}
		})
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	client := newTestClient(t,
		fakeSession{token: "tok", company: "c1"},
		DefaultPolicy(),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("validation failures must not reach the server")
		}),
	)

	cases := []domain.NewTransaction{
		{Type: "transfer", Amount: 10, Description: "x"},
		{Type: domain.TransactionRevenue, Amount: 0, Description: "x"},
		{Type: domain.TransactionRevenue, Amount: -5, Description: "x"},
		{Type: domain.TransactionExpense, Amount: 10, Description: ""},
	}
	for _, nt := range cases {
		if _, err := client.CreateTransaction(context.Background(), nt); err == nil {
			t.Errorf("expected validation error for %+v", nt)
		}
	}
}

func TestCreateTransactionDecodesEntity(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare entity", `{"id":"t9","type":"revenue","amount":150,"description":"sale"}`},
		{"wrapped in data", `{"data":{"id":"t9","type":"revenue","amount":150}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t,
				fakeSession{token: "tok", company: "c1"},
				DefaultPolicy(),
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(tt.body))
				}),
			)

			tx, err := client.CreateTransaction(context.Background(), domain.NewTransaction{
				Type:        domain.TransactionRevenue,
				Amount:      150.00,
				Description: "sale",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.ID != "t9" {
				t.Errorf("id = %q, want t9", tx.ID)
			}
		})
	}
}
