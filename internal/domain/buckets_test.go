package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBucketByDayExactRevenueIncrease(t *testing.T) {
	day := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	before := []Transaction{
		{Type: TransactionRevenue, Amount: 10.10, CreatedAt: day},
	}
	after := append(before, Transaction{
		Type: TransactionRevenue, Amount: 150.00, CreatedAt: day.Add(2 * time.Hour),
	})

	prev := RevenueOn(BucketByDay(before), day)
	next := RevenueOn(BucketByDay(after), day)

	if diff := next.Sub(prev); !diff.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("revenue moved by %s, want exactly 150.00", diff)
	}
}

func TestBucketByDayGroupsAndSorts(t *testing.T) {
	d1 := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC)

	buckets := BucketByDay([]Transaction{
		{Type: TransactionExpense, Amount: 5, CreatedAt: d2},
		{Type: TransactionRevenue, Amount: 20, CreatedAt: d1},
		{Type: TransactionRevenue, Amount: 7, CreatedAt: d2},
	})

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if !buckets[0].Day.Before(buckets[1].Day) {
		t.Error("buckets not sorted ascending by day")
	}
	if !buckets[0].Revenue.Equal(decimal.NewFromInt(20)) {
		t.Errorf("day1 revenue = %s, want 20", buckets[0].Revenue)
	}
	if !buckets[1].Net().Equal(decimal.NewFromInt(2)) {
		t.Errorf("day2 net = %s, want 2", buckets[1].Net())
	}
}

func TestBucketByDaySkipsUnknownTypes(t *testing.T) {
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	buckets := BucketByDay([]Transaction{
		{Type: "transfer", Amount: 99, CreatedAt: day},
		{Type: TransactionRevenue, Amount: 1, CreatedAt: day},
	})

	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	if !buckets[0].Revenue.Equal(decimal.NewFromInt(1)) {
		t.Errorf("revenue = %s, want 1", buckets[0].Revenue)
	}
	if !buckets[0].Expense.IsZero() {
		t.Errorf("expense = %s, want 0", buckets[0].Expense)
	}
}

func TestRevenueOnMissingDayIsZero(t *testing.T) {
	if !RevenueOn(nil, time.Now()).IsZero() {
		t.Error("missing day should report zero revenue")
	}
}

func TestParseDetailLevel(t *testing.T) {
	if ParseDetailLevel("high") != DetailHigh {
		t.Error("high not parsed")
	}
	if ParseDetailLevel("garbage") != DetailMedium {
		t.Error("unknown level should default to medium")
	}
	if ParseDetailLevel("") != DetailMedium {
		t.Error("empty level should default to medium")
	}
}

func TestParseThemeMode(t *testing.T) {
	if ParseThemeMode("light") != ThemeLight {
		t.Error("light not parsed")
	}
	if ParseThemeMode("solarized") != ThemeDark {
		t.Error("unknown theme should default to dark")
	}
}
