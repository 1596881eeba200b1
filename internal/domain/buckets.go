package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DayBucket aggregates one calendar day of transactions for charting.
// Amounts are summed with decimal arithmetic so a 150.00 revenue entry
// moves the bucket by exactly 150.00, never a float approximation.
type DayBucket struct {
	Day     time.Time // midnight UTC of the bucket's day
	Revenue decimal.Decimal
	Expense decimal.Decimal
}

// Net returns revenue minus expense for the day.
func (b DayBucket) Net() decimal.Decimal {
	return b.Revenue.Sub(b.Expense)
}

// BucketByDay folds transactions into per-day revenue/expense buckets,
// ordered by day ascending. Unknown transaction types are skipped.
func BucketByDay(txs []Transaction) []DayBucket {
	byDay := make(map[time.Time]*DayBucket)

	for _, tx := range txs {
		day := tx.CreatedAt.UTC().Truncate(24 * time.Hour)
		b, ok := byDay[day]
		if !ok {
			b = &DayBucket{Day: day}
			byDay[day] = b
		}

		amount := decimal.NewFromFloat(tx.Amount)
		switch tx.Type {
		case TransactionRevenue:
			b.Revenue = b.Revenue.Add(amount)
		case TransactionExpense:
			b.Expense = b.Expense.Add(amount)
		}
	}

	buckets := make([]DayBucket, 0, len(byDay))
	for _, b := range byDay {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Day.Before(buckets[j].Day)
	})
	return buckets
}

// RevenueOn returns the revenue bucket total for the day containing t,
// or zero when no transactions landed on that day.
func RevenueOn(buckets []DayBucket, t time.Time) decimal.Decimal {
	day := t.UTC().Truncate(24 * time.Hour)
	for _, b := range buckets {
		if b.Day.Equal(day) {
			return b.Revenue
		}
	}
	return decimal.Zero
}
