package sales

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, ok := ParseDate(s)
	if !ok {
		t.Fatalf("invalid test date %q", s)
	}
	return d
}

func newRecord(t *testing.T, product, category, price string, qty int, date, seller, region string) SaleRecord {
	t.Helper()
	return SaleRecord{
		Product:   product,
		Category:  category,
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
		SaleDate:  mustDate(t, date),
		Seller:    seller,
		Region:    region,
	}
}
