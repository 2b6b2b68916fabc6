package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const periodLayout = "2006-01"

// Report is the monthly aggregate over the records of one calendar month.
// A report with RecordCount == 0 means the store has records, just none in
// the requested month.
type Report struct {
	Period            string             `json:"period"`
	TotalRevenue      float64            `json:"total_revenue"`
	TotalItems        int                `json:"total_items"`
	RevenueByCategory map[string]float64 `json:"revenue_by_category"`
	TopSeller         string             `json:"top_seller"`
	RecordCount       int                `json:"record_count"`
}

// Empty reports whether no record fell within the period.
func (r Report) Empty() bool {
	return r.RecordCount == 0
}

// Period is a validated calendar year-month.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod accepts exactly YYYY-MM with a month between 01 and 12.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil || t.Format(periodLayout) != s {
		return Period{}, fmt.Errorf("%w: period %q must be formatted as YYYY-MM", ErrInvalidArgument, s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Contains reports whether the date falls within the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// MonthlyReport aggregates the records that fall within period. records must
// be in storage order; it decides the top seller tie-break.
func MonthlyReport(records []SaleRecord, period Period) (Report, error) {
	if len(records) == 0 {
		return Report{}, fmt.Errorf("%w: no records", ErrNotFound)
	}

	report := Report{
		Period:            period.String(),
		RevenueByCategory: map[string]float64{},
	}

	total := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	bySeller := map[string]decimal.Decimal{}
	var sellers []string // in order of first appearance

	for _, r := range records {
		if !period.Contains(r.SaleDate) {
			continue
		}
		line := r.LineTotal()
		total = total.Add(line)
		report.TotalItems += r.Quantity
		report.RecordCount++

		byCategory[r.Category] = byCategory[r.Category].Add(line)
		if _, ok := bySeller[r.Seller]; !ok {
			sellers = append(sellers, r.Seller)
		}
		bySeller[r.Seller] = bySeller[r.Seller].Add(line)
	}

	if report.Empty() {
		return report, nil
	}

	report.TotalRevenue = total.Round(2).InexactFloat64()
	for category, revenue := range byCategory {
		report.RevenueByCategory[category] = revenue.Round(2).InexactFloat64()
	}
	report.TopSeller = topSeller(sellers, bySeller)

	return report, nil
}

// topSeller picks the highest revenue; ties go to the seller seen first.
func topSeller(order []string, revenue map[string]decimal.Decimal) string {
	var best string
	var bestRevenue decimal.Decimal
	for i, seller := range order {
		if i == 0 || revenue[seller].GreaterThan(bestRevenue) {
			best = seller
			bestRevenue = revenue[seller]
		}
	}
	return best
}
