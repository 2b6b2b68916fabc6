package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPeriod(t *testing.T, s string) Period {
	t.Helper()
	p, err := ParsePeriod(s)
	require.NoError(t, err)
	return p
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, "2024-01", p.String())

	for _, bad := range []string{"", "2024-1", "2024-13", "2024-00", "24-01", "2024/01", "2024-01-10", " 2024-01", "janeiro"} {
		_, err := ParsePeriod(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestMonthlyReport_ComputesAggregates(t *testing.T) {
	records := []SaleRecord{
		newRecord(t, "Mouse", "Electronics", "50.0", 2, "2024-01-10", "Maria", "South"),
		newRecord(t, "Keyboard", "Electronics", "150.0", 1, "2024-01-11", "Jose", "North"),
	}

	report, err := MonthlyReport(records, mustPeriod(t, "2024-01"))
	require.NoError(t, err)

	assert.Equal(t, "2024-01", report.Period)
	assert.Equal(t, 250.0, report.TotalRevenue)
	assert.Equal(t, 3, report.TotalItems)
	assert.Equal(t, map[string]float64{"Electronics": 250.0}, report.RevenueByCategory)
	assert.Equal(t, 2, report.RecordCount)
	assert.False(t, report.Empty())
}

func TestMonthlyReport_FiltersByMonthAndYear(t *testing.T) {
	records := []SaleRecord{
		newRecord(t, "Mouse", "Electronics", "10", 1, "2024-01-31", "Maria", "South"),
		newRecord(t, "Chair", "Furniture", "500", 1, "2024-02-01", "Jose", "North"),
		newRecord(t, "Lamp", "Home", "70", 1, "2023-01-15", "Ana", "East"),
	}

	report, err := MonthlyReport(records, mustPeriod(t, "2024-01"))
	require.NoError(t, err)
	assert.Equal(t, 10.0, report.TotalRevenue)
	assert.Equal(t, 1, report.RecordCount)
	assert.Equal(t, "Maria", report.TopSeller)
	assert.NotContains(t, report.RevenueByCategory, "Furniture")
	assert.NotContains(t, report.RevenueByCategory, "Home")
}

func TestMonthlyReport_EmptyStoreIsNotFound(t *testing.T) {
	_, err := MonthlyReport(nil, mustPeriod(t, "2024-01"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMonthlyReport_NoRecordsForPeriodIsEmptyResult(t *testing.T) {
	records := []SaleRecord{newRecord(t, "Mouse", "Electronics", "50", 2, "2024-01-10", "Maria", "South")}

	report, err := MonthlyReport(records, mustPeriod(t, "2023-12"))
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Equal(t, "2023-12", report.Period)
	assert.Empty(t, report.RevenueByCategory)
	assert.Empty(t, report.TopSeller)
}

func TestMonthlyReport_CategoriesSumToTotal(t *testing.T) {
	records := []SaleRecord{
		newRecord(t, "Mouse", "Electronics", "19.99", 3, "2024-03-01", "Maria", "South"),
		newRecord(t, "Chair", "Furniture", "89.46", 2, "2024-03-02", "Jose", "North"),
		newRecord(t, "Lamp", "Home", "0.33", 7, "2024-03-03", "Ana", "East"),
		newRecord(t, "Cable", "Electronics", "4.10", 9, "2024-03-04", "Ana", "East"),
	}

	report, err := MonthlyReport(records, mustPeriod(t, "2024-03"))
	require.NoError(t, err)

	var sum float64
	for _, v := range report.RevenueByCategory {
		sum += v
	}
	assert.InDelta(t, report.TotalRevenue, sum, 0.01*float64(len(report.RevenueByCategory)))
	assert.Equal(t, 278.1, report.TotalRevenue)
	assert.Equal(t, 2.31, report.RevenueByCategory["Home"])
	assert.Equal(t, 21, report.TotalItems)
}

func TestMonthlyReport_RoundsTotalToTwoDecimals(t *testing.T) {
	records := []SaleRecord{
		newRecord(t, "A", "C", "0.105", 1, "2024-03-01", "S", "R"),
		newRecord(t, "B", "C", "0.1", 3, "2024-03-01", "S", "R"),
	}

	report, err := MonthlyReport(records, mustPeriod(t, "2024-03"))
	require.NoError(t, err)
	assert.Equal(t, 0.41, report.TotalRevenue)
}

func TestMonthlyReport_TopSellerByRevenue(t *testing.T) {
	records := []SaleRecord{
		newRecord(t, "Mouse", "Electronics", "50", 1, "2024-01-10", "Maria", "South"),
		newRecord(t, "Monitor", "Electronics", "900", 1, "2024-01-12", "Jose", "North"),
		newRecord(t, "Mouse", "Electronics", "50", 10, "2024-01-13", "Maria", "South"),
	}

	report, err := MonthlyReport(records, mustPeriod(t, "2024-01"))
	require.NoError(t, err)
	assert.Equal(t, "Jose", report.TopSeller)
}

func TestMonthlyReport_TopSellerTieGoesToEarliestSeller(t *testing.T) {
	records := []SaleRecord{
		newRecord(t, "Lamp", "Home", "10", 1, "2023-12-31", "Zoe", "East"),
		newRecord(t, "Mouse", "Electronics", "50", 2, "2024-01-10", "Maria", "South"),
		newRecord(t, "Keyboard", "Electronics", "100", 1, "2024-01-11", "Jose", "North"),
		newRecord(t, "Pad", "Electronics", "25", 4, "2024-01-12", "Ana", "East"),
	}

	for i := 0; i < 50; i++ {
		report, err := MonthlyReport(records, mustPeriod(t, "2024-01"))
		require.NoError(t, err)
		require.Equal(t, "Maria", report.TopSeller, "run %d", i)
	}
}
