package sales

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// ExportFormat selects the serialization of a full export.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportColumns is the header of a CSV export.
var ExportColumns = []string{
	"id", "product", "category", "unit_price", "quantity", "sale_date", "seller", "region",
}

// ParseExportFormat accepts csv and json. An empty value means csv.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q, use csv or json", ErrInvalidArgument, s)
}

// ExportCSV serializes every record with its id under a header row.
func ExportCSV(records []SaleRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrNotFound)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportColumns); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		if err := w.Write([]string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Product,
			r.Category,
			r.UnitPrice.String(),
			strconv.Itoa(r.Quantity),
			r.SaleDate.Format(DateLayout),
			r.Seller,
			r.Region,
		}); err != nil {
			return nil, fmt.Errorf("writing csv row %d: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportJSON returns one flat row per record.
func ExportJSON(records []SaleRecord) ([]ExportRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrNotFound)
	}
	rows := make([]ExportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Row())
	}
	return rows, nil
}
