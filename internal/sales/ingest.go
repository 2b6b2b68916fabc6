package sales

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Column positions of an ingested row, in canonical header order.
const (
	colProduct = iota
	colCategory
	colUnitPrice
	colQuantity
	colSaleDate
	colSeller
	colRegion
	numColumns
)

// IngestColumns is the exact header set accepted by Ingest.
var IngestColumns = [numColumns]string{
	"product", "category", "unit_price", "quantity", "sale_date", "seller", "region",
}

// nullMarkers are cell values read as missing, matching what dataframe CSV
// readers treat as NA by default.
var nullMarkers = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {},
	"-1.#IND": {}, "-1.#QNAN": {}, "1.#IND": {}, "1.#QNAN": {},
}

var saleDateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type rawRow [numColumns]string

// IngestStats counts what happened to every data row of an upload.
type IngestStats struct {
	Read                 int `json:"read"`
	Kept                 int `json:"kept"`
	DroppedMissing       int `json:"dropped_missing"`
	DroppedDuplicate     int `json:"dropped_duplicate"`
	DroppedInvalidNumber int `json:"dropped_invalid_number"`
	DroppedInvalidDate   int `json:"dropped_invalid_date"`
	DroppedNonPositive   int `json:"dropped_non_positive"`
}

// Dropped is the number of rows excluded for any reason.
func (s IngestStats) Dropped() int {
	return s.DroppedMissing + s.DroppedDuplicate + s.DroppedInvalidNumber +
		s.DroppedInvalidDate + s.DroppedNonPositive
}

// Ingest parses a CSV upload into clean records, in upload order.
//
// Malformed rows are dropped silently and only counted in the returned stats.
// An error is returned only when the payload as a whole cannot be read, and
// then no record is returned.
func Ingest(raw []byte) ([]SaleRecord, IngestStats, error) {
	var stats IngestStats

	rows, err := parseRows(raw)
	if err != nil {
		return nil, stats, err
	}
	stats.Read = len(rows)

	seen := make(map[rawRow]struct{}, len(rows))
	records := make([]SaleRecord, 0, len(rows))
	for _, row := range rows {
		if row.hasMissing() {
			stats.DroppedMissing++
			continue
		}
		if _, dup := seen[row]; dup {
			stats.DroppedDuplicate++
			continue
		}
		seen[row] = struct{}{}

		price, priceErr := decimal.NewFromString(row[colUnitPrice])
		quantity, qtyOK := parseQuantity(row[colQuantity])
		if priceErr != nil || !qtyOK {
			stats.DroppedInvalidNumber++
			continue
		}
		// a price that rounds to zero cents is non-positive once stored
		price = price.Round(PriceScale)
		saleDate, ok := ParseDate(row[colSaleDate])
		if !ok {
			stats.DroppedInvalidDate++
			continue
		}
		if !price.IsPositive() || quantity <= 0 {
			stats.DroppedNonPositive++
			continue
		}

		records = append(records, SaleRecord{
			Product:   row[colProduct],
			Category:  row[colCategory],
			UnitPrice: price,
			Quantity:  quantity,
			SaleDate:  saleDate,
			Seller:    row[colSeller],
			Region:    row[colRegion],
		})
	}
	stats.Kept = len(records)

	return records, stats, nil
}

func parseRows(raw []byte) ([]rawRow, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return nil, &IngestionError{Reason: "payload is not valid UTF-8"}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &IngestionError{Reason: "payload is empty"}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &IngestionError{Reason: fmt.Sprintf("reading header: %v", err)}
	}
	positions, err := headerPositions(header)
	if err != nil {
		return nil, err
	}

	var rows []rawRow
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &IngestionError{Reason: fmt.Sprintf("malformed csv: %v", err)}
		}
		if len(cells) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, &IngestionError{
				Reason: fmt.Sprintf("line %d has %d fields, header has %d", line, len(cells), len(header)),
			}
		}

		var row rawRow
		for i, col := range positions {
			// short rows leave trailing cells empty, which reads as missing
			if col < len(cells) {
				row[i] = strings.TrimSpace(cells[col])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// headerPositions maps each canonical column to its index in the header.
func headerPositions(header []string) ([numColumns]int, error) {
	var positions [numColumns]int
	if len(header) != numColumns {
		return positions, &IngestionError{
			Reason: fmt.Sprintf("header must have exactly %d columns (%s), got %d",
				numColumns, strings.Join(IngestColumns[:], ", "), len(header)),
		}
	}

	index := make(map[string]int, numColumns)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; dup {
			return positions, &IngestionError{Reason: fmt.Sprintf("duplicate column %q", name)}
		}
		index[name] = i
	}
	for i, name := range IngestColumns {
		pos, ok := index[name]
		if !ok {
			return positions, &IngestionError{Reason: fmt.Sprintf("missing required column %q", name)}
		}
		positions[i] = pos
	}
	return positions, nil
}

func (r rawRow) hasMissing() bool {
	for _, cell := range r {
		if _, null := nullMarkers[cell]; null {
			return true
		}
	}
	return false
}

// parseQuantity accepts integers and integral decimals such as "2.0".
func parseQuantity(s string) (int, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d, derr := decimal.NewFromString(s)
		if derr != nil || !d.IsInteger() {
			return 0, false
		}
		if d.Abs().GreaterThan(decimal.NewFromInt(MaxQuantity)) {
			return 0, false
		}
		n = d.IntPart()
	}
	if n > MaxQuantity || n < math.MinInt32 {
		return 0, false
	}
	return int(n), true
}

// ParseDate reads a calendar date. Any time of day is discarded.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civilDate(t), true
		}
	}
	return time.Time{}, false
}
