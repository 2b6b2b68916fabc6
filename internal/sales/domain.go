package sales

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on the wire and in exports.
const DateLayout = "2006-01-02"

const (
	// PriceScale is the number of decimals kept for unit prices. It matches
	// the numeric(12,2) column, so prices are rounded before they are checked.
	PriceScale = 2
	// MaxQuantity is the largest quantity the integer column holds.
	MaxQuantity = math.MaxInt32
)

// SaleRecord represents one sale transaction in the system.
type SaleRecord struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Product   string          `gorm:"size:100;not null" json:"product" validate:"required,max=100"`
	Category  string          `gorm:"size:50;not null" json:"category" validate:"required,max=50"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price" validate:"gt=0"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"gt=0,lte=2147483647"`
	SaleDate  time.Time       `gorm:"type:date;not null;index" json:"sale_date" validate:"required"`
	Seller    string          `gorm:"size:100;not null" json:"seller" validate:"required,max=100"`
	Region    string          `gorm:"size:50;not null" json:"region" validate:"required,max=50"`
}

// TableName pins the table name regardless of gorm's naming strategy.
func (SaleRecord) TableName() string {
	return "sales"
}

// LineTotal is unit price times quantity. It is never stored.
func (r SaleRecord) LineTotal() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// ExportRow is the flat wire shape of a record, used by the JSON export and
// by the API responses.
type ExportRow struct {
	ID        uint    `json:"id"`
	Product   string  `json:"product"`
	Category  string  `json:"category"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	SaleDate  string  `json:"sale_date"`
	Seller    string  `json:"seller"`
	Region    string  `json:"region"`
}

// Row converts the record to its wire shape.
func (r SaleRecord) Row() ExportRow {
	return ExportRow{
		ID:        r.ID,
		Product:   r.Product,
		Category:  r.Category,
		UnitPrice: r.UnitPrice.InexactFloat64(),
		Quantity:  r.Quantity,
		SaleDate:  r.SaleDate.Format(DateLayout),
		Seller:    r.Seller,
		Region:    r.Region,
	}
}

// MarshalJSON renders sale_date as YYYY-MM-DD and unit_price as a number.
func (r SaleRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Row())
}

func (r *SaleRecord) normalize() {
	r.Product = strings.TrimSpace(r.Product)
	r.Category = strings.TrimSpace(r.Category)
	r.Seller = strings.TrimSpace(r.Seller)
	r.Region = strings.TrimSpace(r.Region)
	r.UnitPrice = r.UnitPrice.Round(PriceScale)
	if !r.SaleDate.IsZero() {
		r.SaleDate = civilDate(r.SaleDate)
	}
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Product   *string          `validate:"omitempty,min=1,max=100"`
	Category  *string          `validate:"omitempty,min=1,max=50"`
	UnitPrice *decimal.Decimal `validate:"omitempty,gt=0"`
	Quantity  *int             `validate:"omitempty,gt=0,lte=2147483647"`
	SaleDate  *time.Time
	Seller    *string `validate:"omitempty,min=1,max=100"`
	Region    *string `validate:"omitempty,min=1,max=50"`
}

// FullPatch builds a patch that replaces every mutable field of a record.
func FullPatch(r SaleRecord) Patch {
	return Patch{
		Product:   &r.Product,
		Category:  &r.Category,
		UnitPrice: &r.UnitPrice,
		Quantity:  &r.Quantity,
		SaleDate:  &r.SaleDate,
		Seller:    &r.Seller,
		Region:    &r.Region,
	}
}

// IsEmpty reports whether the patch carries no field at all.
func (p Patch) IsEmpty() bool {
	return p.Product == nil && p.Category == nil && p.UnitPrice == nil &&
		p.Quantity == nil && p.SaleDate == nil && p.Seller == nil && p.Region == nil
}

// Apply assigns every supplied field to r.
func (p Patch) Apply(r *SaleRecord) {
	if p.Product != nil {
		r.Product = *p.Product
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.UnitPrice != nil {
		r.UnitPrice = *p.UnitPrice
	}
	if p.Quantity != nil {
		r.Quantity = *p.Quantity
	}
	if p.SaleDate != nil {
		r.SaleDate = *p.SaleDate
	}
	if p.Seller != nil {
		r.Seller = *p.Seller
	}
	if p.Region != nil {
		r.Region = *p.Region
	}
}

func (p *Patch) normalize() {
	for _, s := range []**string{&p.Product, &p.Category, &p.Seller, &p.Region} {
		if *s != nil {
			trimmed := strings.TrimSpace(**s)
			*s = &trimmed
		}
	}
	if p.UnitPrice != nil {
		price := p.UnitPrice.Round(PriceScale)
		p.UnitPrice = &price
	}
	if p.SaleDate != nil && !p.SaleDate.IsZero() {
		d := civilDate(*p.SaleDate)
		p.SaleDate = &d
	}
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
