package sales

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSeedCount is how many records the seed command writes by default.
const DefaultSeedCount = 500

// seedWindowDays bounds how far back generated sale dates go.
const seedWindowDays = 180

var (
	seedProducts = []string{
		"Dell Notebook", "Logitech Mouse", "Mechanical Keyboard", "LG Monitor",
		"Polo Shirt", "Jeans", "Running Shoes", "Bluetooth Headphones",
		"Python Book", "SQL Book", "Office Desk", "Gaming Chair",
		"Football", "Tennis Racket", "Bicycle", "Samsung Smartphone",
		"Apple Tablet", "Fan", "Blender", "Smartwatch",
	}
	seedCategories = []string{"Electronics", "Clothing", "Home", "Sports", "Books"}
	seedSellers    = []string{"Joao", "Maria", "Carlos", "Ana", "Pedro", "Mariana", "Bruno", "Sofia", "Lucas", "Fernanda"}
	seedRegions    = []string{"North", "South", "Southeast", "Midwest", "Northeast"}
)

// SeedRecords generates n random sales dated within the 180 days up to now.
// Prices fall between 10.00 and 5000.00 and quantities between 1 and 20.
func SeedRecords(rng *rand.Rand, n int, now time.Time) []SaleRecord {
	today := civilDate(now)
	records := make([]SaleRecord, 0, max(n, 0))
	for range n {
		cents := 1000 + rng.Int64N(499_001)
		records = append(records, SaleRecord{
			Product:   pick(rng, seedProducts),
			Category:  pick(rng, seedCategories),
			UnitPrice: decimal.New(cents, -PriceScale),
			Quantity:  1 + rng.IntN(20),
			SaleDate:  today.AddDate(0, 0, -rng.IntN(seedWindowDays+1)),
			Seller:    pick(rng, seedSellers),
			Region:    pick(rng, seedRegions),
		})
	}
	return records
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
