package stubapi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"shop-backoffice/internal/domain"
)

func seedStore() *Store {
	s := NewStore()
	s.AddProduct(
		domain.Product{Name: "Alpha Runner", Category: "shoes", UnitPrice: decimal.NewFromInt(120), UnitCost: decimal.NewFromInt(70)},
		[]domain.Variant{{Color: domain.Color{ID: "c1"}, Size: domain.Size{ID: "s1"}, AvailableQuantity: 5}},
	)
	s.AddProduct(
		domain.Product{Name: "Beta Sandal", Category: "sandals", UnitPrice: decimal.NewFromInt(40), UnitCost: decimal.NewFromInt(20)},
		[]domain.Variant{{Color: domain.Color{ID: "c1"}, Size: domain.Size{ID: "s1"}, AvailableQuantity: 2}},
	)
	return s
}

func TestListProductsFilterAndPaginate(t *testing.T) {
	s := seedStore()

	page := s.ListProducts(1, 1, "name", "", "")
	if page.TotalItems != 2 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Items[0].Name != "Alpha Runner" {
		t.Fatalf("name sort broken: %s", page.Items[0].Name)
	}

	page = s.ListProducts(1, 10, "", "sandals", "")
	if len(page.Items) != 1 || page.Items[0].Name != "Beta Sandal" {
		t.Fatalf("category filter broken: %+v", page.Items)
	}

	page = s.ListProducts(1, 10, "", "", "RUNNER")
	if len(page.Items) != 1 || page.Items[0].Name != "Alpha Runner" {
		t.Fatalf("search should be case-insensitive: %+v", page.Items)
	}

	page = s.ListProducts(9, 10, "", "", "")
	if len(page.Items) != 0 || page.Page != 9 {
		t.Fatalf("out-of-range page should be empty: %+v", page)
	}
}

func TestDetailReservesStock(t *testing.T) {
	s := seedStore()
	products := s.ListProducts(1, 10, "name", "", "").Items
	variantID := s.variants[products[0].ID][0].ID

	order := s.CreateOrder(domain.Order{Customer: domain.CustomerInfo{FirstName: "Ada"}})

	li, err := s.CreateDetail(order.ID, variantID, 3, decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("create detail: %v", err)
	}
	if !li.LineTotal.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("line total %s, want 360", li.LineTotal)
	}
	variants, _ := s.Variants(products[0].ID)
	if variants[0].AvailableQuantity != 2 {
		t.Fatalf("stock not reserved, available=%d", variants[0].AvailableQuantity)
	}

	if _, err := s.CreateDetail(order.ID, variantID, 3, decimal.NewFromInt(120)); err == nil {
		t.Fatalf("expected stock rejection")
	}

	if _, err := s.UpdateDetail(li.DetailID, 4); err != nil {
		t.Fatalf("update detail: %v", err)
	}
	variants, _ = s.Variants(products[0].ID)
	if variants[0].AvailableQuantity != 1 {
		t.Fatalf("delta not applied, available=%d", variants[0].AvailableQuantity)
	}

	if _, err := s.UpdateDetail(li.DetailID, 0); err == nil {
		t.Fatalf("zero quantity must be rejected")
	}
	if _, err := s.UpdateDetail("missing", 1); err == nil {
		t.Fatalf("unknown detail must be rejected")
	}
}

func TestUpdateDetailRejectsNonPositiveQuantity(t *testing.T) {
	s := seedStore()
	products := s.ListProducts(1, 10, "name", "", "").Items
	variantID := s.variants[products[0].ID][0].ID

	order := s.CreateOrder(domain.Order{})
	li, err := s.CreateDetail(order.ID, variantID, 5, decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("create detail: %v", err)
	}

	// Stock is fully reserved; the zero-quantity rejection must still win
	// over the stock-delta check.
	if _, err := s.UpdateDetail(li.DetailID, 0); err == nil {
		t.Fatalf("zero quantity accepted")
	}
	details, _ := s.OrderDetails(order.ID)
	if details[0].Quantity != 5 {
		t.Fatalf("rejected update mutated the detail: %+v", details[0])
	}
}

func TestOrderDetailsRefreshesCeiling(t *testing.T) {
	s := seedStore()
	products := s.ListProducts(1, 10, "name", "", "").Items
	variantID := s.variants[products[0].ID][0].ID

	order := s.CreateOrder(domain.Order{})
	li, err := s.CreateDetail(order.ID, variantID, 3, decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("create detail: %v", err)
	}

	// A second order takes the remaining 2 units; the first order's ceiling
	// shrinks to exactly what it already holds.
	other := s.CreateOrder(domain.Order{})
	if _, err := s.CreateDetail(other.ID, variantID, 2, decimal.NewFromInt(120)); err != nil {
		t.Fatalf("create competing detail: %v", err)
	}

	details, _ := s.OrderDetails(order.ID)
	if details[0].LimitedQuantity != 3 {
		t.Fatalf("ceiling %d, want 3", details[0].LimitedQuantity)
	}

	// Shrinking the line releases 2 units back to stock, so the ceiling is
	// the released 2 plus the 1 still held.
	if _, err := s.UpdateDetail(li.DetailID, 1); err != nil {
		t.Fatalf("update detail: %v", err)
	}
	details, _ = s.OrderDetails(order.ID)
	if details[0].LimitedQuantity != 3 {
		t.Fatalf("ceiling %d after release, want 3", details[0].LimitedQuantity)
	}
}

func TestSalesSummaryWindow(t *testing.T) {
	s := seedStore()
	products := s.ListProducts(1, 10, "name", "", "").Items
	variantID := s.variants[products[0].ID][0].ID

	order := s.CreateOrder(domain.Order{Total: decimal.NewFromInt(240)})
	if _, err := s.CreateDetail(order.ID, variantID, 2, decimal.NewFromInt(120)); err != nil {
		t.Fatalf("create detail: %v", err)
	}

	sum := s.SalesSummary(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if sum.OrderCount != 1 || !sum.Revenue.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if !sum.Profit.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("profit %s, want (120-70)x2=100", sum.Profit)
	}

	empty := s.SalesSummary(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	if empty.OrderCount != 0 {
		t.Fatalf("window filter broken: %+v", empty)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	payload := `[
		{
			"name": "Imported Boot",
			"category": "boots",
			"unitPrice": "150",
			"unitCost": "90",
			"variants": [
				{"color": {"id": "c1", "name": "Black"}, "size": {"id": "s1", "name": "42"}, "availableQuantity": 7}
			]
		}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := seedStore()
	if err := s.LoadSeedFile(path); err != nil {
		t.Fatalf("load seed: %v", err)
	}
	page := s.ListProducts(1, 10, "", "", "")
	if page.TotalItems != 1 || page.Items[0].Name != "Imported Boot" {
		t.Fatalf("seed file did not replace catalog: %+v", page)
	}
	variants, ok := s.Variants(page.Items[0].ID)
	if !ok || len(variants) != 1 || variants[0].AvailableQuantity != 7 {
		t.Fatalf("variants not imported: %+v", variants)
	}

	if err := s.LoadSeedFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSeedDemoCatalog(t *testing.T) {
	s := NewStore()
	s.Seed()
	page := s.ListProducts(1, 10, "", "", "")
	if page.TotalItems != 3 {
		t.Fatalf("expected 3 demo products, got %d", page.TotalItems)
	}
	for _, p := range page.Items {
		variants, ok := s.Variants(p.ID)
		if !ok || len(variants) != 4 {
			t.Fatalf("product %s should have 4 color/size variants", p.Name)
		}
	}
}
